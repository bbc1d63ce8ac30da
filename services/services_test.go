package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rpupo63/foodgram-backend/config"
	"github.com/rpupo63/foodgram-backend/database"
	"github.com/rpupo63/foodgram-backend/database/testutil"
	"gorm.io/gorm"
)

// storedImages stands in for the storage-backed decoder
type storedImages struct {
	err error
}

func (s storedImages) Decode(_ context.Context, value string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "/media/" + value, nil
}

type fixture struct {
	db      database.Database
	gdb     *gorm.DB
	recipes *RecipeService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, gdb := testutil.Database(t)
	return fixture{
		db:      db,
		gdb:     gdb,
		recipes: NewRecipeService(db, config.DefaultLimits(), storedImages{}),
	}
}

func assertKind(t *testing.T, err error, kind error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, got nil", kind)
	}
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count %T: %v", model, err)
	}
	return n
}
