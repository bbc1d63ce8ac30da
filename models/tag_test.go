package models_test

import (
	"errors"
	"testing"

	"github.com/rpupo63/foodgram-backend/database/testutil"
	"github.com/rpupo63/foodgram-backend/errs"
	"github.com/rpupo63/foodgram-backend/models"
)

func TestTagRejectsMalformedColor(t *testing.T) {
	db := testutil.DB(t)

	for _, color := range []string{"red", "#12345", "#1234567", "#12345G", "#fff", ""} {
		err := db.Create(&models.Tag{Name: "Bad " + color, Color: color, Slug: "bad-" + color}).Error
		if !errors.Is(err, errs.ErrValidation) {
			t.Fatalf("color %q: expected validation error, got %v", color, err)
		}
		if errs.FieldOf(err) != "color" {
			t.Fatalf("color %q: field %q", color, errs.FieldOf(err))
		}
	}

	var n int64
	if err := db.Model(&models.Tag{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("%d tags with bad colors were stored", n)
	}

	if err := db.Create(&models.Tag{Name: "Lunch", Color: "#49b64E", Slug: "lunch"}).Error; err != nil {
		t.Fatalf("valid color rejected: %v", err)
	}
}
