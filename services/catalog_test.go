package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/database/testutil"
	"github.com/rpupo63/foodgram-backend/errs"
)

func TestCatalogServiceImportIngredients(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	catalog := NewCatalogService(f.db)

	csv := "name,measurement_unit\n" +
		"salt,g\n" +
		"\"sugar, brown\", g\n" +
		"Salmon,kg\n"
	n, err := catalog.ImportIngredients(ctx, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportIngredients: %v", err)
	}
	if n != 3 {
		t.Fatalf("imported %d, want 3", n)
	}

	found, err := catalog.Ingredients(ctx, "sa")
	if err != nil {
		t.Fatalf("Ingredients: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("prefix search: got %d results", len(found))
	}

	brown, err := catalog.Ingredients(ctx, "sugar")
	if err != nil {
		t.Fatalf("Ingredients: %v", err)
	}
	if len(brown) != 1 || brown[0].Name != "sugar, brown" || brown[0].MeasurementUnit != "g" {
		t.Fatalf("quoted record: %+v", brown)
	}

	again := "salt,g\nsalt,kg\n"
	n, err = catalog.ImportIngredients(ctx, strings.NewReader(again))
	if err != nil {
		t.Fatalf("second ImportIngredients: %v", err)
	}
	if n != 1 {
		t.Fatalf("second import added %d, want 1", n)
	}
	salts, err := catalog.Ingredients(ctx, "salt")
	if err != nil {
		t.Fatalf("Ingredients: %v", err)
	}
	if len(salts) != 2 {
		t.Fatalf("salt entries after reimport: %+v", salts)
	}
}

func TestParseIngredientsCSVRejectsBadRows(t *testing.T) {
	_, err := ParseIngredientsCSV(strings.NewReader("salt,g\npepper\n"))
	if !errs.IsMalformedPayloadError(err) {
		t.Fatalf("short record: got %v", err)
	}

	_, err = ParseIngredientsCSV(strings.NewReader("salt,g\n,kg\n"))
	assertKind(t, err, errs.ErrValidation)
}

func TestCatalogServiceTags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	catalog := NewCatalogService(f.db)

	testutil.CreateTag(t, f.gdb, "Lunch", "#49B64E", "lunch")
	breakfast := testutil.CreateTag(t, f.gdb, "Breakfast", "#E26C2D", "breakfast")

	tags, err := catalog.Tags(ctx)
	if err != nil {
		t.Fatalf("Tags: %v", err)
	}
	if len(tags) != 2 || tags[0].Slug != "breakfast" {
		t.Fatalf("tags: %+v", tags)
	}

	tag, err := catalog.Tag(ctx, breakfast.ID)
	if err != nil {
		t.Fatalf("Tag: %v", err)
	}
	if tag.Color != "#E26C2D" {
		t.Fatalf("tag: %+v", tag)
	}

	_, err = catalog.Tag(ctx, uuid.New())
	assertKind(t, err, errs.ErrNotFound)
	_, err = catalog.Ingredient(ctx, uuid.New())
	assertKind(t, err, errs.ErrNotFound)
}
