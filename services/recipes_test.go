package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/database"
	"github.com/rpupo63/foodgram-backend/database/testutil"
	"github.com/rpupo63/foodgram-backend/errs"
	"github.com/rpupo63/foodgram-backend/models"
	"gorm.io/gorm"
)

func TestRecipeServiceCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, f.gdb, "chef")
	breakfast := testutil.CreateTag(t, f.gdb, "Breakfast", "#E26C2D", "breakfast")
	eggs := testutil.CreateIngredient(t, f.gdb, "eggs", "pcs")
	salt := testutil.CreateIngredient(t, f.gdb, "salt", "g")

	view, err := f.recipes.Create(ctx, author.ID, RecipeInput{
		Name:        "  Omelette ",
		Text:        "Beat and fry.",
		Image:       "omelette.png",
		CookingTime: 10,
		Tags:        []uuid.UUID{breakfast.ID},
		Ingredients: []IngredientInput{{ID: salt.ID, Amount: 2}, {ID: eggs.ID, Amount: 3}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if view.Name != "Omelette" || view.Image != "/media/omelette.png" || view.Author.ID != author.ID {
		t.Fatalf("unexpected view: %+v", view)
	}
	if len(view.Tags) != 1 || view.Tags[0].Slug != "breakfast" {
		t.Fatalf("tags: got %+v", view.Tags)
	}
	if len(view.Ingredients) != 2 || view.Ingredients[0].Name != "eggs" || view.Ingredients[0].Amount != 3 {
		t.Fatalf("ingredients: got %+v", view.Ingredients)
	}
	if view.IsFavorited || view.IsInShoppingCart || view.Author.IsSubscribed {
		t.Fatalf("fresh recipe should carry no viewer flags: %+v", view)
	}
}

func TestRecipeServiceCreateRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, f.gdb, "chef")
	tag := testutil.CreateTag(t, f.gdb, "Lunch", "#49B64E", "lunch")
	salt := testutil.CreateIngredient(t, f.gdb, "salt", "g")

	valid := func() RecipeInput {
		return RecipeInput{
			Name:        "Soup",
			Text:        "Boil.",
			Image:       "soup.png",
			CookingTime: 30,
			Tags:        []uuid.UUID{tag.ID},
			Ingredients: []IngredientInput{{ID: salt.ID, Amount: 5}},
		}
	}

	cases := []struct {
		name   string
		mutate func(*RecipeInput)
		field  string
	}{
		{"empty name", func(in *RecipeInput) { in.Name = " " }, "name"},
		{"empty text", func(in *RecipeInput) { in.Text = "" }, "text"},
		{"missing image", func(in *RecipeInput) { in.Image = "" }, "image"},
		{"zero cooking time", func(in *RecipeInput) { in.CookingTime = 0 }, "cooking_time"},
		{"cooking time above bound", func(in *RecipeInput) { in.CookingTime = 10001 }, "cooking_time"},
		{"no tags", func(in *RecipeInput) { in.Tags = nil }, "tags"},
		{"duplicate tag", func(in *RecipeInput) { in.Tags = []uuid.UUID{tag.ID, tag.ID} }, "tags"},
		{"unknown tag", func(in *RecipeInput) { in.Tags = []uuid.UUID{uuid.New()} }, "tags"},
		{"no ingredients", func(in *RecipeInput) { in.Ingredients = nil }, "ingredients"},
		{"duplicate ingredient", func(in *RecipeInput) {
			in.Ingredients = []IngredientInput{{ID: salt.ID, Amount: 1}, {ID: salt.ID, Amount: 2}}
		}, "ingredients"},
		{"unknown ingredient", func(in *RecipeInput) {
			in.Ingredients = []IngredientInput{{ID: uuid.New(), Amount: 1}}
		}, "ingredients"},
		{"zero amount", func(in *RecipeInput) { in.Ingredients[0].Amount = 0 }, "ingredients"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid()
			tc.mutate(&in)
			_, err := f.recipes.Create(ctx, author.ID, in)
			assertKind(t, err, errs.ErrValidation)
			if errs.FieldOf(err) != tc.field {
				t.Fatalf("field: got %q, want %q", errs.FieldOf(err), tc.field)
			}
		})
	}

	if n := countRows(t, f.gdb, &models.Recipe{}); n != 0 {
		t.Fatalf("rejected input left %d recipes behind", n)
	}
}

func TestRecipeServiceUpdateReconcilesAssociations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, f.gdb, "chef")
	lunch := testutil.CreateTag(t, f.gdb, "Lunch", "#49B64E", "lunch")
	dinner := testutil.CreateTag(t, f.gdb, "Dinner", "#8775D2", "dinner")
	salt := testutil.CreateIngredient(t, f.gdb, "salt", "g")
	eggs := testutil.CreateIngredient(t, f.gdb, "eggs", "pcs")
	flour := testutil.CreateIngredient(t, f.gdb, "flour", "g")
	recipe := testutil.CreateRecipe(t, f.gdb, author, "Pie", []*models.Tag{lunch},
		map[*models.Ingredient]int{salt: 5, eggs: 2})

	before, err := f.db.RecipeRepo().IngredientAmounts(ctx, recipe.ID)
	if err != nil {
		t.Fatalf("IngredientAmounts: %v", err)
	}
	var saltRow uuid.UUID
	for _, row := range before {
		if row.IngredientID == salt.ID {
			saltRow = row.ID
		}
	}

	name := "Apple pie"
	tags := []uuid.UUID{dinner.ID}
	ingredients := []IngredientInput{{ID: salt.ID, Amount: 5}, {ID: flour.ID, Amount: 300}}
	view, err := f.recipes.Update(ctx, author.ID, recipe.ID, RecipePatch{
		Name:        &name,
		Tags:        &tags,
		Ingredients: &ingredients,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if view.Name != "Apple pie" || view.CookingTime != 10 || view.Image != recipe.Image {
		t.Fatalf("untouched fields changed: %+v", view)
	}
	if len(view.Tags) != 1 || view.Tags[0].ID != dinner.ID {
		t.Fatalf("tags: got %+v", view.Tags)
	}

	after, err := f.db.RecipeRepo().IngredientAmounts(ctx, recipe.ID)
	if err != nil {
		t.Fatalf("IngredientAmounts: %v", err)
	}
	if len(after) != 2 {
		t.Fatalf("ingredient rows: got %d, want 2", len(after))
	}
	for _, row := range after {
		switch row.IngredientID {
		case salt.ID:
			if row.ID != saltRow {
				t.Fatalf("salt row was replaced instead of kept")
			}
		case flour.ID:
			if row.Amount != 300 {
				t.Fatalf("flour amount: got %d", row.Amount)
			}
		default:
			t.Fatalf("unexpected ingredient %v", row.IngredientID)
		}
	}
}

func TestRecipeServiceUpdateChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, f.gdb, "chef")
	other := testutil.CreateUser(t, f.gdb, "guest")
	tag := testutil.CreateTag(t, f.gdb, "Lunch", "#49B64E", "lunch")
	salt := testutil.CreateIngredient(t, f.gdb, "salt", "g")
	recipe := testutil.CreateRecipe(t, f.gdb, author, "Soup", []*models.Tag{tag}, map[*models.Ingredient]int{salt: 5})

	name := "Stolen soup"
	_, err := f.recipes.Update(ctx, other.ID, recipe.ID, RecipePatch{Name: &name})
	assertKind(t, err, errs.ErrForbidden)

	_, err = f.recipes.Update(ctx, author.ID, uuid.New(), RecipePatch{Name: &name})
	assertKind(t, err, errs.ErrNotFound)

	empty := []uuid.UUID{}
	_, err = f.recipes.Update(ctx, author.ID, recipe.ID, RecipePatch{Name: &name, Tags: &empty})
	assertKind(t, err, errs.ErrValidation)

	reloaded, err := f.db.RecipeRepo().FindByID(ctx, recipe.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if reloaded.Name != "Soup" || len(reloaded.Tags) != 1 {
		t.Fatalf("failed update changed the recipe: %+v", reloaded)
	}
}

func TestRecipeServiceDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, f.gdb, "chef")
	fan := testutil.CreateUser(t, f.gdb, "fan")
	tag := testutil.CreateTag(t, f.gdb, "Lunch", "#49B64E", "lunch")
	salt := testutil.CreateIngredient(t, f.gdb, "salt", "g")
	recipe := testutil.CreateRecipe(t, f.gdb, author, "Soup", []*models.Tag{tag}, map[*models.Ingredient]int{salt: 5})

	if err := f.db.FavoriteRepo().Add(ctx, fan.ID, recipe.ID); err != nil {
		t.Fatalf("favorite: %v", err)
	}
	if err := f.db.CartRepo().Add(ctx, fan.ID, recipe.ID); err != nil {
		t.Fatalf("cart: %v", err)
	}

	assertKind(t, f.recipes.Delete(ctx, fan.ID, recipe.ID), errs.ErrForbidden)

	if err := f.recipes.Delete(ctx, author.ID, recipe.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	for _, model := range []interface{}{&models.Recipe{}, &models.Favorite{}, &models.CartEntry{}, &models.IngredientAmount{}, &models.RecipeTag{}} {
		if n := countRows(t, f.gdb, model); n != 0 {
			t.Fatalf("%T rows left after delete: %d", model, n)
		}
	}

	_, err := f.recipes.Get(ctx, author.ID, recipe.ID)
	assertKind(t, err, errs.ErrNotFound)
}

func TestRecipeServiceListEnrichesForViewer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, f.gdb, "chef")
	viewer := testutil.CreateUser(t, f.gdb, "viewer")
	tag := testutil.CreateTag(t, f.gdb, "Lunch", "#49B64E", "lunch")
	salt := testutil.CreateIngredient(t, f.gdb, "salt", "g")
	soup := testutil.CreateRecipe(t, f.gdb, author, "Soup", []*models.Tag{tag}, map[*models.Ingredient]int{salt: 5})
	testutil.CreateRecipe(t, f.gdb, author, "Stew", []*models.Tag{tag}, map[*models.Ingredient]int{salt: 3})

	if err := f.db.FavoriteRepo().Add(ctx, viewer.ID, soup.ID); err != nil {
		t.Fatalf("favorite: %v", err)
	}
	if err := f.db.SubscriptionRepo().Add(ctx, viewer.ID, author.ID); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	views, total, err := f.recipes.List(ctx, viewer.ID, RecipeQuery{Favorited: true, Page: database.Page{Number: 1, Size: 6}})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(views) != 1 || views[0].ID != soup.ID {
		t.Fatalf("favorited filter: total %d views %+v", total, views)
	}
	if !views[0].IsFavorited || views[0].IsInShoppingCart || !views[0].Author.IsSubscribed {
		t.Fatalf("flags: %+v", views[0])
	}

	anonymous, total, err := f.recipes.List(ctx, uuid.Nil, RecipeQuery{Favorited: true, Page: database.Page{Number: 1, Size: 6}})
	if err != nil {
		t.Fatalf("List anonymous: %v", err)
	}
	if total != 2 {
		t.Fatalf("anonymous viewers ignore the favorited filter: total %d", total)
	}
	for _, v := range anonymous {
		if v.IsFavorited || v.Author.IsSubscribed {
			t.Fatalf("anonymous view carries flags: %+v", v)
		}
	}
}

func TestRecipeServiceCookingTimeBounds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, f.gdb, "chef")
	tag := testutil.CreateTag(t, f.gdb, "Lunch", "#49B64E", "lunch")
	salt := testutil.CreateIngredient(t, f.gdb, "salt", "g")

	for _, minutes := range []int{1, 10000} {
		_, err := f.recipes.Create(ctx, author.ID, RecipeInput{
			Name:        "Bounded",
			Text:        "Wait.",
			Image:       "bounded.png",
			CookingTime: minutes,
			Tags:        []uuid.UUID{tag.ID},
			Ingredients: []IngredientInput{{ID: salt.ID, Amount: 10000}},
		})
		if err != nil {
			t.Fatalf("cooking time %d rejected: %v", minutes, err)
		}
	}
}

func TestRecipeServiceUpdateRollsBackOnStoreFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	author := testutil.CreateUser(t, f.gdb, "chef")
	lunch := testutil.CreateTag(t, f.gdb, "Lunch", "#49B64E", "lunch")
	dinner := testutil.CreateTag(t, f.gdb, "Dinner", "#8775D2", "dinner")
	salt := testutil.CreateIngredient(t, f.gdb, "salt", "g")
	eggs := testutil.CreateIngredient(t, f.gdb, "eggs", "pcs")
	flour := testutil.CreateIngredient(t, f.gdb, "flour", "g")
	recipe := testutil.CreateRecipe(t, f.gdb, author, "Pie", []*models.Tag{lunch},
		map[*models.Ingredient]int{salt: 5, eggs: 2})

	before, err := f.db.RecipeRepo().IngredientAmounts(ctx, recipe.ID)
	if err != nil {
		t.Fatalf("IngredientAmounts: %v", err)
	}

	// the ingredient insert is the last write of an update, after the
	// scalar fields, tags and removed rows have already been written
	err = f.gdb.Callback().Create().Before("gorm:create").Register("fail_ingredient_amounts", func(tx *gorm.DB) {
		if tx.Statement.Table == "ingredient_amounts" {
			_ = tx.AddError(errors.New("disk full"))
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	name := "Apple pie"
	tags := []uuid.UUID{dinner.ID}
	ingredients := []IngredientInput{{ID: salt.ID, Amount: 7}, {ID: flour.ID, Amount: 300}}
	_, err = f.recipes.Update(ctx, author.ID, recipe.ID, RecipePatch{
		Name:        &name,
		Tags:        &tags,
		Ingredients: &ingredients,
	})
	if err == nil {
		t.Fatalf("expected the update to fail")
	}
	if !errs.IsInternal(err) && !errs.IsConflict(err) {
		t.Fatalf("expected an internal or conflict error, got %v", err)
	}

	stored, err := f.db.RecipeRepo().FindShort(ctx, recipe.ID)
	if err != nil || stored == nil {
		t.Fatalf("FindShort: %v %v", stored, err)
	}
	if stored.Name != "Pie" {
		t.Fatalf("name changed to %q", stored.Name)
	}

	tagIDs, err := f.db.RecipeRepo().TagIDs(ctx, recipe.ID)
	if err != nil {
		t.Fatalf("TagIDs: %v", err)
	}
	if len(tagIDs) != 1 || tagIDs[0] != lunch.ID {
		t.Fatalf("tags changed: %v", tagIDs)
	}

	after, err := f.db.RecipeRepo().IngredientAmounts(ctx, recipe.ID)
	if err != nil {
		t.Fatalf("IngredientAmounts: %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("ingredient rows: got %d, want %d", len(after), len(before))
	}
	amounts := map[uuid.UUID]int{}
	for _, row := range after {
		amounts[row.IngredientID] = row.Amount
	}
	if amounts[salt.ID] != 5 || amounts[eggs.ID] != 2 {
		t.Fatalf("ingredient amounts changed: %v", amounts)
	}
}
