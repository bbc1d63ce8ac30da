package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/database/testutil"
	"github.com/rpupo63/foodgram-backend/errs"
	"github.com/rpupo63/foodgram-backend/models"
)

func TestLedgerServiceAddAndRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ledger := NewLedgerService(f.db)

	author := testutil.CreateUser(t, f.gdb, "chef")
	user := testutil.CreateUser(t, f.gdb, "cook")
	tag := testutil.CreateTag(t, f.gdb, "Lunch", "#49B64E", "lunch")
	salt := testutil.CreateIngredient(t, f.gdb, "salt", "g")
	recipe := testutil.CreateRecipe(t, f.gdb, author, "Soup", []*models.Tag{tag}, map[*models.Ingredient]int{salt: 5})

	for _, list := range []RecipeList{Favorites, ShoppingCart} {
		t.Run(list.String(), func(t *testing.T) {
			short, err := ledger.Add(ctx, list, user.ID, recipe.ID)
			if err != nil {
				t.Fatalf("Add: %v", err)
			}
			if short.ID != recipe.ID || short.Name != "Soup" || short.CookingTime != 10 {
				t.Fatalf("short: %+v", short)
			}

			_, err = ledger.Add(ctx, list, user.ID, recipe.ID)
			assertKind(t, err, errs.ErrConflict)

			_, err = ledger.Add(ctx, list, user.ID, uuid.New())
			assertKind(t, err, errs.ErrNotFound)

			if err := ledger.Remove(ctx, list, user.ID, recipe.ID); err != nil {
				t.Fatalf("Remove: %v", err)
			}
			assertKind(t, ledger.Remove(ctx, list, user.ID, recipe.ID), errs.ErrNotFound)
		})
	}
}

func TestLedgerServiceListsAreIndependent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ledger := NewLedgerService(f.db)

	author := testutil.CreateUser(t, f.gdb, "chef")
	tag := testutil.CreateTag(t, f.gdb, "Lunch", "#49B64E", "lunch")
	salt := testutil.CreateIngredient(t, f.gdb, "salt", "g")
	recipe := testutil.CreateRecipe(t, f.gdb, author, "Soup", []*models.Tag{tag}, map[*models.Ingredient]int{salt: 5})

	if _, err := ledger.Add(ctx, Favorites, author.ID, recipe.ID); err != nil {
		t.Fatalf("Add favorite: %v", err)
	}
	assertKind(t, ledger.Remove(ctx, ShoppingCart, author.ID, recipe.ID), errs.ErrNotFound)

	view, err := f.recipes.Get(ctx, author.ID, recipe.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !view.IsFavorited || view.IsInShoppingCart {
		t.Fatalf("flags: %+v", view)
	}
}
