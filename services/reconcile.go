package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/database"
	"github.com/rpupo63/foodgram-backend/models"
)

// diffIDs returns the ids of desired missing from current and the ids of
// current missing from desired, each in input order
func diffIDs(current, desired []uuid.UUID) (added, removed []uuid.UUID) {
	have := make(map[uuid.UUID]bool, len(current))
	for _, id := range current {
		have[id] = true
	}
	want := make(map[uuid.UUID]bool, len(desired))
	for _, id := range desired {
		want[id] = true
		if !have[id] {
			added = append(added, id)
		}
	}
	for _, id := range current {
		if !want[id] {
			removed = append(removed, id)
		}
	}
	return added, removed
}

// ingredientPlan is the set of row changes turning the current ingredient
// amounts of a recipe into the desired ones
type ingredientPlan struct {
	add    []models.IngredientAmount
	update map[uuid.UUID]int // row id -> new amount
	remove []uuid.UUID       // row ids
}

func planIngredients(recipeID uuid.UUID, current []models.IngredientAmount, desired []IngredientInput) ingredientPlan {
	plan := ingredientPlan{update: make(map[uuid.UUID]int)}

	rows := make(map[uuid.UUID]models.IngredientAmount, len(current))
	for _, row := range current {
		rows[row.IngredientID] = row
	}

	kept := make(map[uuid.UUID]bool, len(desired))
	for _, item := range desired {
		row, ok := rows[item.ID]
		if !ok {
			plan.add = append(plan.add, models.IngredientAmount{
				RecipeID:     recipeID,
				IngredientID: item.ID,
				Amount:       item.Amount,
			})
			continue
		}
		kept[item.ID] = true
		if row.Amount != item.Amount {
			plan.update[row.ID] = item.Amount
		}
	}

	for _, row := range current {
		if !kept[row.IngredientID] {
			plan.remove = append(plan.remove, row.ID)
		}
	}
	return plan
}

// reconcileTags makes the recipe's tag set equal to desired
func reconcileTags(ctx context.Context, repo *database.RecipeRepo, recipeID uuid.UUID, desired []uuid.UUID) error {
	current, err := repo.TagIDs(ctx, recipeID)
	if err != nil {
		return err
	}
	added, removed := diffIDs(current, desired)
	if err := repo.RemoveTags(ctx, recipeID, removed); err != nil {
		return err
	}
	return repo.AddTags(ctx, recipeID, added)
}

// reconcileIngredients makes the recipe's ingredient amounts equal to desired,
// keeping the rows of ingredients present on both sides
func reconcileIngredients(ctx context.Context, repo *database.RecipeRepo, recipeID uuid.UUID, desired []IngredientInput) error {
	current, err := repo.IngredientAmounts(ctx, recipeID)
	if err != nil {
		return err
	}

	plan := planIngredients(recipeID, current, desired)
	if err := repo.RemoveIngredientAmounts(ctx, plan.remove); err != nil {
		return err
	}
	for rowID, amount := range plan.update {
		if err := repo.UpdateIngredientAmount(ctx, rowID, amount); err != nil {
			return err
		}
	}
	return repo.AddIngredientAmounts(ctx, plan.add)
}
