package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/database"
	"github.com/rpupo63/foodgram-backend/errs"
)

// ensureTagsExist reports the first id that does not name a stored tag
func ensureTagsExist(ctx context.Context, db database.Database, ids []uuid.UUID) error {
	found, err := db.TagRepo().FindByIDs(ctx, ids)
	if err != nil {
		return errs.NewDatabaseError("find", "tags", err)
	}
	if len(found) == len(ids) {
		return nil
	}

	existing := make(map[uuid.UUID]bool, len(found))
	for _, tag := range found {
		existing[tag.ID] = true
	}
	for _, id := range ids {
		if !existing[id] {
			return errs.NewValidationError("tags", fmt.Sprintf("tag %s does not exist", id))
		}
	}
	return nil
}

// ensureIngredientsExist reports the first item that does not reference a
// catalog ingredient
func ensureIngredientsExist(ctx context.Context, db database.Database, items []IngredientInput) error {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	found, err := db.IngredientRepo().FindByIDs(ctx, ids)
	if err != nil {
		return errs.NewDatabaseError("find", "ingredients", err)
	}
	if len(found) == len(ids) {
		return nil
	}

	existing := make(map[uuid.UUID]bool, len(found))
	for _, ingredient := range found {
		existing[ingredient.ID] = true
	}
	for _, id := range ids {
		if !existing[id] {
			return errs.NewValidationError("ingredients", fmt.Sprintf("ingredient %s does not exist", id))
		}
	}
	return nil
}
