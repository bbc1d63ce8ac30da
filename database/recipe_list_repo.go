package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/models"
	"gorm.io/gorm"
)

// RecipeListRepo stores one per-user set of recipes: favorites or the shopping cart
type RecipeListRepo struct {
	db       *gorm.DB
	model    interface{}
	newEntry func(userID, recipeID uuid.UUID) interface{}
}

func NewFavoriteRepo(db *gorm.DB) *RecipeListRepo {
	return &RecipeListRepo{
		db:    db,
		model: &models.Favorite{},
		newEntry: func(userID, recipeID uuid.UUID) interface{} {
			return &models.Favorite{UserID: userID, RecipeID: recipeID}
		},
	}
}

func NewCartRepo(db *gorm.DB) *RecipeListRepo {
	return &RecipeListRepo{
		db:    db,
		model: &models.CartEntry{},
		newEntry: func(userID, recipeID uuid.UUID) interface{} {
			return &models.CartEntry{UserID: userID, RecipeID: recipeID}
		},
	}
}

// Exists reports whether the (user, recipe) pair is present
func (r *RecipeListRepo) Exists(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(r.model).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	return count > 0, err
}

// Add inserts the pair. A duplicate pair fails with gorm.ErrDuplicatedKey.
func (r *RecipeListRepo) Add(ctx context.Context, userID, recipeID uuid.UUID) error {
	return r.db.WithContext(ctx).Create(r.newEntry(userID, recipeID)).Error
}

// Remove deletes the pair and reports whether a row was removed
func (r *RecipeListRepo) Remove(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(r.model)
	return result.RowsAffected > 0, result.Error
}

// Count returns how many recipes the user has in the set
func (r *RecipeListRepo) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(r.model).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// Among returns which of recipeIDs the user has in the set
func (r *RecipeListRepo) Among(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	present := make(map[uuid.UUID]bool, len(recipeIDs))
	if userID == uuid.Nil || len(recipeIDs) == 0 {
		return present, nil
	}

	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(r.model).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		present[id] = true
	}
	return present, nil
}
