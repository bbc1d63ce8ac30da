package database

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const ingredientBatchSize = 500

type IngredientRepo struct {
	db *gorm.DB
}

func NewIngredientRepo(db *gorm.DB) *IngredientRepo {
	return &IngredientRepo{db}
}

// Search returns ingredients whose name starts with prefix, case-insensitively.
// An empty prefix returns every ingredient.
func (r *IngredientRepo) Search(ctx context.Context, prefix string) ([]*models.Ingredient, error) {
	query := r.db.WithContext(ctx).Order("name").Order("measurement_unit")
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		query = query.Where("LOWER(name) LIKE ? ESCAPE '\\'", escapeLike(strings.ToLower(prefix))+"%")
	}

	var ingredients []*models.Ingredient
	err := query.Find(&ingredients).Error
	return ingredients, err
}

// FindByID returns the ingredient or nil when it does not exist
func (r *IngredientRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := r.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// FindByIDs returns the ingredients among ids that exist
func (r *IngredientRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Ingredient, error) {
	var ingredients []*models.Ingredient
	if len(ids) == 0 {
		return ingredients, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ingredients).Error
	return ingredients, err
}

// AddMany bulk inserts ingredients, skipping name and unit pairs that are
// already stored, and returns the number of rows inserted
func (r *IngredientRepo) AddMany(ctx context.Context, ingredients []*models.Ingredient) (int64, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(ingredients, ingredientBatchSize)
	return result.RowsAffected, result.Error
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
