package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RecipeRepo struct {
	db *gorm.DB
}

func NewRecipeRepo(db *gorm.DB) *RecipeRepo {
	return &RecipeRepo{db}
}

// RecipeFilter narrows a recipe listing. Zero values disable a filter.
type RecipeFilter struct {
	AuthorID    uuid.UUID
	TagSlugs    []string
	FavoritedBy uuid.UUID
	InCartOf    uuid.UUID
}

// IngredientTotal is one line of an aggregated shopping list
type IngredientTotal struct {
	Name            string
	MeasurementUnit string
	Amount          int64
}

func (r *RecipeRepo) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") }).
		Preload("Ingredients.Ingredient")
}

// FindByID returns a fully loaded recipe or nil when it does not exist
func (r *RecipeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.preloaded(ctx).First(&recipe, "recipes.id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// FindShort returns the recipe row without associations, or nil
func (r *RecipeRepo) FindShort(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.WithContext(ctx).First(&recipe, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *RecipeRepo) filtered(filter RecipeFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.AuthorID != uuid.Nil {
			db = db.Where("recipes.author_id = ?", filter.AuthorID)
		}
		if len(filter.TagSlugs) > 0 {
			tagged := r.db.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", filter.TagSlugs)
			db = db.Where("recipes.id IN (?)", tagged)
		}
		if filter.FavoritedBy != uuid.Nil {
			favorited := r.db.Table(models.FavoritesTable).Select("recipe_id").Where("user_id = ?", filter.FavoritedBy)
			db = db.Where("recipes.id IN (?)", favorited)
		}
		if filter.InCartOf != uuid.Nil {
			inCart := r.db.Table(models.CartTable).Select("recipe_id").Where("user_id = ?", filter.InCartOf)
			db = db.Where("recipes.id IN (?)", inCart)
		}
		return db
	}
}

// List returns one page of fully loaded recipes, newest first, and the total count
func (r *RecipeRepo) List(ctx context.Context, filter RecipeFilter, page Page) ([]*models.Recipe, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Scopes(r.filtered(filter)).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var recipes []*models.Recipe
	err = r.preloaded(ctx).
		Scopes(r.filtered(filter)).
		Order("recipes.created_at DESC").
		Order("recipes.id").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&recipes).Error
	return recipes, total, err
}

// FindByAuthor returns the author's recipes newest first; limit <= 0 returns all
func (r *RecipeRepo) FindByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*models.Recipe, error) {
	query := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Order("id")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var recipes []*models.Recipe
	err := query.Find(&recipes).Error
	return recipes, err
}

// CountByAuthors returns the number of recipes per author; authors without recipes are absent
func (r *RecipeRepo) CountByAuthors(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID uuid.UUID
		Total    int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

// Add inserts the recipe row only; associations are written separately
func (r *RecipeRepo) Add(ctx context.Context, recipe *models.Recipe) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(recipe).Error
}

// UpdateFields applies column updates to a recipe
func (r *RecipeRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// Delete removes a recipe together with its tag links, ingredient amounts,
// favorites and cart entries. Callers run it inside a transaction.
func (r *RecipeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	dependents := []interface{}{
		&models.RecipeTag{},
		&models.IngredientAmount{},
		&models.Favorite{},
		&models.CartEntry{},
	}
	for _, model := range dependents {
		if err := db.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
			return err
		}
	}
	return db.Delete(&models.Recipe{}, "id = ?", id).Error
}

// TagIDs returns the ids of the tags attached to a recipe
func (r *RecipeRepo) TagIDs(ctx context.Context, recipeID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.RecipeTag{}).
		Where("recipe_id = ?", recipeID).
		Pluck("tag_id", &ids).Error
	return ids, err
}

func (r *RecipeRepo) AddTags(ctx context.Context, recipeID uuid.UUID, tagIDs []uuid.UUID) error {
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]models.RecipeTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, models.RecipeTag{RecipeID: recipeID, TagID: tagID})
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *RecipeRepo) RemoveTags(ctx context.Context, recipeID uuid.UUID, tagIDs []uuid.UUID) error {
	if len(tagIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("recipe_id = ? AND tag_id IN ?", recipeID, tagIDs).
		Delete(&models.RecipeTag{}).Error
}

// IngredientAmounts returns the association rows of a recipe
func (r *RecipeRepo) IngredientAmounts(ctx context.Context, recipeID uuid.UUID) ([]models.IngredientAmount, error) {
	var rows []models.IngredientAmount
	err := r.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Find(&rows).Error
	return rows, err
}

// AddIngredientAmounts bulk inserts association rows
func (r *RecipeRepo) AddIngredientAmounts(ctx context.Context, rows []models.IngredientAmount) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&rows).Error
}

func (r *RecipeRepo) UpdateIngredientAmount(ctx context.Context, id uuid.UUID, amount int) error {
	return r.db.WithContext(ctx).
		Model(&models.IngredientAmount{}).
		Where("id = ?", id).
		Update("amount", amount).Error
}

func (r *RecipeRepo) RemoveIngredientAmounts(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&models.IngredientAmount{}).Error
}

// SumCartIngredients groups the ingredient amounts of every recipe in the
// user's cart by name and unit, ordered by name then unit
func (r *RecipeRepo) SumCartIngredients(ctx context.Context, userID uuid.UUID) ([]IngredientTotal, error) {
	var totals []IngredientTotal
	err := r.db.WithContext(ctx).
		Table("ingredient_amounts").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(ingredient_amounts.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = ingredient_amounts.ingredient_id").
		Joins("JOIN "+models.CartTable+" ON "+models.CartTable+".recipe_id = ingredient_amounts.recipe_id").
		Where(models.CartTable+".user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name").
		Order("ingredients.measurement_unit").
		Scan(&totals).Error
	return totals, err
}
