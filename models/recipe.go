package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recipe represents a recipe with its tags and ingredient amounts
type Recipe struct {
	ID          uuid.UUID          `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	AuthorID    uuid.UUID          `json:"author_id" db:"author_id" gorm:"type:uuid;not null;index:idx_recipe_author_id"`
	Name        string             `json:"name" db:"name" gorm:"type:varchar(200);not null"`
	Text        string             `json:"text" db:"text" gorm:"type:text;not null"`
	Image       string             `json:"image" db:"image" gorm:"type:text;not null"`
	CookingTime int                `json:"cooking_time" db:"cooking_time" gorm:"type:integer;not null"`
	CreatedAt   time.Time          `json:"created_at" db:"created_at" gorm:"not null;autoCreateTime;index:idx_recipe_created_at"`
	Author      User               `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
	Tags        []Tag              `json:"tags,omitempty" gorm:"many2many:recipe_tags;joinForeignKey:RecipeID;joinReferences:TagID"`
	Ingredients []IngredientAmount `json:"ingredients,omitempty" gorm:"foreignKey:RecipeID;references:ID;constraint:OnDelete:CASCADE"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

// RecipeTag is the join row between a recipe and a tag
type RecipeTag struct {
	RecipeID uuid.UUID `json:"recipe_id" db:"recipe_id" gorm:"type:uuid;primaryKey;not null"`
	TagID    uuid.UUID `json:"tag_id" db:"tag_id" gorm:"type:uuid;primaryKey;not null;index:idx_recipe_tag_tag_id"`
}

// IngredientAmount associates an ingredient with a recipe and carries its quantity
type IngredientAmount struct {
	ID           uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	RecipeID     uuid.UUID  `json:"recipe_id" db:"recipe_id" gorm:"type:uuid;not null;uniqueIndex:idx_ingredient_amount_unique"`
	IngredientID uuid.UUID  `json:"ingredient_id" db:"ingredient_id" gorm:"type:uuid;not null;uniqueIndex:idx_ingredient_amount_unique;index:idx_ingredient_amount_ingredient_id"`
	Amount       int        `json:"amount" db:"amount" gorm:"type:integer;not null"`
	Ingredient   Ingredient `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID;references:ID;constraint:OnDelete:CASCADE"`
}

func (a *IngredientAmount) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
