package testutil

import (
	"strings"
	"testing"

	"github.com/rpupo63/foodgram-backend/models"
	"gorm.io/gorm"
)

func CreateUser(tb testing.TB, db *gorm.DB, username string) *models.User {
	tb.Helper()
	user := &models.User{
		Username:  username,
		Email:     username + "@example.com",
		FirstName: strings.ToUpper(username[:1]) + username[1:],
		LastName:  "Tester",
		Password:  "not-a-real-hash",
	}
	if err := db.Create(user).Error; err != nil {
		tb.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func CreateTag(tb testing.TB, db *gorm.DB, name, color, slug string) *models.Tag {
	tb.Helper()
	tag := &models.Tag{Name: name, Color: color, Slug: slug}
	if err := db.Create(tag).Error; err != nil {
		tb.Fatalf("create tag %s: %v", name, err)
	}
	return tag
}

func CreateIngredient(tb testing.TB, db *gorm.DB, name, unit string) *models.Ingredient {
	tb.Helper()
	ingredient := &models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(ingredient).Error; err != nil {
		tb.Fatalf("create ingredient %s: %v", name, err)
	}
	return ingredient
}

// CreateRecipe inserts a recipe with the given tags and ingredient amounts
// directly, bypassing validation.
func CreateRecipe(tb testing.TB, db *gorm.DB, author *models.User, name string, tags []*models.Tag, amounts map[*models.Ingredient]int) *models.Recipe {
	tb.Helper()
	recipe := &models.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Text:        name + " text",
		Image:       "recipes/images/" + name + ".png",
		CookingTime: 10,
	}
	if err := db.Omit("Author", "Tags", "Ingredients").Create(recipe).Error; err != nil {
		tb.Fatalf("create recipe %s: %v", name, err)
	}
	for _, tag := range tags {
		if err := db.Create(&models.RecipeTag{RecipeID: recipe.ID, TagID: tag.ID}).Error; err != nil {
			tb.Fatalf("attach tag %s: %v", tag.Name, err)
		}
	}
	for ingredient, amount := range amounts {
		row := &models.IngredientAmount{RecipeID: recipe.ID, IngredientID: ingredient.ID, Amount: amount}
		if err := db.Omit("Ingredient").Create(row).Error; err != nil {
			tb.Fatalf("attach ingredient %s: %v", ingredient.Name, err)
		}
	}
	return recipe
}
