package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/database"
	"github.com/rpupo63/foodgram-backend/errs"
	"github.com/rpupo63/foodgram-backend/models"
)

// ShoppingList is a rendered plain-text shopping list ready for download
type ShoppingList struct {
	Filename string
	Content  []byte
}

type ShoppingListService struct {
	db  database.Database
	now func() time.Time
}

func NewShoppingListService(db database.Database) *ShoppingListService {
	return &ShoppingListService{db: db, now: time.Now}
}

// Build sums the ingredient amounts of every recipe in the user's cart,
// grouped by ingredient name and unit
func (s *ShoppingListService) Build(ctx context.Context, userID uuid.UUID) (*ShoppingList, error) {
	user, err := s.db.UserRepo().FindByID(ctx, userID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if user == nil {
		return nil, errs.NewNotFound("user")
	}

	count, err := s.db.CartRepo().Count(ctx, userID)
	if err != nil {
		return nil, errs.NewDatabaseError("count", "shopping cart", err)
	}
	if count == 0 {
		return nil, errs.NewInvalidOperationError("shopping cart is empty")
	}

	totals, err := s.db.RecipeRepo().SumCartIngredients(ctx, userID)
	if err != nil {
		return nil, errs.NewDatabaseError("sum", "shopping cart", err)
	}

	return &ShoppingList{
		Filename: user.Username + "_shopping_list.txt",
		Content:  []byte(RenderShoppingList(user, totals, s.now())),
	}, nil
}

// RenderShoppingList formats aggregated totals as the downloadable text file
func RenderShoppingList(user *models.User, totals []database.IngredientTotal, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Shopping list for %s\n", user.DisplayName())
	fmt.Fprintf(&b, "Date: %s\n\n", now.Format("2006-01-02"))
	for _, t := range totals {
		fmt.Fprintf(&b, "- %s (%s) - %d\n", t.Name, t.MeasurementUnit, t.Amount)
	}
	fmt.Fprintf(&b, "\nFoodgram, %d\n", now.Year())
	return b.String()
}
