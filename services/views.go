package services

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/database"
	"github.com/rpupo63/foodgram-backend/models"
)

// UserView is a user as seen by a given viewer
type UserView struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// AuthorView is a followed author with a preview of their recipes
type AuthorView struct {
	UserView
	RecipesCount int64         `json:"recipes_count"`
	Recipes      []RecipeShort `json:"recipes"`
}

// RecipeShort is the minimal recipe projection used in lists and ledger replies
type RecipeShort struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

type TagView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Slug  string    `json:"slug"`
}

type IngredientAmountView struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// RecipeView is the full recipe projection relative to a viewer
type RecipeView struct {
	ID               uuid.UUID              `json:"id"`
	Author           UserView               `json:"author"`
	Name             string                 `json:"name"`
	Text             string                 `json:"text"`
	Image            string                 `json:"image"`
	CookingTime      int                    `json:"cooking_time"`
	Tags             []TagView              `json:"tags"`
	Ingredients      []IngredientAmountView `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
}

func newUserView(u *models.User, subscribed bool) UserView {
	return UserView{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

func newRecipeShort(r *models.Recipe) RecipeShort {
	return RecipeShort{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

func newTagView(t *models.Tag) TagView {
	return TagView{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

// userViews enriches users with is_subscribed for viewerID (uuid.Nil is anonymous)
func userViews(ctx context.Context, db database.Database, viewerID uuid.UUID, users []*models.User) ([]UserView, error) {
	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	followed, err := db.SubscriptionRepo().Among(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}

	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, newUserView(u, followed[u.ID]))
	}
	return views, nil
}

// authorViews enriches users with subscription state, recipe count and up to
// recipesLimit of their recipes (all when recipesLimit <= 0)
func authorViews(ctx context.Context, db database.Database, viewerID uuid.UUID, authors []*models.User, recipesLimit int) ([]AuthorView, error) {
	users, err := userViews(ctx, db, viewerID, authors)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}
	counts, err := db.RecipeRepo().CountByAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]AuthorView, 0, len(authors))
	for i, a := range authors {
		recipes, err := db.RecipeRepo().FindByAuthor(ctx, a.ID, recipesLimit)
		if err != nil {
			return nil, err
		}
		shorts := make([]RecipeShort, 0, len(recipes))
		for _, r := range recipes {
			shorts = append(shorts, newRecipeShort(r))
		}
		views = append(views, AuthorView{
			UserView:     users[i],
			RecipesCount: counts[a.ID],
			Recipes:      shorts,
		})
	}
	return views, nil
}

// recipeViews enriches fully loaded recipes with the viewer's favorite, cart
// and subscription flags
func recipeViews(ctx context.Context, db database.Database, viewerID uuid.UUID, recipes []*models.Recipe) ([]RecipeView, error) {
	recipeIDs := make([]uuid.UUID, 0, len(recipes))
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	favorited, err := db.FavoriteRepo().Among(ctx, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	inCart, err := db.CartRepo().Among(ctx, viewerID, recipeIDs)
	if err != nil {
		return nil, err
	}
	followed, err := db.SubscriptionRepo().Among(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]RecipeView, 0, len(recipes))
	for _, r := range recipes {
		tags := make([]TagView, 0, len(r.Tags))
		for i := range r.Tags {
			tags = append(tags, newTagView(&r.Tags[i]))
		}

		ingredients := make([]IngredientAmountView, 0, len(r.Ingredients))
		for _, row := range r.Ingredients {
			ingredients = append(ingredients, IngredientAmountView{
				ID:              row.IngredientID,
				Name:            row.Ingredient.Name,
				MeasurementUnit: row.Ingredient.MeasurementUnit,
				Amount:          row.Amount,
			})
		}
		sort.Slice(ingredients, func(i, j int) bool {
			return ingredients[i].Name < ingredients[j].Name
		})

		views = append(views, RecipeView{
			ID:               r.ID,
			Author:           newUserView(&r.Author, followed[r.AuthorID]),
			Name:             r.Name,
			Text:             r.Text,
			Image:            r.Image,
			CookingTime:      r.CookingTime,
			Tags:             tags,
			Ingredients:      ingredients,
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
		})
	}
	return views, nil
}
