package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/config"
	"github.com/rpupo63/foodgram-backend/database"
	"github.com/rpupo63/foodgram-backend/errs"
	"github.com/rpupo63/foodgram-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ImageDecoder turns an uploaded image value into a stored image reference
type ImageDecoder interface {
	Decode(ctx context.Context, value string) (string, error)
}

type IngredientInput struct {
	ID     uuid.UUID `json:"id"`
	Amount int       `json:"amount" validate:"amount"`
}

// RecipeInput is the payload of a recipe creation
type RecipeInput struct {
	Name        string            `json:"name" validate:"notblank,max=200"`
	Text        string            `json:"text" validate:"notblank"`
	Image       string            `json:"image" validate:"notblank"`
	CookingTime int               `json:"cooking_time" validate:"cooking_time"`
	Tags        []uuid.UUID       `json:"tags" validate:"min=1,unique"`
	Ingredients []IngredientInput `json:"ingredients" validate:"min=1,unique=ID,dive"`
}

// RecipePatch is the payload of a recipe update; nil fields are left unchanged
type RecipePatch struct {
	Name        *string            `json:"name" validate:"omitnil,notblank,max=200"`
	Text        *string            `json:"text" validate:"omitnil,notblank"`
	Image       *string            `json:"image" validate:"omitnil,notblank"`
	CookingTime *int               `json:"cooking_time" validate:"omitnil,cooking_time"`
	Tags        *[]uuid.UUID       `json:"tags" validate:"omitnil,min=1,unique"`
	Ingredients *[]IngredientInput `json:"ingredients" validate:"omitnil,min=1,unique=ID,dive"`
}

// RecipeQuery selects a page of recipes. Favorited and InCart are ignored for
// anonymous viewers.
type RecipeQuery struct {
	AuthorID  uuid.UUID
	TagSlugs  []string
	Favorited bool
	InCart    bool
	Page      database.Page
}

type RecipeService struct {
	db       database.Database
	validate *inputValidator
	images   ImageDecoder
	logger   zerolog.Logger
}

func NewRecipeService(db database.Database, limits config.Limits, images ImageDecoder) *RecipeService {
	return &RecipeService{
		db:       db,
		validate: newRecipeValidator(limits),
		images:   images,
		logger:   log.With().Str("service", "recipeService").Logger(),
	}
}

// Create validates in and stores the recipe with its tags and ingredient
// amounts in one transaction
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, in RecipeInput) (*RecipeView, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	if err := ensureTagsExist(ctx, s.db, in.Tags); err != nil {
		return nil, err
	}
	if err := ensureIngredientsExist(ctx, s.db, in.Ingredients); err != nil {
		return nil, err
	}

	image, err := s.images.Decode(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	var view *RecipeView
	err = s.db.Transaction(ctx, func(tx database.Database) error {
		recipe := &models.Recipe{
			AuthorID:    authorID,
			Name:        strings.TrimSpace(in.Name),
			Text:        in.Text,
			Image:       image,
			CookingTime: in.CookingTime,
		}
		if err := tx.RecipeRepo().Add(ctx, recipe); err != nil {
			return err
		}
		if err := reconcileTags(ctx, tx.RecipeRepo(), recipe.ID, in.Tags); err != nil {
			return err
		}
		if err := reconcileIngredients(ctx, tx.RecipeRepo(), recipe.ID, in.Ingredients); err != nil {
			return err
		}

		var err error
		view, err = loadRecipeView(ctx, tx, authorID, recipe.ID)
		return err
	})
	if err != nil {
		s.logger.Error().Err(err).Str("authorID", authorID.String()).Msg("Failed to create recipe")
		return nil, errs.NewDatabaseError("create", "recipe", err)
	}

	s.logger.Info().Str("recipeID", view.ID.String()).Str("authorID", authorID.String()).Msg("Recipe created")
	return view, nil
}

// Update applies patch to a recipe owned by editorID. Tags and ingredients,
// when present, replace the current sets; rows for ingredients kept on both
// sides are updated in place.
func (s *RecipeService) Update(ctx context.Context, editorID, recipeID uuid.UUID, patch RecipePatch) (*RecipeView, error) {
	recipe, err := s.ownedRecipe(ctx, editorID, recipeID)
	if err != nil {
		return nil, err
	}

	if err := s.validate.Struct(patch); err != nil {
		return nil, err
	}
	if patch.Tags != nil {
		if err := ensureTagsExist(ctx, s.db, *patch.Tags); err != nil {
			return nil, err
		}
	}
	if patch.Ingredients != nil {
		if err := ensureIngredientsExist(ctx, s.db, *patch.Ingredients); err != nil {
			return nil, err
		}
	}

	fields := map[string]interface{}{}
	if patch.Name != nil {
		fields["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Text != nil {
		fields["text"] = *patch.Text
	}
	if patch.CookingTime != nil {
		fields["cooking_time"] = *patch.CookingTime
	}
	if patch.Image != nil {
		image, err := s.images.Decode(ctx, *patch.Image)
		if err != nil {
			return nil, err
		}
		fields["image"] = image
	}

	var view *RecipeView
	err = s.db.Transaction(ctx, func(tx database.Database) error {
		if err := tx.RecipeRepo().UpdateFields(ctx, recipe.ID, fields); err != nil {
			return err
		}
		if patch.Tags != nil {
			if err := reconcileTags(ctx, tx.RecipeRepo(), recipe.ID, *patch.Tags); err != nil {
				return err
			}
		}
		if patch.Ingredients != nil {
			if err := reconcileIngredients(ctx, tx.RecipeRepo(), recipe.ID, *patch.Ingredients); err != nil {
				return err
			}
		}

		var err error
		view, err = loadRecipeView(ctx, tx, editorID, recipe.ID)
		return err
	})
	if err != nil {
		s.logger.Error().Err(err).Str("recipeID", recipeID.String()).Msg("Failed to update recipe")
		return nil, errs.NewDatabaseError("update", "recipe", err)
	}

	s.logger.Info().Str("recipeID", recipeID.String()).Msg("Recipe updated")
	return view, nil
}

// Delete removes a recipe owned by editorID along with its tags, ingredient
// amounts and every favorite and cart entry pointing at it
func (s *RecipeService) Delete(ctx context.Context, editorID, recipeID uuid.UUID) error {
	if _, err := s.ownedRecipe(ctx, editorID, recipeID); err != nil {
		return err
	}

	err := s.db.Transaction(ctx, func(tx database.Database) error {
		return tx.RecipeRepo().Delete(ctx, recipeID)
	})
	if err != nil {
		s.logger.Error().Err(err).Str("recipeID", recipeID.String()).Msg("Failed to delete recipe")
		return errs.NewDatabaseError("delete", "recipe", err)
	}

	s.logger.Info().Str("recipeID", recipeID.String()).Msg("Recipe deleted")
	return nil
}

// Get returns the recipe as seen by viewerID (uuid.Nil for anonymous)
func (s *RecipeService) Get(ctx context.Context, viewerID, recipeID uuid.UUID) (*RecipeView, error) {
	view, err := loadRecipeView(ctx, s.db, viewerID, recipeID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "recipe", err)
	}
	return view, nil
}

// List returns one page of recipes matching q and the total match count
func (s *RecipeService) List(ctx context.Context, viewerID uuid.UUID, q RecipeQuery) ([]RecipeView, int64, error) {
	filter := database.RecipeFilter{
		AuthorID: q.AuthorID,
		TagSlugs: q.TagSlugs,
	}
	if viewerID != uuid.Nil {
		if q.Favorited {
			filter.FavoritedBy = viewerID
		}
		if q.InCart {
			filter.InCartOf = viewerID
		}
	}

	recipes, total, err := s.db.RecipeRepo().List(ctx, filter, q.Page)
	if err != nil {
		return nil, 0, errs.NewDatabaseError("list", "recipes", err)
	}
	views, err := recipeViews(ctx, s.db, viewerID, recipes)
	if err != nil {
		return nil, 0, errs.NewDatabaseError("list", "recipes", err)
	}
	return views, total, nil
}

func (s *RecipeService) ownedRecipe(ctx context.Context, editorID, recipeID uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.db.RecipeRepo().FindShort(ctx, recipeID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "recipe", err)
	}
	if recipe == nil {
		return nil, errs.NewNotFound("recipe")
	}
	if recipe.AuthorID != editorID {
		return nil, errs.NewForbiddenError("only the author can change this recipe")
	}
	return recipe, nil
}

func loadRecipeView(ctx context.Context, db database.Database, viewerID, recipeID uuid.UUID) (*RecipeView, error) {
	recipe, err := db.RecipeRepo().FindByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, errs.NewNotFound("recipe")
	}
	views, err := recipeViews(ctx, db, viewerID, []*models.Recipe{recipe})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
