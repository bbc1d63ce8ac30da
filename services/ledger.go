package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/database"
	"github.com/rpupo63/foodgram-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// RecipeList names one of the per-user recipe sets
type RecipeList int

const (
	Favorites RecipeList = iota
	ShoppingCart
)

func (l RecipeList) String() string {
	if l == ShoppingCart {
		return "shopping cart"
	}
	return "favorites"
}

// LedgerService maintains the favorites and shopping cart sets
type LedgerService struct {
	db     database.Database
	logger zerolog.Logger
}

func NewLedgerService(db database.Database) *LedgerService {
	return &LedgerService{
		db:     db,
		logger: log.With().Str("service", "ledgerService").Logger(),
	}
}

func (s *LedgerService) repo(list RecipeList) *database.RecipeListRepo {
	if list == ShoppingCart {
		return s.db.CartRepo()
	}
	return s.db.FavoriteRepo()
}

// Add puts the recipe into the user's list and returns its short form
func (s *LedgerService) Add(ctx context.Context, list RecipeList, userID, recipeID uuid.UUID) (*RecipeShort, error) {
	repo := s.repo(list)

	exists, err := repo.Exists(ctx, userID, recipeID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", list.String()+" entry", err)
	}
	if exists {
		return nil, errs.NewConflictError("recipe is already in " + list.String())
	}

	recipe, err := s.db.RecipeRepo().FindShort(ctx, recipeID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "recipe", err)
	}
	if recipe == nil {
		return nil, errs.NewNotFound("recipe")
	}

	if err := repo.Add(ctx, userID, recipeID); err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, errs.NewConflictError("recipe is already in " + list.String())
		case errors.Is(err, gorm.ErrForeignKeyViolated):
			return nil, errs.NewNotFound("recipe")
		}
		s.logger.Error().Err(err).Str("list", list.String()).Msg("Failed to add recipe")
		return nil, errs.NewDatabaseError("create", list.String()+" entry", err)
	}

	short := newRecipeShort(recipe)
	return &short, nil
}

// Remove takes the recipe out of the user's list
func (s *LedgerService) Remove(ctx context.Context, list RecipeList, userID, recipeID uuid.UUID) error {
	removed, err := s.repo(list).Remove(ctx, userID, recipeID)
	if err != nil {
		s.logger.Error().Err(err).Str("list", list.String()).Msg("Failed to remove recipe")
		return errs.NewDatabaseError("delete", list.String()+" entry", err)
	}
	if !removed {
		return errs.NewNotFoundError("recipe is not in " + list.String())
	}
	return nil
}
