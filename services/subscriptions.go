package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/database"
	"github.com/rpupo63/foodgram-backend/errs"
	"github.com/rpupo63/foodgram-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type SubscriptionService struct {
	db     database.Database
	logger zerolog.Logger
}

func NewSubscriptionService(db database.Database) *SubscriptionService {
	return &SubscriptionService{
		db:     db,
		logger: log.With().Str("service", "subscriptionService").Logger(),
	}
}

// Subscribe makes followerID follow authorID. The author must exist, the pair
// must be new and a user cannot follow themselves, checked in that order.
func (s *SubscriptionService) Subscribe(ctx context.Context, followerID, authorID uuid.UUID, recipesLimit int) (*AuthorView, error) {
	author, err := s.findAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}

	exists, err := s.db.SubscriptionRepo().Exists(ctx, followerID, authorID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "subscription", err)
	}
	if exists {
		return nil, errs.NewConflictError("already subscribed to this user")
	}
	if followerID == authorID {
		return nil, errs.NewInvalidOperationError("cannot subscribe to yourself")
	}

	if err := s.db.SubscriptionRepo().Add(ctx, followerID, authorID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.NewConflictError("already subscribed to this user")
		}
		s.logger.Error().Err(err).Msg("Failed to add subscription")
		return nil, errs.NewDatabaseError("create", "subscription", err)
	}

	views, err := authorViews(ctx, s.db, followerID, []*models.User{author}, recipesLimit)
	if err != nil {
		return nil, errs.NewDatabaseError("load", "author", err)
	}
	return &views[0], nil
}

// Unsubscribe removes an existing subscription
func (s *SubscriptionService) Unsubscribe(ctx context.Context, followerID, authorID uuid.UUID) error {
	if _, err := s.findAuthor(ctx, authorID); err != nil {
		return err
	}

	removed, err := s.db.SubscriptionRepo().Remove(ctx, followerID, authorID)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to remove subscription")
		return errs.NewDatabaseError("delete", "subscription", err)
	}
	if !removed {
		return errs.NewNotFoundError("not subscribed to this user")
	}
	return nil
}

// List returns one page of the authors followerID follows, each with up to
// recipesLimit recipes (all when recipesLimit <= 0)
func (s *SubscriptionService) List(ctx context.Context, followerID uuid.UUID, page database.Page, recipesLimit int) ([]AuthorView, int64, error) {
	authors, total, err := s.db.SubscriptionRepo().Authors(ctx, followerID, page)
	if err != nil {
		return nil, 0, errs.NewDatabaseError("list", "subscriptions", err)
	}
	views, err := authorViews(ctx, s.db, followerID, authors, recipesLimit)
	if err != nil {
		return nil, 0, errs.NewDatabaseError("load", "authors", err)
	}
	return views, total, nil
}

func (s *SubscriptionService) findAuthor(ctx context.Context, authorID uuid.UUID) (*models.User, error) {
	author, err := s.db.UserRepo().FindByID(ctx, authorID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if author == nil {
		return nil, errs.NewNotFound("user")
	}
	return author, nil
}
