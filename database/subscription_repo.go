package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/models"
	"gorm.io/gorm"
)

type SubscriptionRepo struct {
	db *gorm.DB
}

func NewSubscriptionRepo(db *gorm.DB) *SubscriptionRepo {
	return &SubscriptionRepo{db}
}

// Exists reports whether follower is subscribed to author
func (r *SubscriptionRepo) Exists(ctx context.Context, followerID, authorID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Count(&count).Error
	return count > 0, err
}

// Add inserts the pair. A duplicate pair fails with gorm.ErrDuplicatedKey.
func (r *SubscriptionRepo) Add(ctx context.Context, followerID, authorID uuid.UUID) error {
	return r.db.WithContext(ctx).Create(&models.Subscription{
		FollowerID: followerID,
		AuthorID:   authorID,
	}).Error
}

// Remove deletes the pair and reports whether a row was removed
func (r *SubscriptionRepo) Remove(ctx context.Context, followerID, authorID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Delete(&models.Subscription{})
	return result.RowsAffected > 0, result.Error
}

// Authors returns one page of the users follower is subscribed to, ordered by username
func (r *SubscriptionRepo) Authors(ctx context.Context, followerID uuid.UUID, page Page) ([]*models.User, int64, error) {
	followed := r.db.Model(&models.Subscription{}).Select("author_id").Where("follower_id = ?", followerID)

	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id IN (?)", followed).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var authors []*models.User
	err = r.db.WithContext(ctx).
		Where("id IN (?)", followed).
		Order("username").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&authors).Error
	return authors, total, err
}

// Among returns which of authorIDs follower is subscribed to
func (r *SubscriptionRepo) Among(ctx context.Context, followerID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	followed := make(map[uuid.UUID]bool, len(authorIDs))
	if followerID == uuid.Nil || len(authorIDs) == 0 {
		return followed, nil
	}

	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("follower_id = ? AND author_id IN ?", followerID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		followed[id] = true
	}
	return followed, nil
}
