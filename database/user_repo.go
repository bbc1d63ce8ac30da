package database

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/models"
	"gorm.io/gorm"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

// FindByID returns the user or nil when no such user exists
func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail returns the user or nil when no user has that email
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns one page of users ordered by username and the total count.
// A non-empty search keeps usernames starting with it, case-insensitively.
func (r *UserRepo) List(ctx context.Context, search string, page Page) ([]*models.User, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Scopes(usernamePrefix(search)).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var users []*models.User
	err = r.db.WithContext(ctx).
		Scopes(usernamePrefix(search)).
		Order("username").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&users).Error
	return users, total, err
}

func usernamePrefix(search string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if search = strings.TrimSpace(search); search == "" {
			return db
		}
		return db.Where("LOWER(username) LIKE ? ESCAPE '\\'", escapeLike(strings.ToLower(search))+"%")
	}
}

// Add inserts a new user into the database
func (r *UserRepo) Add(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("password", hash).Error
}
