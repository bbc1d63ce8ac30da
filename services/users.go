package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/database"
	"github.com/rpupo63/foodgram-backend/errs"
	"github.com/rpupo63/foodgram-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const passwordRule = "min=8"

type RegisterInput struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,username"`
	FirstName string `json:"first_name" validate:"notblank,max=150"`
	LastName  string `json:"last_name" validate:"notblank,max=150"`
	Password  string `json:"password" validate:"min=8"`
}

// UserService covers registration, profiles, passwords and login
type UserService struct {
	db       database.Database
	tokens   *TokenIssuer
	validate *inputValidator
	logger   zerolog.Logger
}

func NewUserService(db database.Database, tokens *TokenIssuer) *UserService {
	return &UserService{
		db:       db,
		tokens:   tokens,
		validate: newInputValidator(),
		logger:   log.With().Str("service", "userService").Logger(),
	}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*UserView, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to hash password", err)
	}

	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Password:  string(hash),
	}
	if err := s.db.UserRepo().Add(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.NewConflictError("a user with this username or email already exists")
		}
		s.logger.Error().Err(err).Str("username", in.Username).Msg("Failed to register user")
		return nil, errs.NewDatabaseError("create", "user", err)
	}

	s.logger.Info().Str("userID", user.ID.String()).Msg("User registered")
	view := newUserView(user, false)
	return &view, nil
}

// Get returns a user as seen by viewerID (uuid.Nil for anonymous)
func (s *UserService) Get(ctx context.Context, viewerID, userID uuid.UUID) (*UserView, error) {
	user, err := s.db.UserRepo().FindByID(ctx, userID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if user == nil {
		return nil, errs.NewNotFound("user")
	}
	views, err := userViews(ctx, s.db, viewerID, []*models.User{user})
	if err != nil {
		return nil, errs.NewDatabaseError("load", "user", err)
	}
	return &views[0], nil
}

// List returns a page of users whose username starts with search (all users
// when search is empty)
func (s *UserService) List(ctx context.Context, viewerID uuid.UUID, search string, page database.Page) ([]UserView, int64, error) {
	users, total, err := s.db.UserRepo().List(ctx, search, page)
	if err != nil {
		return nil, 0, errs.NewDatabaseError("list", "users", err)
	}
	views, err := userViews(ctx, s.db, viewerID, users)
	if err != nil {
		return nil, 0, errs.NewDatabaseError("load", "users", err)
	}
	return views, total, nil
}

// SetPassword replaces the password after checking the current one
func (s *UserService) SetPassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.db.UserRepo().FindByID(ctx, userID)
	if err != nil {
		return errs.NewDatabaseError("find", "user", err)
	}
	if user == nil {
		return errs.NewNotFound("user")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)) != nil {
		return errs.NewValidationError("current_password", "current password is incorrect")
	}
	if err := s.validate.Var("new_password", next, passwordRule); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return errs.NewInternalErrorWithCause("failed to hash password", err)
	}
	if err := s.db.UserRepo().UpdatePassword(ctx, userID, string(hash)); err != nil {
		return errs.NewDatabaseError("update", "password", err)
	}
	return nil
}

// Login checks email and password and returns a signed access token
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.db.UserRepo().FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", errs.NewDatabaseError("find", "user", err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", errs.NewBadLoginError()
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", errs.NewInternalErrorWithCause("failed to sign token", err)
	}
	return token, nil
}

// Authenticate resolves an access token to the id of an existing user
func (s *UserService) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return uuid.Nil, err
	}
	user, err := s.db.UserRepo().FindByID(ctx, userID)
	if err != nil {
		return uuid.Nil, errs.NewDatabaseError("find", "user", err)
	}
	if user == nil {
		return uuid.Nil, errs.NewInvalidTokenError()
	}
	return user.ID, nil
}
