package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account that authors recipes and keeps favorites, a cart and subscriptions
type User struct {
	ID         uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Username   string    `json:"username" db:"username" gorm:"type:varchar(150);not null;uniqueIndex:idx_user_username"`
	Email      string    `json:"email" db:"email" gorm:"type:varchar(254);not null;uniqueIndex:idx_user_email"`
	FirstName  string    `json:"first_name" db:"first_name" gorm:"type:varchar(150);not null"`
	LastName   string    `json:"last_name" db:"last_name" gorm:"type:varchar(150);not null"`
	Password   string    `json:"-" db:"password" gorm:"type:varchar(128);not null"`
	DateJoined time.Time `json:"date_joined" db:"date_joined" gorm:"not null;autoCreateTime"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

// DisplayName prefers the full name and falls back to the username.
func (u User) DisplayName() string {
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full == "" {
		return u.Username
	}
	return full
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
