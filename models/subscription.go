package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription records that Follower follows Author
type Subscription struct {
	ID         uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	FollowerID uuid.UUID `json:"follower_id" db:"follower_id" gorm:"type:uuid;not null;uniqueIndex:idx_subscription_unique"`
	AuthorID   uuid.UUID `json:"author_id" db:"author_id" gorm:"type:uuid;not null;uniqueIndex:idx_subscription_unique;index:idx_subscription_author_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at" gorm:"not null;autoCreateTime"`

	Follower User `json:"-" gorm:"foreignKey:FollowerID;references:ID;constraint:OnDelete:CASCADE"`
	Author   User `json:"-" gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
