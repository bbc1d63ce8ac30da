package models

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/errs"
	"gorm.io/gorm"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Tag labels recipes; name, color and slug are each globally unique
type Tag struct {
	ID    uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name  string    `json:"name" db:"name" gorm:"type:varchar(200);not null;uniqueIndex:idx_tag_name"`
	Color string    `json:"color" db:"color" gorm:"type:varchar(7);not null;uniqueIndex:idx_tag_color"`
	Slug  string    `json:"slug" db:"slug" gorm:"type:varchar(200);not null;uniqueIndex:idx_tag_slug"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

// BeforeSave rejects colors that are not of the #RRGGBB form
func (t *Tag) BeforeSave(tx *gorm.DB) error {
	if err := validate.Var(t.Color, "len=7,hexcolor"); err != nil {
		return errs.NewValidationError("color", "color must be a hex code like #49B64E")
	}
	return nil
}
