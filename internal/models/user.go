package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	Username     string             `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email        string             `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string             `gorm:"not null" json:"-"`
	Name         string             `gorm:"size:100" json:"name"`
	Preferences  DietaryPreferences `gorm:"type:jsonb;not null;default:'{}'" json:"preferences"`
}

// BeforeCreate assigns an ID when the store cannot (sqlite has no
// gen_random_uuid default).
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
