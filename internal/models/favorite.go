package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite is a per-user bookmark of a recipe with a personal annotation.
// The (user_id, recipe_id) composite key keeps re-favoriting an update, never
// a duplicate row.
type Favorite struct {
	UserID         uuid.UUID  `gorm:"type:uuid;primaryKey;index:idx_favorites_user_added,priority:1" json:"user_id"`
	RecipeID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"recipe_id"`
	PersonalRating *int       `gorm:"check:personal_rating >= 1 AND personal_rating <= 5" json:"personal_rating,omitempty"`
	PersonalNotes  string     `gorm:"type:text" json:"personal_notes,omitempty"`
	UseCount       int        `gorm:"not null;default:0" json:"use_count"`
	LastUsedAt     *time.Time `json:"last_used_at,omitempty"`
	AddedAt        time.Time  `gorm:"autoCreateTime;index:idx_favorites_user_added,priority:2" json:"added_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"recipe,omitempty"`
}

func (Favorite) TableName() string {
	return "favorites"
}
