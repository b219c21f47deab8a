package models

import (
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// Difficulty levels a recipe may carry.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Meal types used for recipe classification and meal plan slots.
const (
	MealTypeBreakfast = "breakfast"
	MealTypeLunch     = "lunch"
	MealTypeDinner    = "dinner"
	MealTypeSnack     = "snack"
)

// ValidMealType reports whether s is one of the four meal type values.
func ValidMealType(s string) bool {
	switch s {
	case MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack:
		return true
	}
	return false
}

// ValidDifficulty reports whether s is one of the three difficulty values.
func ValidDifficulty(s string) bool {
	switch s {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Recipe is a reusable dish definition shared across meal plans and favorites.
// CreatedByUserID is a weak reference: it is nulled when the author is deleted,
// the recipe itself survives. TotalTime is generated by the store from
// prep_time + cook_time and is never written by the application.
type Recipe struct {
	ID              uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	CreatedByUserID *uuid.UUID       `gorm:"type:uuid;index" json:"created_by_user_id,omitempty"`
	Name            string           `gorm:"size:255;not null" json:"name"`
	Description     string           `gorm:"type:text" json:"description"`
	Ingredients     IngredientList   `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Instructions    string           `gorm:"type:text;not null" json:"instructions"`
	Nutrition       Nutrition        `gorm:"type:jsonb;not null;default:'{}'" json:"nutrition"`
	Cuisine         string           `gorm:"size:50;index" json:"cuisine,omitempty"`
	MealType        string           `gorm:"size:20;index" json:"meal_type,omitempty"`
	PrepTime        int              `gorm:"not null;default:0" json:"prep_time"`
	CookTime        int              `gorm:"not null;default:0" json:"cook_time"`
	TotalTime       int              `gorm:"->;type:integer GENERATED ALWAYS AS (prep_time + cook_time) STORED" json:"total_time"`
	Difficulty      string           `gorm:"size:20;not null;default:'medium';index" json:"difficulty"`
	AvgRating       float64          `gorm:"not null;default:0;index" json:"avg_rating"`
	RatingCount     int              `gorm:"not null;default:0" json:"rating_count"`
	ImageURL        string           `gorm:"size:255" json:"image_url,omitempty"`
	Tags            JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"tags"`
	Embedding       *pgvector.Vector `gorm:"type:vector(1536)" json:"-"`
}

// BeforeCreate assigns an ID when the store cannot (sqlite has no
// gen_random_uuid default).
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
