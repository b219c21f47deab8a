package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MealPlan is a named weekly container owned by exactly one user. At most one
// plan per user may be active at a time; the write path in the meal plan
// service enforces this inside a transaction.
type MealPlan struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_meal_plans_user_name" json:"user_id"`
	Name          string    `gorm:"size:100;not null;uniqueIndex:idx_meal_plans_user_name" json:"name"`
	Description   string    `gorm:"type:text" json:"description"`
	WeekStartDate time.Time `gorm:"not null" json:"week_start_date"`
	IsActive      bool      `gorm:"not null;default:false;index:idx_meal_plans_user_active" json:"is_active"`

	Items []MealPlanItem `gorm:"foreignKey:MealPlanID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// BeforeCreate assigns an ID when the store cannot (sqlite has no
// gen_random_uuid default).
func (p *MealPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// MealPlanItem assigns one recipe to one (day-of-week, meal-type) slot of a
// plan. The composite primary key guarantees at most one recipe per slot;
// assignment is an upsert on that key.
type MealPlanItem struct {
	MealPlanID uuid.UUID `gorm:"type:uuid;primaryKey" json:"meal_plan_id"`
	DayOfWeek  int       `gorm:"primaryKey;check:day_of_week >= 0 AND day_of_week <= 6" json:"day_of_week"`
	MealType   string    `gorm:"size:20;primaryKey" json:"meal_type"`
	RecipeID   uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"recipe,omitempty"`
}
