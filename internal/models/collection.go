package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Collection is a named, user-owned grouping of recipes. Names are unique per
// owner.
type Collection struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	UserID      uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:idx_collections_user_name" json:"user_id"`
	Name        string           `gorm:"size:100;not null;uniqueIndex:idx_collections_user_name" json:"name"`
	Description string           `gorm:"type:text" json:"description"`
	Color       string           `gorm:"size:20" json:"color,omitempty"`
	Icon        string           `gorm:"size:50" json:"icon,omitempty"`
	IsPublic    bool             `gorm:"not null;default:false" json:"is_public"`
	Tags        JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"tags"`

	Recipes []CollectionRecipe `gorm:"foreignKey:CollectionID;constraint:OnDelete:CASCADE" json:"recipes,omitempty"`
}

// BeforeCreate assigns an ID when the store cannot (sqlite has no
// gen_random_uuid default).
func (c *Collection) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CollectionRecipe is the many-to-many join between collections and recipes.
// Cascade-deleted when either side goes away.
type CollectionRecipe struct {
	CollectionID uuid.UUID `gorm:"type:uuid;primaryKey" json:"collection_id"`
	RecipeID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"recipe_id"`
	AddedAt      time.Time `gorm:"autoCreateTime" json:"added_at"`

	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"recipe,omitempty"`
}
