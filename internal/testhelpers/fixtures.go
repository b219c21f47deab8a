package testhelpers

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/mealplanner-v2/backend/internal/models"
)

// CreateTestUser inserts a user with unique username/email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	id := uuid.New()
	user := &models.User{
		ID:           id,
		Username:     fmt.Sprintf("user-%s", id.String()[:8]),
		Email:        fmt.Sprintf("user-%s@example.com", id.String()[:8]),
		PasswordHash: "x",
		Name:         "Test User",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestRecipe inserts a minimal valid recipe, optionally owned by userID.
func CreateTestRecipe(t *testing.T, db *gorm.DB, userID *uuid.UUID, name, mealType string) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		CreatedByUserID: userID,
		Name:            name,
		Ingredients: models.IngredientList{
			{Name: "water", Amount: 1, Unit: "cup"},
		},
		Instructions: "Combine and serve.",
		MealType:     mealType,
		PrepTime:     10,
		CookTime:     20,
		Difficulty:   models.DifficultyEasy,
		Tags:         models.JSONBStringArray{},
	}
	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("failed to create test recipe %q: %v", name, err)
	}
	return recipe
}

// CreateTestMealPlan inserts a plan owned by userID.
func CreateTestMealPlan(t *testing.T, db *gorm.DB, userID uuid.UUID, name string) *models.MealPlan {
	t.Helper()
	plan := &models.MealPlan{
		UserID: userID,
		Name:   name,
	}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("failed to create test meal plan %q: %v", name, err)
	}
	return plan
}
