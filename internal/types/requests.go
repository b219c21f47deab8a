package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/pageza/mealplanner-v2/backend/internal/models"
)

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Username    string                    `json:"username" binding:"required,min=3,max=50"`
	Email       string                    `json:"email" binding:"required,email"`
	Password    string                    `json:"password" binding:"required,min=8"`
	Name        string                    `json:"name"`
	Preferences models.DietaryPreferences `json:"preferences"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateRecipeRequest represents the request body for creating a recipe
type CreateRecipeRequest struct {
	Name         string                `json:"name" binding:"required,max=255"`
	Description  string                `json:"description"`
	Ingredients  []models.Ingredient   `json:"ingredients" binding:"required,min=1"`
	Instructions string                `json:"instructions" binding:"required"`
	Nutrition    models.Nutrition      `json:"nutrition"`
	Cuisine      string                `json:"cuisine"`
	MealType     string                `json:"meal_type" binding:"omitempty,mealtype"`
	PrepTime     int                   `json:"prep_time" binding:"min=0"`
	CookTime     int                   `json:"cook_time" binding:"min=0"`
	Difficulty   string                `json:"difficulty" binding:"omitempty,difficulty"`
	ImageURL     string                `json:"image_url"`
	Tags         []string              `json:"tags"`
}

// UpdateRecipeRequest represents the request body for updating a recipe.
// Pointer fields distinguish "not provided" from zero values.
type UpdateRecipeRequest struct {
	Name         *string              `json:"name,omitempty"`
	Description  *string              `json:"description,omitempty"`
	Ingredients  *[]models.Ingredient `json:"ingredients,omitempty"`
	Instructions *string              `json:"instructions,omitempty"`
	Nutrition    *models.Nutrition    `json:"nutrition,omitempty"`
	Cuisine      *string              `json:"cuisine,omitempty"`
	MealType     *string              `json:"meal_type,omitempty" binding:"omitempty"`
	PrepTime     *int                 `json:"prep_time,omitempty"`
	CookTime     *int                 `json:"cook_time,omitempty"`
	Difficulty   *string              `json:"difficulty,omitempty"`
	ImageURL     *string              `json:"image_url,omitempty"`
	Tags         *[]string            `json:"tags,omitempty"`
}

// RecipeSearchRequest carries the filters for recipe search.
type RecipeSearchRequest struct {
	Query      string   `form:"q" json:"q"`
	Tags       []string `form:"tags" json:"tags"`
	Cuisine    string   `form:"cuisine" json:"cuisine"`
	MealType   string   `form:"meal_type" json:"meal_type" binding:"omitempty,mealtype"`
	Difficulty string   `form:"difficulty" json:"difficulty" binding:"omitempty,difficulty"`
	OrderBy    string   `form:"order_by" json:"order_by" binding:"omitempty,oneof=rating created"`
	Limit      int      `form:"limit" json:"limit"`
	Offset     int      `form:"offset" json:"offset"`
}

// RecipeSearchResponse is one page of search results plus the total count.
type RecipeSearchResponse struct {
	Recipes []models.Recipe `json:"recipes"`
	Total   int64           `json:"total"`
}

// CreateMealPlanRequest represents the request body for creating a meal plan
type CreateMealPlanRequest struct {
	Name          string    `json:"name" binding:"required,max=100"`
	Description   string    `json:"description"`
	WeekStartDate time.Time `json:"week_start_date" binding:"required"`
}

// UpdateMealPlanRequest represents the request body for updating a meal plan
type UpdateMealPlanRequest struct {
	Name          *string    `json:"name,omitempty"`
	Description   *string    `json:"description,omitempty"`
	WeekStartDate *time.Time `json:"week_start_date,omitempty"`
}

// AssignRecipeRequest assigns a recipe to one (day, meal type) slot.
type AssignRecipeRequest struct {
	RecipeID  uuid.UUID `json:"recipe_id" binding:"required"`
	DayOfWeek int       `json:"day_of_week" binding:"min=0,max=6"`
	MealType  string    `json:"meal_type" binding:"required,mealtype"`
}

// MealPlanFilters narrows ListMealPlans results.
type MealPlanFilters struct {
	IsActive *bool `form:"is_active" json:"is_active,omitempty"`
	Limit    int   `form:"limit" json:"limit"`
	Offset   int   `form:"offset" json:"offset"`
}

// AddFavoriteRequest represents the request body for favoriting a recipe
type AddFavoriteRequest struct {
	RecipeID uuid.UUID `json:"recipe_id" binding:"required"`
	Rating   *int      `json:"rating,omitempty" binding:"omitempty,min=1,max=5"`
	Notes    string    `json:"notes,omitempty"`
}

// CreateCollectionRequest represents the request body for creating a collection
type CreateCollectionRequest struct {
	Name        string   `json:"name" binding:"required,max=100"`
	Description string   `json:"description"`
	Color       string   `json:"color"`
	Icon        string   `json:"icon"`
	IsPublic    bool     `json:"is_public"`
	Tags        []string `json:"tags"`
}

// BulkUpdateTagsRequest updates tags across several favorited recipes.
type BulkUpdateTagsRequest struct {
	RecipeIDs []uuid.UUID `json:"recipe_ids" binding:"required,min=1"`
	Tags      []string    `json:"tags" binding:"required"`
	Replace   bool        `json:"replace"`
}

// BulkResult reports per-item outcomes of a best-effort bulk operation.
type BulkResult struct {
	Succeeded []uuid.UUID       `json:"succeeded"`
	Failed    map[string]string `json:"failed,omitempty"`
}
