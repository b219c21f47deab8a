package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/mealplanner-v2/backend/internal/models"
	"github.com/pageza/mealplanner-v2/backend/internal/types"
)

// GeneratedMeal is one slot of a plan returned by the generation service.
type GeneratedMeal struct {
	DayOfWeek int                 `json:"day_of_week"`
	MealType  string              `json:"meal_type"`
	Recipe    *GeneratedRecipe    `json:"recipe"`
}

// GeneratedRecipe is the structured recipe shape returned by the generation
// service. It carries everything needed to persist a models.Recipe.
type GeneratedRecipe struct {
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	Ingredients  []models.Ingredient `json:"ingredients"`
	Instructions string              `json:"instructions"`
	Nutrition    models.Nutrition    `json:"nutrition"`
	Cuisine      string              `json:"cuisine"`
	MealType     string              `json:"meal_type"`
	PrepTime     int                 `json:"prep_time"`
	CookTime     int                 `json:"cook_time"`
	Difficulty   string              `json:"difficulty"`
	Tags         []string            `json:"tags"`
}

// GeneratedWeeklyPlan is the structured weekly plan returned by the
// generation service.
type GeneratedWeeklyPlan struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	WeekStartDate time.Time       `json:"week_start_date"`
	Meals         []GeneratedMeal `json:"meals"`
}

// GenerationService is the LLM collaborator boundary. The data core persists
// whatever valid structured result it returns and does not retry generation.
type GenerationService interface {
	GenerateWeeklyPlan(ctx context.Context, prefs models.DietaryPreferences) (*GeneratedWeeklyPlan, error)
	GenerateRecipe(ctx context.Context, prompt string, prefs models.DietaryPreferences) (*GeneratedRecipe, error)
}

// EmbeddingProvider supplies embeddings for semantic recipe search. Optional:
// a nil provider disables the semantic branch without affecting correctness.
type EmbeddingProvider interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// IRecipeService defines the interface for recipe catalog operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, createdBy *uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, id uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, id uuid.UUID, removeFromMealPlans bool) error
	SearchRecipes(ctx context.Context, req *types.RecipeSearchRequest) (*types.RecipeSearchResponse, error)
	RateRecipe(ctx context.Context, id uuid.UUID, rating int) (*models.Recipe, error)
}

// IMealPlanService defines the interface for meal plan operations
type IMealPlanService interface {
	CreateMealPlan(ctx context.Context, userID uuid.UUID, req *types.CreateMealPlanRequest) (*models.MealPlan, error)
	GetMealPlan(ctx context.Context, id uuid.UUID) (*models.MealPlan, error)
	UpdateMealPlan(ctx context.Context, id uuid.UUID, req *types.UpdateMealPlanRequest) (*models.MealPlan, error)
	DeleteMealPlan(ctx context.Context, id uuid.UUID) error
	ListMealPlans(ctx context.Context, userID uuid.UUID, filters *types.MealPlanFilters) ([]models.MealPlan, error)
	SetActiveMealPlan(ctx context.Context, userID, planID uuid.UUID) error
	GetActiveMealPlan(ctx context.Context, userID uuid.UUID) (*models.MealPlan, error)
	AssignRecipe(ctx context.Context, planID, recipeID uuid.UUID, dayOfWeek int, mealType string) error
	RemoveRecipe(ctx context.Context, planID uuid.UUID, dayOfWeek int, mealType string) error
	PersistGeneratedPlan(ctx context.Context, userID uuid.UUID, plan *GeneratedWeeklyPlan) (*models.MealPlan, error)
}

// IFavoriteService defines the interface for favorites and collections
type IFavoriteService interface {
	AddFavorite(ctx context.Context, userID uuid.UUID, req *types.AddFavoriteRequest) (*models.Favorite, error)
	RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
	UpdateFavoriteRating(ctx context.Context, userID, recipeID uuid.UUID, rating int) error
	UpdateFavoriteNotes(ctx context.Context, userID, recipeID uuid.UUID, notes string) error
	GetUserFavorites(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Favorite, error)
	GetFavoritesByMealType(ctx context.Context, userID uuid.UUID, mealType string) ([]models.Favorite, error)
	IsFavorited(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
	GetFavoriteStatusForRecipes(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	IncrementUseCount(ctx context.Context, userID, recipeID uuid.UUID) error
	BulkDeleteFavorites(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (*types.BulkResult, error)
	BulkUpdateTags(ctx context.Context, userID uuid.UUID, req *types.BulkUpdateTagsRequest) (*types.BulkResult, error)

	CreateCollection(ctx context.Context, userID uuid.UUID, req *types.CreateCollectionRequest) (*models.Collection, error)
	DeleteCollection(ctx context.Context, userID, collectionID uuid.UUID) error
	AddToCollection(ctx context.Context, collectionID, recipeID uuid.UUID) error
	RemoveFromCollection(ctx context.Context, collectionID, recipeID uuid.UUID) error
	GetCollections(ctx context.Context, userID uuid.UUID) ([]models.Collection, error)
	GetCollectionMeals(ctx context.Context, collectionID uuid.UUID) ([]models.Recipe, error)
}

// IAccountService defines the interface for account operations
type IAccountService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdatePreferences(ctx context.Context, id uuid.UUID, prefs models.DietaryPreferences) (*models.User, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) error
}
