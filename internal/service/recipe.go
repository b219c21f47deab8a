package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/pageza/mealplanner-v2/backend/internal/models"
	"github.com/pageza/mealplanner-v2/backend/internal/types"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// RecipeService handles the shared recipe catalog
type RecipeService struct {
	db       *gorm.DB
	embedder EmbeddingProvider
}

// Ensure RecipeService implements IRecipeService
var _ IRecipeService = (*RecipeService)(nil)

// NewRecipeService creates a new RecipeService instance. The embedding
// provider is optional; without it search uses full-text matching only.
func NewRecipeService(db *gorm.DB, embedder EmbeddingProvider) *RecipeService {
	return &RecipeService{
		db:       db,
		embedder: embedder,
	}
}

// CreateRecipe validates and inserts a recipe. Rating aggregates start at
// zero and total_time is computed by the store.
func (s *RecipeService) CreateRecipe(ctx context.Context, createdBy *uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	if err := validateIngredients(req.Ingredients); err != nil {
		return nil, err
	}
	if req.MealType != "" && !models.ValidMealType(req.MealType) {
		return nil, validationErr("recipe", fmt.Sprintf("invalid meal type %q", req.MealType))
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyMedium
	}
	if !models.ValidDifficulty(difficulty) {
		return nil, validationErr("recipe", fmt.Sprintf("invalid difficulty %q", difficulty))
	}
	if req.PrepTime < 0 || req.CookTime < 0 {
		return nil, validationErr("recipe", "prep and cook time must be non-negative")
	}

	recipe := models.Recipe{
		CreatedByUserID: createdBy,
		Name:            req.Name,
		Description:     req.Description,
		Ingredients:     req.Ingredients,
		Instructions:    req.Instructions,
		Nutrition:       req.Nutrition,
		Cuisine:         req.Cuisine,
		MealType:        req.MealType,
		PrepTime:        req.PrepTime,
		CookTime:        req.CookTime,
		Difficulty:      difficulty,
		ImageURL:        req.ImageURL,
		Tags:            dedupeTags(req.Tags),
	}

	if s.embedder != nil {
		if vec, err := s.embedder.GenerateEmbedding(ctx, req.Name+" "+req.Description); err == nil {
			v := pgvector.NewVector(vec)
			recipe.Embedding = &v
		} else {
			log.Printf("embedding generation failed for recipe %q: %v", req.Name, err)
		}
	}

	if err := s.db.WithContext(ctx).Create(&recipe).Error; err != nil {
		return nil, translateDBError(err, "recipe", recipe.Name)
	}

	// Re-fetch so store-generated fields (total_time, timestamps) are populated.
	return s.GetRecipe(ctx, recipe.ID)
}

// GetRecipe retrieves a recipe by ID
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, translateDBError(err, "recipe", id.String())
	}
	return &recipe, nil
}

// UpdateRecipe merges the provided fields into an existing recipe. The store
// recomputes total_time whenever either time field changes.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, translateDBError(err, "recipe", id.String())
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Ingredients != nil {
		if err := validateIngredients(*req.Ingredients); err != nil {
			return nil, err
		}
		updates["ingredients"] = models.IngredientList(*req.Ingredients)
	}
	if req.Instructions != nil {
		updates["instructions"] = *req.Instructions
	}
	if req.Nutrition != nil {
		updates["nutrition"] = *req.Nutrition
	}
	if req.Cuisine != nil {
		updates["cuisine"] = *req.Cuisine
	}
	if req.MealType != nil {
		if *req.MealType != "" && !models.ValidMealType(*req.MealType) {
			return nil, validationErr("recipe", fmt.Sprintf("invalid meal type %q", *req.MealType))
		}
		updates["meal_type"] = *req.MealType
	}
	if req.PrepTime != nil {
		if *req.PrepTime < 0 {
			return nil, validationErr("recipe", "prep time must be non-negative")
		}
		updates["prep_time"] = *req.PrepTime
	}
	if req.CookTime != nil {
		if *req.CookTime < 0 {
			return nil, validationErr("recipe", "cook time must be non-negative")
		}
		updates["cook_time"] = *req.CookTime
	}
	if req.Difficulty != nil {
		if !models.ValidDifficulty(*req.Difficulty) {
			return nil, validationErr("recipe", fmt.Sprintf("invalid difficulty %q", *req.Difficulty))
		}
		updates["difficulty"] = *req.Difficulty
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.Tags != nil {
		updates["tags"] = dedupeTags(*req.Tags)
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&recipe).Updates(updates).Error; err != nil {
			return nil, translateDBError(err, "recipe", id.String())
		}
	}

	return s.GetRecipe(ctx, id)
}

// DeleteRecipe removes a recipe from the catalog. If the recipe is still
// assigned to any meal plan and removeFromMealPlans is false, the delete is
// rejected with a conflict naming the referencing plans so the caller can
// decide to force it.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id uuid.UUID, removeFromMealPlans bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", id).Error; err != nil {
			return translateDBError(err, "recipe", id.String())
		}

		if !removeFromMealPlans {
			var planNames []string
			err := tx.Model(&models.MealPlanItem{}).
				Distinct("meal_plans.name").
				Joins("JOIN meal_plans ON meal_plans.id = meal_plan_items.meal_plan_id").
				Where("meal_plan_items.recipe_id = ?", id).
				Pluck("meal_plans.name", &planNames).Error
			if err != nil {
				return translateDBError(err, "recipe", id.String())
			}
			if len(planNames) > 0 {
				return conflictErr("recipe", id.String(),
					fmt.Sprintf("still assigned in meal plans: %s", strings.Join(planNames, ", ")))
			}
		}

		// Explicit deletes keep the behavior identical on stores where the
		// schema-level cascades are not enforced.
		if err := tx.Where("recipe_id = ?", id).Delete(&models.MealPlanItem{}).Error; err != nil {
			return translateDBError(err, "recipe", id.String())
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return translateDBError(err, "recipe", id.String())
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.CollectionRecipe{}).Error; err != nil {
			return translateDBError(err, "recipe", id.String())
		}
		if err := tx.Delete(&models.Recipe{}, "id = ?", id).Error; err != nil {
			return translateDBError(err, "recipe", id.String())
		}
		return nil
	})
}

// RateRecipe folds one rating into the running aggregates with a single
// atomic update so concurrent ratings never lose a count.
func (s *RecipeService) RateRecipe(ctx context.Context, id uuid.UUID, rating int) (*models.Recipe, error) {
	if rating < 1 || rating > 5 {
		return nil, validationErr("recipe", "rating must be between 1 and 5")
	}

	res := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"avg_rating":   gorm.Expr("(avg_rating * rating_count + ?) / (rating_count + 1)", rating),
			"rating_count": gorm.Expr("rating_count + 1"),
		})
	if res.Error != nil {
		return nil, translateDBError(res.Error, "recipe", id.String())
	}
	if res.RowsAffected == 0 {
		return nil, notFoundErr("recipe", id.String())
	}

	return s.GetRecipe(ctx, id)
}

// SearchRecipes returns one page of matches plus the total count. Text search
// uses postgres full-text when available, a semantic ordering when an
// embedding provider is configured, and a LIKE fallback otherwise.
func (s *RecipeService) SearchRecipes(ctx context.Context, req *types.RecipeSearchRequest) (*types.RecipeSearchResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	if req.Offset < 0 {
		return nil, validationErr("recipe", "offset must be non-negative")
	}

	query := s.db.WithContext(ctx).Model(&models.Recipe{})
	postgres := s.db.Dialector.Name() == "postgres"

	if req.Query != "" {
		if postgres {
			query = query.Where(
				"to_tsvector('english', name || ' ' || COALESCE(description, '')) @@ plainto_tsquery('english', ?)",
				req.Query,
			)
		} else {
			like := "%" + strings.ToLower(req.Query) + "%"
			query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
		}
	}

	for _, tag := range dedupeTags(req.Tags) {
		if postgres {
			query = query.Where("tags @> ?", fmt.Sprintf(`["%s"]`, tag))
		} else {
			query = query.Where("tags LIKE ?", fmt.Sprintf(`%%"%s"%%`, tag))
		}
	}

	if req.Cuisine != "" {
		query = query.Where("cuisine = ?", req.Cuisine)
	}
	if req.MealType != "" {
		if !models.ValidMealType(req.MealType) {
			return nil, validationErr("recipe", fmt.Sprintf("invalid meal type %q", req.MealType))
		}
		query = query.Where("meal_type = ?", req.MealType)
	}
	if req.Difficulty != "" {
		if !models.ValidDifficulty(req.Difficulty) {
			return nil, validationErr("recipe", fmt.Sprintf("invalid difficulty %q", req.Difficulty))
		}
		query = query.Where("difficulty = ?", req.Difficulty)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, translateDBError(err, "recipe", "")
	}

	switch {
	case postgres && req.Query != "" && s.embedder != nil:
		if vec, err := s.embedder.GenerateEmbedding(ctx, req.Query); err == nil {
			query = query.Clauses(clause.OrderBy{
				Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{pgvector.NewVector(vec)}},
			})
		} else {
			log.Printf("embedding search fallback for query %q: %v", req.Query, err)
			query = query.Order("created_at DESC")
		}
	case req.OrderBy == "rating":
		query = query.Order("avg_rating DESC, created_at DESC")
	default:
		query = query.Order("created_at DESC")
	}

	var recipes []models.Recipe
	if err := query.Limit(limit).Offset(req.Offset).Find(&recipes).Error; err != nil {
		return nil, translateDBError(err, "recipe", "")
	}

	return &types.RecipeSearchResponse{Recipes: recipes, Total: total}, nil
}

func validateIngredients(ingredients []models.Ingredient) error {
	if len(ingredients) == 0 {
		return validationErr("recipe", "ingredient list must not be empty")
	}
	for _, ing := range ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return validationErr("recipe", "ingredient name must not be empty")
		}
		if ing.Amount <= 0 {
			return validationErr("recipe", fmt.Sprintf("ingredient %q amount must be positive", ing.Name))
		}
	}
	return nil
}

// dedupeTags lowercases, trims and deduplicates tags preserving first-seen order.
func dedupeTags(tags []string) models.JSONBStringArray {
	seen := make(map[string]struct{}, len(tags))
	out := make(models.JSONBStringArray, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
