package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pageza/mealplanner-v2/backend/internal/models"
	"github.com/pageza/mealplanner-v2/backend/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MealPlanService handles weekly meal plans and their slot assignments
type MealPlanService struct {
	db *gorm.DB
}

// Ensure MealPlanService implements IMealPlanService
var _ IMealPlanService = (*MealPlanService)(nil)

// NewMealPlanService creates a new MealPlanService instance
func NewMealPlanService(db *gorm.DB) *MealPlanService {
	return &MealPlanService{db: db}
}

// CreateMealPlan creates an inactive plan. Plan names are unique per owner.
func (s *MealPlanService) CreateMealPlan(ctx context.Context, userID uuid.UUID, req *types.CreateMealPlanRequest) (*models.MealPlan, error) {
	plan := models.MealPlan{
		UserID:        userID,
		Name:          req.Name,
		Description:   req.Description,
		WeekStartDate: req.WeekStartDate,
	}
	if err := s.db.WithContext(ctx).Create(&plan).Error; err != nil {
		return nil, translateDBError(err, "meal plan", fmt.Sprintf("%s/%s", userID, req.Name))
	}
	return &plan, nil
}

// GetMealPlan retrieves a plan with its items and their recipes hydrated.
func (s *MealPlanService) GetMealPlan(ctx context.Context, id uuid.UUID) (*models.MealPlan, error) {
	var plan models.MealPlan
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_of_week, meal_type")
		}).
		Preload("Items.Recipe").
		First(&plan, "id = ?", id).Error
	if err != nil {
		return nil, translateDBError(err, "meal plan", id.String())
	}
	return &plan, nil
}

// UpdateMealPlan merges the provided fields into an existing plan.
func (s *MealPlanService) UpdateMealPlan(ctx context.Context, id uuid.UUID, req *types.UpdateMealPlanRequest) (*models.MealPlan, error) {
	var plan models.MealPlan
	if err := s.db.WithContext(ctx).First(&plan, "id = ?", id).Error; err != nil {
		return nil, translateDBError(err, "meal plan", id.String())
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.WeekStartDate != nil {
		updates["week_start_date"] = *req.WeekStartDate
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&plan).Updates(updates).Error; err != nil {
			return nil, translateDBError(err, "meal plan", id.String())
		}
	}
	return s.GetMealPlan(ctx, id)
}

// DeleteMealPlan removes a plan and its items.
func (s *MealPlanService) DeleteMealPlan(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.MealPlan{}, "id = ?", id)
		if res.Error != nil {
			return translateDBError(res.Error, "meal plan", id.String())
		}
		if res.RowsAffected == 0 {
			return notFoundErr("meal plan", id.String())
		}
		if err := tx.Where("meal_plan_id = ?", id).Delete(&models.MealPlanItem{}).Error; err != nil {
			return translateDBError(err, "meal plan", id.String())
		}
		return nil
	})
}

// ListMealPlans returns the user's plans, most recent first.
func (s *MealPlanService) ListMealPlans(ctx context.Context, userID uuid.UUID, filters *types.MealPlanFilters) ([]models.MealPlan, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if filters != nil {
		if filters.IsActive != nil {
			query = query.Where("is_active = ?", *filters.IsActive)
		}
		if filters.Limit > 0 {
			query = query.Limit(filters.Limit)
		}
		if filters.Offset > 0 {
			query = query.Offset(filters.Offset)
		}
	}

	var plans []models.MealPlan
	if err := query.Order("created_at DESC").Find(&plans).Error; err != nil {
		return nil, translateDBError(err, "meal plan", userID.String())
	}
	return plans, nil
}

// SetActiveMealPlan makes planID the user's single active plan. The
// deactivate-then-activate pair runs in one transaction that first locks the
// user's entire plan set on postgres. Locking only the target would let two
// concurrent activations of different plans lock disjoint rows and both
// commit as active; with the whole set locked the second transaction blocks
// until the first commits.
func (s *MealPlanService) SetActiveMealPlan(ctx context.Context, userID, planID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lock := tx
		if tx.Dialector.Name() == "postgres" {
			lock = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var plans []models.MealPlan
		if err := lock.Where("user_id = ?", userID).Find(&plans).Error; err != nil {
			return translateDBError(err, "meal plan", userID.String())
		}
		owned := false
		for i := range plans {
			if plans[i].ID == planID {
				owned = true
				break
			}
		}
		if !owned {
			return notFoundErr("meal plan", planID.String())
		}

		if err := tx.Model(&models.MealPlan{}).
			Where("user_id = ? AND is_active = ? AND id <> ?", userID, true, planID).
			Update("is_active", false).Error; err != nil {
			return translateDBError(err, "meal plan", planID.String())
		}

		if err := tx.Model(&models.MealPlan{}).
			Where("id = ?", planID).
			Update("is_active", true).Error; err != nil {
			return translateDBError(err, "meal plan", planID.String())
		}
		return nil
	})
}

// GetActiveMealPlan returns the user's single active plan with items
// hydrated, or nil if none is active. Observing more than one active plan
// means the activation serialization is broken and is reported as an
// internal error rather than silently corrected.
func (s *MealPlanService) GetActiveMealPlan(ctx context.Context, userID uuid.UUID) (*models.MealPlan, error) {
	var plans []models.MealPlan
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_of_week, meal_type")
		}).
		Preload("Items.Recipe").
		Where("user_id = ? AND is_active = ?", userID, true).
		Find(&plans).Error
	if err != nil {
		return nil, translateDBError(err, "meal plan", userID.String())
	}

	switch len(plans) {
	case 0:
		return nil, nil
	case 1:
		return &plans[0], nil
	default:
		return nil, &Error{Kind: ErrInternal, Entity: "meal plan", Key: userID.String(),
			Msg: fmt.Sprintf("%d active plans observed for one user", len(plans))}
	}
}

// AssignRecipe puts a recipe into one (day, meal type) slot. The write is an
// upsert on the composite primary key so a concurrent assignment to the same
// slot resolves to last-write-wins, never a duplicate.
func (s *MealPlanService) AssignRecipe(ctx context.Context, planID, recipeID uuid.UUID, dayOfWeek int, mealType string) error {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return validationErr("meal plan item", fmt.Sprintf("day of week %d out of range [0,6]", dayOfWeek))
	}
	if !models.ValidMealType(mealType) {
		return validationErr("meal plan item", fmt.Sprintf("invalid meal type %q", mealType))
	}

	item := models.MealPlanItem{
		MealPlanID: planID,
		DayOfWeek:  dayOfWeek,
		MealType:   mealType,
		RecipeID:   recipeID,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "meal_plan_id"}, {Name: "day_of_week"}, {Name: "meal_type"},
		},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"recipe_id": recipeID,
		}),
	}).Create(&item).Error
	if err != nil {
		return translateDBError(err, "meal plan item",
			fmt.Sprintf("%s/%d/%s", planID, dayOfWeek, mealType))
	}
	return nil
}

// RemoveRecipe clears one slot. Clearing an already-empty slot is a no-op,
// not an error.
func (s *MealPlanService) RemoveRecipe(ctx context.Context, planID uuid.UUID, dayOfWeek int, mealType string) error {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return validationErr("meal plan item", fmt.Sprintf("day of week %d out of range [0,6]", dayOfWeek))
	}
	if !models.ValidMealType(mealType) {
		return validationErr("meal plan item", fmt.Sprintf("invalid meal type %q", mealType))
	}

	err := s.db.WithContext(ctx).
		Where("meal_plan_id = ? AND day_of_week = ? AND meal_type = ?", planID, dayOfWeek, mealType).
		Delete(&models.MealPlanItem{}).Error
	if err != nil {
		return translateDBError(err, "meal plan item",
			fmt.Sprintf("%s/%d/%s", planID, dayOfWeek, mealType))
	}
	return nil
}

// PersistGeneratedPlan stores a plan returned by the generation service in
// one transaction: the plan, any recipes it introduced, and the slot
// assignments. A failed generation never leaves a half-written plan behind.
func (s *MealPlanService) PersistGeneratedPlan(ctx context.Context, userID uuid.UUID, gen *GeneratedWeeklyPlan) (*models.MealPlan, error) {
	if gen == nil || len(gen.Meals) == 0 {
		return nil, validationErr("meal plan", "generated plan has no meals")
	}

	var planID uuid.UUID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plan := models.MealPlan{
			UserID:        userID,
			Name:          gen.Name,
			Description:   gen.Description,
			WeekStartDate: gen.WeekStartDate,
		}
		if err := tx.Create(&plan).Error; err != nil {
			return translateDBError(err, "meal plan", fmt.Sprintf("%s/%s", userID, gen.Name))
		}
		planID = plan.ID

		for _, meal := range gen.Meals {
			if meal.Recipe == nil {
				continue
			}
			if meal.DayOfWeek < 0 || meal.DayOfWeek > 6 || !models.ValidMealType(meal.MealType) {
				return validationErr("meal plan item",
					fmt.Sprintf("generated slot (%d, %s) invalid", meal.DayOfWeek, meal.MealType))
			}
			if err := validateIngredients(meal.Recipe.Ingredients); err != nil {
				return err
			}

			recipe := models.Recipe{
				CreatedByUserID: &userID,
				Name:            meal.Recipe.Name,
				Description:     meal.Recipe.Description,
				Ingredients:     meal.Recipe.Ingredients,
				Instructions:    meal.Recipe.Instructions,
				Nutrition:       meal.Recipe.Nutrition,
				Cuisine:         meal.Recipe.Cuisine,
				MealType:        meal.Recipe.MealType,
				PrepTime:        meal.Recipe.PrepTime,
				CookTime:        meal.Recipe.CookTime,
				Difficulty:      meal.Recipe.Difficulty,
				Tags:            dedupeTags(meal.Recipe.Tags),
			}
			if recipe.Difficulty == "" {
				recipe.Difficulty = models.DifficultyMedium
			}
			if err := tx.Create(&recipe).Error; err != nil {
				return translateDBError(err, "recipe", recipe.Name)
			}

			item := models.MealPlanItem{
				MealPlanID: plan.ID,
				DayOfWeek:  meal.DayOfWeek,
				MealType:   meal.MealType,
				RecipeID:   recipe.ID,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{
					{Name: "meal_plan_id"}, {Name: "day_of_week"}, {Name: "meal_type"},
				},
				DoUpdates: clause.Assignments(map[string]interface{}{"recipe_id": recipe.ID}),
			}).Create(&item).Error; err != nil {
				return translateDBError(err, "meal plan item",
					fmt.Sprintf("%s/%d/%s", plan.ID, meal.DayOfWeek, meal.MealType))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetMealPlan(ctx, planID)
}
