package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pageza/mealplanner-v2/backend/internal/middleware"
	"github.com/pageza/mealplanner-v2/backend/internal/service"
	"github.com/pageza/mealplanner-v2/backend/internal/types"
)

type MealPlanHandler struct {
	plans service.IMealPlanService
}

func NewMealPlanHandler(plans service.IMealPlanService) *MealPlanHandler {
	return &MealPlanHandler{plans: plans}
}

func (h *MealPlanHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	plans := router.Group("/meal-plans", auth)
	{
		plans.GET("", h.ListMealPlans)
		plans.POST("", h.CreateMealPlan)
		plans.GET("/active", h.GetActiveMealPlan)
		plans.GET("/:id", h.GetMealPlan)
		plans.PUT("/:id", h.UpdateMealPlan)
		plans.DELETE("/:id", h.DeleteMealPlan)
		plans.POST("/:id/activate", h.ActivateMealPlan)
		plans.PUT("/:id/items", h.AssignRecipe)
		plans.DELETE("/:id/items", h.RemoveRecipe)
	}
}

func (h *MealPlanHandler) ListMealPlans(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	filters := types.MealPlanFilters{}
	if active := c.Query("is_active"); active != "" {
		isActive := active == "true"
		filters.IsActive = &isActive
	}
	filters.Limit, _ = strconv.Atoi(c.Query("limit"))
	filters.Offset, _ = strconv.Atoi(c.Query("offset"))

	plans, err := h.plans.ListMealPlans(c.Request.Context(), userID, &filters)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

func (h *MealPlanHandler) CreateMealPlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.CreateMealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.plans.CreateMealPlan(c.Request.Context(), userID, &req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *MealPlanHandler) GetActiveMealPlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	plan, err := h.plans.GetActiveMealPlan(c.Request.Context(), userID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	if plan == nil {
		c.JSON(http.StatusOK, gin.H{"active_plan": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"active_plan": plan})
}

// ownedPlan resolves the plan and hides other users' plans behind a 404.
func (h *MealPlanHandler) ownedPlan(c *gin.Context, userID, planID uuid.UUID) bool {
	plan, err := h.plans.GetMealPlan(c.Request.Context(), planID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return false
	}
	if plan.UserID != userID {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "meal plan not found"})
		return false
	}
	return true
}

func (h *MealPlanHandler) GetMealPlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	plan, err := h.plans.GetMealPlan(c.Request.Context(), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	if plan.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "meal plan not found"})
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *MealPlanHandler) UpdateMealPlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !h.ownedPlan(c, userID, id) {
		return
	}

	var req types.UpdateMealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.plans.UpdateMealPlan(c.Request.Context(), id, &req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *MealPlanHandler) DeleteMealPlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !h.ownedPlan(c, userID, id) {
		return
	}

	if err := h.plans.DeleteMealPlan(c.Request.Context(), id); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MealPlanHandler) ActivateMealPlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.plans.SetActiveMealPlan(c.Request.Context(), userID, id); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MealPlanHandler) AssignRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !h.ownedPlan(c, userID, id) {
		return
	}

	var req types.AssignRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.plans.AssignRecipe(c.Request.Context(), id, req.RecipeID, req.DayOfWeek, req.MealType); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MealPlanHandler) RemoveRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if !h.ownedPlan(c, userID, id) {
		return
	}

	dayOfWeek, err := strconv.Atoi(c.Query("day_of_week"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid day_of_week"})
		return
	}
	mealType := c.Query("meal_type")

	if err := h.plans.RemoveRecipe(c.Request.Context(), id, dayOfWeek, mealType); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
