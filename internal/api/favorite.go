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

type FavoriteHandler struct {
	favorites service.IFavoriteService
}

func NewFavoriteHandler(favorites service.IFavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

func (h *FavoriteHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	favorites := router.Group("/favorites", auth)
	{
		favorites.GET("", h.GetFavorites)
		favorites.POST("", h.AddFavorite)
		favorites.GET("/stats", h.GetFavoriteStats)
		favorites.POST("/status", h.GetFavoriteStatus)
		favorites.POST("/bulk-delete", h.BulkDelete)
		favorites.POST("/bulk-tags", h.BulkUpdateTags)
		favorites.DELETE("/:recipeId", h.RemoveFavorite)
		favorites.PUT("/:recipeId/rating", h.UpdateRating)
		favorites.PUT("/:recipeId/notes", h.UpdateNotes)
		favorites.POST("/:recipeId/use", h.IncrementUseCount)
	}

	collections := router.Group("/collections", auth)
	{
		collections.GET("", h.GetCollections)
		collections.POST("", h.CreateCollection)
		collections.DELETE("/:id", h.DeleteCollection)
		collections.GET("/:id/recipes", h.GetCollectionMeals)
		collections.PUT("/:id/recipes/:recipeId", h.AddToCollection)
		collections.DELETE("/:id/recipes/:recipeId", h.RemoveFromCollection)
	}
}

func (h *FavoriteHandler) GetFavorites(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if mealType := c.Query("meal_type"); mealType != "" {
		favorites, err := h.favorites.GetFavoritesByMealType(c.Request.Context(), userID, mealType)
		if err != nil {
			middleware.AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, favorites)
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	favorites, err := h.favorites.GetUserFavorites(c.Request.Context(), userID, limit, offset)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, favorites)
}

func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	favorite, err := h.favorites.AddFavorite(c.Request.Context(), userID, &req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, favorite)
}

func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	recipeID, ok := parseIDParam(c, "recipeId")
	if !ok {
		return
	}

	removed, err := h.favorites.RemoveFavorite(c.Request.Context(), userID, recipeID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

func (h *FavoriteHandler) UpdateRating(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	recipeID, ok := parseIDParam(c, "recipeId")
	if !ok {
		return
	}

	var req struct {
		Rating int `json:"rating" binding:"required,min=1,max=5"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.favorites.UpdateFavoriteRating(c.Request.Context(), userID, recipeID, req.Rating); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FavoriteHandler) UpdateNotes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	recipeID, ok := parseIDParam(c, "recipeId")
	if !ok {
		return
	}

	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.favorites.UpdateFavoriteNotes(c.Request.Context(), userID, recipeID, req.Notes); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FavoriteHandler) IncrementUseCount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	recipeID, ok := parseIDParam(c, "recipeId")
	if !ok {
		return
	}

	if err := h.favorites.IncrementUseCount(c.Request.Context(), userID, recipeID); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FavoriteHandler) GetFavoriteStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		RecipeIDs []uuid.UUID `json:"recipe_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := h.favorites.GetFavoriteStatusForRecipes(c.Request.Context(), userID, req.RecipeIDs)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *FavoriteHandler) GetFavoriteStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	// Stats are a pure reduction over the full favorites list.
	favorites, err := h.favorites.GetUserFavorites(c.Request.Context(), userID, 1000, 0)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	topN, _ := strconv.Atoi(c.DefaultQuery("top_n", "5"))
	c.JSON(http.StatusOK, service.ComputeFavoriteStats(favorites, topN))
}

func (h *FavoriteHandler) BulkDelete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		RecipeIDs []uuid.UUID `json:"recipe_ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.favorites.BulkDeleteFavorites(c.Request.Context(), userID, req.RecipeIDs)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *FavoriteHandler) BulkUpdateTags(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.BulkUpdateTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.favorites.BulkUpdateTags(c.Request.Context(), userID, &req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *FavoriteHandler) GetCollections(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	collections, err := h.favorites.GetCollections(c.Request.Context(), userID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, collections)
}

func (h *FavoriteHandler) CreateCollection(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection, err := h.favorites.CreateCollection(c.Request.Context(), userID, &req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, collection)
}

func (h *FavoriteHandler) DeleteCollection(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	collectionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.favorites.DeleteCollection(c.Request.Context(), userID, collectionID); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FavoriteHandler) GetCollectionMeals(c *gin.Context) {
	collectionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	recipes, err := h.favorites.GetCollectionMeals(c.Request.Context(), collectionID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *FavoriteHandler) AddToCollection(c *gin.Context) {
	collectionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	recipeID, ok := parseIDParam(c, "recipeId")
	if !ok {
		return
	}

	if err := h.favorites.AddToCollection(c.Request.Context(), collectionID, recipeID); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FavoriteHandler) RemoveFromCollection(c *gin.Context) {
	collectionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	recipeID, ok := parseIDParam(c, "recipeId")
	if !ok {
		return
	}

	if err := h.favorites.RemoveFromCollection(c.Request.Context(), collectionID, recipeID); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
