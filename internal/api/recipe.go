package api

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pageza/mealplanner-v2/backend/internal/middleware"
	"github.com/pageza/mealplanner-v2/backend/internal/service"
	"github.com/pageza/mealplanner-v2/backend/internal/types"
)

type RecipeHandler struct {
	recipes service.IRecipeService
	images  *service.ImageService
}

// NewRecipeHandler creates the recipe routes. images may be nil when no S3
// credentials are configured; the image endpoints then answer 503.
func NewRecipeHandler(recipes service.IRecipeService, images *service.ImageService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, images: images}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.SearchRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.GET("/:id/image", h.GetRecipeImage)
		recipes.POST("", auth, h.CreateRecipe)
		recipes.PUT("/:id", auth, h.UpdateRecipe)
		recipes.DELETE("/:id", auth, h.DeleteRecipe)
		recipes.POST("/:id/rating", auth, h.RateRecipe)
		recipes.POST("/:id/image", auth, h.UploadRecipeImage)
	}
}

func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	req := types.RecipeSearchRequest{
		Query:      c.Query("q"),
		Cuisine:    c.Query("cuisine"),
		MealType:   c.Query("meal_type"),
		Difficulty: c.Query("difficulty"),
		OrderBy:    c.Query("order_by"),
	}
	if tags := c.Query("tags"); tags != "" {
		req.Tags = strings.Split(tags, ",")
	}
	req.Limit, _ = strconv.Atoi(c.Query("limit"))
	req.Offset, _ = strconv.Atoi(c.Query("offset"))

	result, err := h.recipes.SearchRecipes(c.Request.Context(), &req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), &userID, &req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), id, &req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	force := c.Query("remove_from_meal_plans") == "true"

	if err := h.recipes.DeleteRecipe(c.Request.Context(), id, force); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) UploadRecipeImage(c *gin.Context) {
	if h.images == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage not configured"})
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key, err := h.images.UploadRecipeImage(c.Request.Context(), id, data, file.Header.Get("Content-Type"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), id, &types.UpdateRecipeRequest{ImageURL: &key})
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) GetRecipeImage(c *gin.Context) {
	if h.images == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage not configured"})
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	if recipe.ImageURL == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe has no image"})
		return
	}

	url, err := h.images.ImageURL(c.Request.Context(), recipe.ImageURL)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *RecipeHandler) RateRecipe(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
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

	recipe, err := h.recipes.RateRecipe(c.Request.Context(), id, req.Rating)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}
