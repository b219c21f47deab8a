package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/mealplanner-v2/backend/internal/middleware"
	"github.com/pageza/mealplanner-v2/backend/internal/models"
	"github.com/pageza/mealplanner-v2/backend/internal/service"
	"github.com/pageza/mealplanner-v2/backend/internal/types"
)

type AccountHandler struct {
	accounts service.IAccountService
}

func NewAccountHandler(accounts service.IAccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

func (h *AccountHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	router.POST("/auth/register", h.Register)
	router.POST("/auth/login", h.Login)

	account := router.Group("/account", auth)
	{
		account.GET("", h.GetAccount)
		account.PUT("/preferences", h.UpdatePreferences)
		account.DELETE("", h.DeleteAccount)
	}
}

func (h *AccountHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), &req)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *AccountHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.accounts.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AccountHandler) UpdatePreferences(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var prefs models.DietaryPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accounts.UpdatePreferences(c.Request.Context(), userID, prefs)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.accounts.DeleteAccount(c.Request.Context(), userID); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
