package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pageza/mealplanner-v2/backend/internal/models"
)

// RegisterValidators installs the enum validators used by request binding
// tags (mealtype, difficulty) on gin's validator engine.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("mealtype", func(fl validator.FieldLevel) bool {
			return models.ValidMealType(fl.Field().String())
		})
		_ = v.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
			return models.ValidDifficulty(fl.Field().String())
		})
	}
}

// currentUserID pulls the authenticated user out of the request context. The
// auth middleware guarantees it is present on protected routes.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		c.Abort()
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		c.Abort()
		return uuid.Nil, false
	}
	return userID, true
}

// parseIDParam parses a uuid path parameter, writing a 400 on failure.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
