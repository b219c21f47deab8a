package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/mealplanner-v2/backend/internal/service"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusForError maps the service error taxonomy onto HTTP status codes.
// Callers outside the taxonomy get a 500.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrTransient):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// AbortWithError writes the JSON error response for a service error.
func AbortWithError(c *gin.Context, err error) {
	status := StatusForError(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.AbortWithStatusJSON(status, ErrorResponse{Error: "Internal Server Error"})
		return
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error()})
}

// ErrorHandler recovers panics into a JSON 500 so handlers never leak stack
// traces to clients.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("panic on %s %s: %v", c.Request.Method, c.Request.URL.Path, r)
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					ErrorResponse{Error: "Internal Server Error"})
			}
		}()
		c.Next()
	}
}
