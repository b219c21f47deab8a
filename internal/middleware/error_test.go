package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pageza/mealplanner-v2/backend/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestStatusForError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{&service.Error{Kind: service.ErrNotFound, Entity: "recipe"}, http.StatusNotFound},
		{&service.Error{Kind: service.ErrConflict, Entity: "meal plan"}, http.StatusConflict},
		{&service.Error{Kind: service.ErrValidation, Entity: "favorite"}, http.StatusBadRequest},
		{&service.Error{Kind: service.ErrTransient, Entity: "recipe"}, http.StatusServiceUnavailable},
		{&service.Error{Kind: service.ErrInternal, Entity: "meal plan"}, http.StatusInternalServerError},
		{fmt.Errorf("plain error"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, StatusForError(tc.err), "error: %v", tc.err)
	}
}

func TestErrorHandlerRecoversPanic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rr.Body.String())
}
