package service_test

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/mealplanner-v2/backend/internal/models"
)

type testFixture struct {
	db   *gorm.DB
	user *models.User
}

func newUUID() uuid.UUID { return uuid.New() }

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }
