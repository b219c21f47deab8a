package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pageza/mealplanner-v2/backend/internal/models"
	"github.com/pageza/mealplanner-v2/backend/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// AccountService handles registration, login and account lifecycle
type AccountService struct {
	db        *gorm.DB
	jwtSecret string
}

// Ensure AccountService implements IAccountService
var _ IAccountService = (*AccountService)(nil)

// NewAccountService creates a new AccountService instance
func NewAccountService(db *gorm.DB, jwtSecret string) *AccountService {
	return &AccountService{
		db:        db,
		jwtSecret: jwtSecret,
	}
}

// Register creates a user with a bcrypt-hashed password. Username and email
// are unique; violations surface as conflicts.
func (s *AccountService) Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Name:         req.Name,
		Preferences:  req.Preferences,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, translateDBError(err, "user", req.Username)
	}
	return &user, nil
}

// Login checks the credentials and returns a signed token plus the user.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(&user)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

func (s *AccountService) generateToken(user *models.User) (string, error) {
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   user.ID.String(),
		},
		UserID:   user.ID,
		Username: user.Username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses and verifies a bearer token.
func (s *AccountService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &types.TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*types.TokenClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GetUserByID retrieves a user by ID
func (s *AccountService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translateDBError(err, "user", id.String())
	}
	return &user, nil
}

// UpdatePreferences replaces the user's dietary preference document.
func (s *AccountService) UpdatePreferences(ctx context.Context, id uuid.UUID, prefs models.DietaryPreferences) (*models.User, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("preferences", prefs)
	if res.Error != nil {
		return nil, translateDBError(res.Error, "user", id.String())
	}
	if res.RowsAffected == 0 {
		return nil, notFoundErr("user", id.String())
	}
	return s.GetUserByID(ctx, id)
}

// DeleteAccount removes a user and everything they own in one transaction:
// meal plan items, meal plans, favorites, collection joins, collections, the
// user row, and nulls the creator reference on recipes they authored so the
// shared catalog keeps them.
func (s *AccountService) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			return translateDBError(err, "user", id.String())
		}

		if err := tx.Where("meal_plan_id IN (?)",
			tx.Model(&models.MealPlan{}).Select("id").Where("user_id = ?", id),
		).Delete(&models.MealPlanItem{}).Error; err != nil {
			return translateDBError(err, "meal plan item", id.String())
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.MealPlan{}).Error; err != nil {
			return translateDBError(err, "meal plan", id.String())
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return translateDBError(err, "favorite", id.String())
		}
		if err := tx.Where("collection_id IN (?)",
			tx.Model(&models.Collection{}).Select("id").Where("user_id = ?", id),
		).Delete(&models.CollectionRecipe{}).Error; err != nil {
			return translateDBError(err, "collection recipe", id.String())
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Collection{}).Error; err != nil {
			return translateDBError(err, "collection", id.String())
		}

		// Weak reference: authored recipes survive with a nulled creator.
		if err := tx.Model(&models.Recipe{}).
			Where("created_by_user_id = ?", id).
			Update("created_by_user_id", nil).Error; err != nil {
			return translateDBError(err, "recipe", id.String())
		}

		if err := tx.Delete(&models.User{}, "id = ?", id).Error; err != nil {
			return translateDBError(err, "user", id.String())
		}
		return nil
	})
}
