package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/mealplanner-v2/backend/internal/models"
	"github.com/pageza/mealplanner-v2/backend/internal/service"
	"github.com/pageza/mealplanner-v2/backend/internal/testhelpers"
	"github.com/pageza/mealplanner-v2/backend/internal/types"
)

func TestRegisterAndLogin(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAccountService(db, "test-secret")
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret-pass",
		Name:     "Alice",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	token, got, err := svc.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, got.ID)

	_, _, err = svc.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestRegister_DuplicateConflicts(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAccountService(db, "test-secret")
	ctx := context.Background()

	req := &types.RegisterRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "password1",
	}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestValidateToken(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAccountService(db, "test-secret")
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.RegisterRequest{
		Username: "carol",
		Email:    "carol@example.com",
		Password: "password1",
	})
	require.NoError(t, err)

	token, _, err := svc.Login(ctx, "carol@example.com", "password1")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "carol", claims.Username)

	_, err = svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, service.ErrInvalidToken)

	// A token signed with a different secret is rejected.
	other := service.NewAccountService(db, "other-secret")
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestUpdatePreferences(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAccountService(db, "test-secret")
	user := testhelpers.CreateTestUser(t, db)
	ctx := context.Background()

	target := 2200
	updated, err := svc.UpdatePreferences(ctx, user.ID, models.DietaryPreferences{
		DietType:      "vegetarian",
		Allergies:     []string{"peanuts"},
		CalorieTarget: &target,
	})
	require.NoError(t, err)
	assert.Equal(t, "vegetarian", updated.Preferences.DietType)
	assert.Equal(t, []string{"peanuts"}, updated.Preferences.Allergies)
	require.NotNil(t, updated.Preferences.CalorieTarget)
	assert.Equal(t, 2200, *updated.Preferences.CalorieTarget)

	_, err = svc.UpdatePreferences(ctx, newUUID(), models.DietaryPreferences{})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDeleteAccount_CascadesButKeepsRecipes(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	accounts := service.NewAccountService(db, "test-secret")
	plans := service.NewMealPlanService(db)
	favorites := service.NewFavoriteService(db, service.NewFavoritesCache(nil))
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db)
	recipe := testhelpers.CreateTestRecipe(t, db, &user.ID, "Authored", models.MealTypeDinner)
	plan := testhelpers.CreateTestMealPlan(t, db, user.ID, "Week")
	require.NoError(t, plans.AssignRecipe(ctx, plan.ID, recipe.ID, 0, models.MealTypeDinner))
	_, err := favorites.AddFavorite(ctx, user.ID, &types.AddFavoriteRequest{RecipeID: recipe.ID})
	require.NoError(t, err)
	collection, err := favorites.CreateCollection(ctx, user.ID, &types.CreateCollectionRequest{Name: "Mine"})
	require.NoError(t, err)
	require.NoError(t, favorites.AddToCollection(ctx, collection.ID, recipe.ID))

	require.NoError(t, accounts.DeleteAccount(ctx, user.ID))

	for model, label := range map[interface{}]string{
		&models.MealPlan{}:   "meal plans",
		&models.Favorite{}:   "favorites",
		&models.Collection{}: "collections",
	} {
		var count int64
		db.Model(model).Where("user_id = ?", user.ID).Count(&count)
		assert.Zero(t, count, label)
	}

	var itemCount, joinCount int64
	db.Model(&models.MealPlanItem{}).Where("meal_plan_id = ?", plan.ID).Count(&itemCount)
	db.Model(&models.CollectionRecipe{}).Where("collection_id = ?", collection.ID).Count(&joinCount)
	assert.Zero(t, itemCount)
	assert.Zero(t, joinCount)

	// Authored recipes survive with the creator reference nulled.
	var kept models.Recipe
	require.NoError(t, db.First(&kept, "id = ?", recipe.ID).Error)
	assert.Nil(t, kept.CreatedByUserID)

	_, err = accounts.GetUserByID(ctx, user.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	assert.ErrorIs(t, accounts.DeleteAccount(ctx, user.ID), service.ErrNotFound)
}
