package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/mealplanner-v2/backend/internal/models"
	"github.com/pageza/mealplanner-v2/backend/internal/service"
	"github.com/pageza/mealplanner-v2/backend/internal/testhelpers"
	"github.com/pageza/mealplanner-v2/backend/internal/types"
)

func newFavoriteService(t *testing.T) (*service.FavoriteService, *testFixture) {
	t.Helper()
	db := testhelpers.SetupTestDB(t)
	user := testhelpers.CreateTestUser(t, db)
	return service.NewFavoriteService(db, service.NewFavoritesCache(nil)), &testFixture{db: db, user: user}
}

func TestAddFavorite_UpsertsInPlace(t *testing.T) {
	svc, fx := newFavoriteService(t)
	recipe := testhelpers.CreateTestRecipe(t, fx.db, &fx.user.ID, "Curry", models.MealTypeDinner)
	ctx := context.Background()

	fav, err := svc.AddFavorite(ctx, fx.user.ID, &types.AddFavoriteRequest{
		RecipeID: recipe.ID,
		Rating:   intPtr(4),
		Notes:    "good",
	})
	require.NoError(t, err)
	require.NotNil(t, fav.PersonalRating)
	assert.Equal(t, 4, *fav.PersonalRating)

	// Re-favoriting updates rating and notes, never duplicates.
	fav, err = svc.AddFavorite(ctx, fx.user.ID, &types.AddFavoriteRequest{
		RecipeID: recipe.ID,
		Rating:   intPtr(5),
		Notes:    "great",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, *fav.PersonalRating)
	assert.Equal(t, "great", fav.PersonalNotes)

	var count int64
	fx.db.Model(&models.Favorite{}).Where("user_id = ?", fx.user.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestAddFavorite_InvalidRating(t *testing.T) {
	svc, fx := newFavoriteService(t)
	recipe := testhelpers.CreateTestRecipe(t, fx.db, &fx.user.ID, "Stew", models.MealTypeDinner)

	_, err := svc.AddFavorite(context.Background(), fx.user.ID, &types.AddFavoriteRequest{
		RecipeID: recipe.ID,
		Rating:   intPtr(6),
	})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestRemoveFavorite_Idempotent(t *testing.T) {
	svc, fx := newFavoriteService(t)
	recipe := testhelpers.CreateTestRecipe(t, fx.db, &fx.user.ID, "Pasta", models.MealTypeDinner)
	ctx := context.Background()

	_, err := svc.AddFavorite(ctx, fx.user.ID, &types.AddFavoriteRequest{RecipeID: recipe.ID})
	require.NoError(t, err)

	removed, err := svc.RemoveFavorite(ctx, fx.user.ID, recipe.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.RemoveFavorite(ctx, fx.user.ID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestUpdateFavoriteRating(t *testing.T) {
	svc, fx := newFavoriteService(t)
	recipe := testhelpers.CreateTestRecipe(t, fx.db, &fx.user.ID, "Tacos", models.MealTypeDinner)
	ctx := context.Background()

	err := svc.UpdateFavoriteRating(ctx, fx.user.ID, recipe.ID, 3)
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = svc.AddFavorite(ctx, fx.user.ID, &types.AddFavoriteRequest{RecipeID: recipe.ID})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.UpdateFavoriteRating(ctx, fx.user.ID, recipe.ID, 0), service.ErrValidation)
	require.NoError(t, svc.UpdateFavoriteRating(ctx, fx.user.ID, recipe.ID, 3))
	require.NoError(t, svc.UpdateFavoriteNotes(ctx, fx.user.ID, recipe.ID, "weeknight staple"))

	var fav models.Favorite
	require.NoError(t, fx.db.First(&fav, "user_id = ? AND recipe_id = ?", fx.user.ID, recipe.ID).Error)
	require.NotNil(t, fav.PersonalRating)
	assert.Equal(t, 3, *fav.PersonalRating)
	assert.Equal(t, "weeknight staple", fav.PersonalNotes)
}

func TestIncrementUseCount(t *testing.T) {
	svc, fx := newFavoriteService(t)
	recipe := testhelpers.CreateTestRecipe(t, fx.db, &fx.user.ID, "Ramen", models.MealTypeDinner)
	ctx := context.Background()

	assert.ErrorIs(t, svc.IncrementUseCount(ctx, fx.user.ID, recipe.ID), service.ErrNotFound)

	_, err := svc.AddFavorite(ctx, fx.user.ID, &types.AddFavoriteRequest{RecipeID: recipe.ID})
	require.NoError(t, err)

	require.NoError(t, svc.IncrementUseCount(ctx, fx.user.ID, recipe.ID))
	require.NoError(t, svc.IncrementUseCount(ctx, fx.user.ID, recipe.ID))

	var fav models.Favorite
	require.NoError(t, fx.db.First(&fav, "user_id = ? AND recipe_id = ?", fx.user.ID, recipe.ID).Error)
	assert.Equal(t, 2, fav.UseCount)
	assert.NotNil(t, fav.LastUsedAt)
}

func TestGetUserFavorites_HydratesRecipes(t *testing.T) {
	svc, fx := newFavoriteService(t)
	ctx := context.Background()

	for _, name := range []string{"One", "Two", "Three"} {
		recipe := testhelpers.CreateTestRecipe(t, fx.db, &fx.user.ID, name, models.MealTypeLunch)
		_, err := svc.AddFavorite(ctx, fx.user.ID, &types.AddFavoriteRequest{RecipeID: recipe.ID})
		require.NoError(t, err)
	}

	favorites, err := svc.GetUserFavorites(ctx, fx.user.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, favorites, 3)
	for _, fav := range favorites {
		require.NotNil(t, fav.Recipe)
		assert.NotEmpty(t, fav.Recipe.Name)
	}

	page, err := svc.GetUserFavorites(ctx, fx.user.ID, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)
}

func TestGetFavoritesByMealType(t *testing.T) {
	svc, fx := newFavoriteService(t)
	ctx := context.Background()

	breakfast := testhelpers.CreateTestRecipe(t, fx.db, &fx.user.ID, "Eggs", models.MealTypeBreakfast)
	dinner := testhelpers.CreateTestRecipe(t, fx.db, &fx.user.ID, "Roast", models.MealTypeDinner)
	for _, r := range []uuid.UUID{breakfast.ID, dinner.ID} {
		_, err := svc.AddFavorite(ctx, fx.user.ID, &types.AddFavoriteRequest{RecipeID: r})
		require.NoError(t, err)
	}

	got, err := svc.GetFavoritesByMealType(ctx, fx.user.ID, models.MealTypeBreakfast)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, breakfast.ID, got[0].RecipeID)

	_, err = svc.GetFavoritesByMealType(ctx, fx.user.ID, "brunch")
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestGetFavoriteStatusForRecipes(t *testing.T) {
	svc, fx := newFavoriteService(t)
	ctx := context.Background()

	faved := testhelpers.CreateTestRecipe(t, fx.db, &fx.user.ID, "Faved", models.MealTypeLunch)
	plain := testhelpers.CreateTestRecipe(t, fx.db, &fx.user.ID, "Plain", models.MealTypeLunch)
	_, err := svc.AddFavorite(ctx, fx.user.ID, &types.AddFavoriteRequest{RecipeID: faved.ID})
	require.NoError(t, err)

	status, err := svc.GetFavoriteStatusForRecipes(ctx, fx.user.ID, []uuid.UUID{faved.ID, plain.ID})
	require.NoError(t, err)
	assert.True(t, status[faved.ID])
	assert.False(t, status[plain.ID])

	empty, err := svc.GetFavoriteStatusForRecipes(ctx, fx.user.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestBulkDeleteFavorites_BestEffort(t *testing.T) {
	svc, fx := newFavoriteService(t)
	ctx := context.Background()

	recipe := testhelpers.CreateTestRecipe(t, fx.db, &fx.user.ID, "Kept", models.MealTypeLunch)
	_, err := svc.AddFavorite(ctx, fx.user.ID, &types.AddFavoriteRequest{RecipeID: recipe.ID})
	require.NoError(t, err)

	missing := newUUID()
	result, err := svc.BulkDeleteFavorites(ctx, fx.user.ID, []uuid.UUID{recipe.ID, missing})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{recipe.ID}, result.Succeeded)
	assert.Contains(t, result.Failed, missing.String())
}

func TestBulkUpdateTags(t *testing.T) {
	svc, fx := newFavoriteService(t)
	ctx := context.Background()

	recipe := testhelpers.CreateTestRecipe(t, fx.db, &fx.user.ID, "Tagged", models.MealTypeLunch)
	require.NoError(t, fx.db.Model(recipe).Update("tags", models.JSONBStringArray{"old"}).Error)
	_, err := svc.AddFavorite(ctx, fx.user.ID, &types.AddFavoriteRequest{RecipeID: recipe.ID})
	require.NoError(t, err)

	notFavorited := testhelpers.CreateTestRecipe(t, fx.db, &fx.user.ID, "Untouched", models.MealTypeLunch)

	// Append mode keeps existing tags.
	result, err := svc.BulkUpdateTags(ctx, fx.user.ID, &types.BulkUpdateTagsRequest{
		RecipeIDs: []uuid.UUID{recipe.ID, notFavorited.ID},
		Tags:      []string{"New"},
	})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{recipe.ID}, result.Succeeded)
	assert.Contains(t, result.Failed, notFavorited.ID.String())

	var got models.Recipe
	require.NoError(t, fx.db.First(&got, "id = ?", recipe.ID).Error)
	assert.Equal(t, models.JSONBStringArray{"old", "new"}, got.Tags)

	// Replace mode discards existing tags.
	_, err = svc.BulkUpdateTags(ctx, fx.user.ID, &types.BulkUpdateTagsRequest{
		RecipeIDs: []uuid.UUID{recipe.ID},
		Tags:      []string{"only"},
		Replace:   true,
	})
	require.NoError(t, err)
	require.NoError(t, fx.db.First(&got, "id = ?", recipe.ID).Error)
	assert.Equal(t, models.JSONBStringArray{"only"}, got.Tags)
}

func TestCollections(t *testing.T) {
	svc, fx := newFavoriteService(t)
	ctx := context.Background()

	collection, err := svc.CreateCollection(ctx, fx.user.ID, &types.CreateCollectionRequest{
		Name: "Weeknight",
		Tags: []string{"Fast", "fast"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.JSONBStringArray{"fast"}, collection.Tags)

	// Duplicate name for the same owner conflicts.
	_, err = svc.CreateCollection(ctx, fx.user.ID, &types.CreateCollectionRequest{Name: "Weeknight"})
	assert.ErrorIs(t, err, service.ErrConflict)

	first := testhelpers.CreateTestRecipe(t, fx.db, &fx.user.ID, "First", models.MealTypeDinner)
	second := testhelpers.CreateTestRecipe(t, fx.db, &fx.user.ID, "Second", models.MealTypeDinner)

	require.NoError(t, svc.AddToCollection(ctx, collection.ID, first.ID))
	require.NoError(t, svc.AddToCollection(ctx, collection.ID, second.ID))
	// Re-adding is a no-op, not an error.
	require.NoError(t, svc.AddToCollection(ctx, collection.ID, first.ID))

	recipes, err := svc.GetCollectionMeals(ctx, collection.ID)
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, "First", recipes[0].Name)

	require.NoError(t, svc.RemoveFromCollection(ctx, collection.ID, first.ID))
	require.NoError(t, svc.RemoveFromCollection(ctx, collection.ID, first.ID))

	recipes, err = svc.GetCollectionMeals(ctx, collection.ID)
	require.NoError(t, err)
	assert.Len(t, recipes, 1)
}

func TestDeleteCollection_OwnershipAndCascade(t *testing.T) {
	svc, fx := newFavoriteService(t)
	other := testhelpers.CreateTestUser(t, fx.db)
	ctx := context.Background()

	collection, err := svc.CreateCollection(ctx, fx.user.ID, &types.CreateCollectionRequest{Name: "Mine"})
	require.NoError(t, err)
	recipe := testhelpers.CreateTestRecipe(t, fx.db, &fx.user.ID, "Member", models.MealTypeDinner)
	require.NoError(t, svc.AddToCollection(ctx, collection.ID, recipe.ID))

	assert.ErrorIs(t, svc.DeleteCollection(ctx, other.ID, collection.ID), service.ErrNotFound)

	require.NoError(t, svc.DeleteCollection(ctx, fx.user.ID, collection.ID))

	var joins int64
	fx.db.Model(&models.CollectionRecipe{}).Where("collection_id = ?", collection.ID).Count(&joins)
	assert.Zero(t, joins)

	_, err = svc.GetCollectionMeals(ctx, collection.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
