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

func validCreateRequest(name string) *types.CreateRecipeRequest {
	return &types.CreateRecipeRequest{
		Name: name,
		Ingredients: []models.Ingredient{
			{Name: "flour", Amount: 2, Unit: "cup"},
			{Name: "water", Amount: 1, Unit: "cup"},
		},
		Instructions: "Mix and bake.",
		MealType:     models.MealTypeDinner,
		PrepTime:     15,
		CookTime:     30,
		Tags:         []string{"Baked", "baked", " comfort "},
	}
}

func TestCreateRecipe(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db, nil)
	user := testhelpers.CreateTestUser(t, db)

	recipe, err := svc.CreateRecipe(context.Background(), &user.ID, validCreateRequest("Bread"))
	require.NoError(t, err)

	assert.Equal(t, "Bread", recipe.Name)
	assert.Equal(t, models.DifficultyMedium, recipe.Difficulty)
	assert.Equal(t, 45, recipe.TotalTime)
	assert.Zero(t, recipe.AvgRating)
	assert.Zero(t, recipe.RatingCount)
	assert.Equal(t, models.JSONBStringArray{"baked", "comfort"}, recipe.Tags)
	require.NotNil(t, recipe.CreatedByUserID)
	assert.Equal(t, user.ID, *recipe.CreatedByUserID)
}

func TestCreateRecipe_Validation(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db, nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*types.CreateRecipeRequest)
	}{
		{"empty ingredients", func(r *types.CreateRecipeRequest) { r.Ingredients = nil }},
		{"blank ingredient name", func(r *types.CreateRecipeRequest) { r.Ingredients[0].Name = " " }},
		{"zero amount", func(r *types.CreateRecipeRequest) { r.Ingredients[0].Amount = 0 }},
		{"bad meal type", func(r *types.CreateRecipeRequest) { r.MealType = "brunch" }},
		{"bad difficulty", func(r *types.CreateRecipeRequest) { r.Difficulty = "impossible" }},
		{"negative prep time", func(r *types.CreateRecipeRequest) { r.PrepTime = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest("Invalid")
			tt.mutate(req)
			_, err := svc.CreateRecipe(ctx, nil, req)
			assert.ErrorIs(t, err, service.ErrValidation)
		})
	}
}

func TestUpdateRecipe_PartialAndTotalTime(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db, nil)
	ctx := context.Background()

	recipe, err := svc.CreateRecipe(ctx, nil, validCreateRequest("Stew"))
	require.NoError(t, err)
	require.Equal(t, 45, recipe.TotalTime)

	updated, err := svc.UpdateRecipe(ctx, recipe.ID, &types.UpdateRecipeRequest{
		CookTime: intPtr(60),
	})
	require.NoError(t, err)
	assert.Equal(t, 75, updated.TotalTime)
	assert.Equal(t, "Stew", updated.Name)

	_, err = svc.UpdateRecipe(ctx, recipe.ID, &types.UpdateRecipeRequest{CookTime: intPtr(-5)})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.UpdateRecipe(ctx, newUUID(), &types.UpdateRecipeRequest{Name: strPtr("x")})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestRateRecipe_Aggregates(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db, nil)
	ctx := context.Background()

	recipe, err := svc.CreateRecipe(ctx, nil, validCreateRequest("Pie"))
	require.NoError(t, err)

	rated, err := svc.RateRecipe(ctx, recipe.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, rated.RatingCount)
	assert.InDelta(t, 5.0, rated.AvgRating, 0.001)

	rated, err = svc.RateRecipe(ctx, recipe.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, rated.RatingCount)
	assert.InDelta(t, 4.0, rated.AvgRating, 0.001)

	_, err = svc.RateRecipe(ctx, recipe.ID, 0)
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.RateRecipe(ctx, newUUID(), 4)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDeleteRecipe_ConflictWhenAssigned(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	recipes := service.NewRecipeService(db, nil)
	plans := service.NewMealPlanService(db)
	user := testhelpers.CreateTestUser(t, db)
	ctx := context.Background()

	recipe, err := recipes.CreateRecipe(ctx, &user.ID, validCreateRequest("Planned"))
	require.NoError(t, err)
	plan := testhelpers.CreateTestMealPlan(t, db, user.ID, "Week A")
	require.NoError(t, plans.AssignRecipe(ctx, plan.ID, recipe.ID, 1, models.MealTypeDinner))

	err = recipes.DeleteRecipe(ctx, recipe.ID, false)
	require.ErrorIs(t, err, service.ErrConflict)
	// The conflict names the referencing plan so the caller can confirm.
	assert.Contains(t, err.Error(), "Week A")

	// Forced delete clears the plan slot too.
	require.NoError(t, recipes.DeleteRecipe(ctx, recipe.ID, true))

	var items int64
	db.Model(&models.MealPlanItem{}).Where("recipe_id = ?", recipe.ID).Count(&items)
	assert.Zero(t, items)

	_, err = recipes.GetRecipe(ctx, recipe.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDeleteRecipe_CleansFavoritesAndCollections(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	recipes := service.NewRecipeService(db, nil)
	favorites := service.NewFavoriteService(db, service.NewFavoritesCache(nil))
	user := testhelpers.CreateTestUser(t, db)
	ctx := context.Background()

	recipe, err := recipes.CreateRecipe(ctx, &user.ID, validCreateRequest("Everywhere"))
	require.NoError(t, err)

	_, err = favorites.AddFavorite(ctx, user.ID, &types.AddFavoriteRequest{RecipeID: recipe.ID})
	require.NoError(t, err)
	collection, err := favorites.CreateCollection(ctx, user.ID, &types.CreateCollectionRequest{Name: "Box"})
	require.NoError(t, err)
	require.NoError(t, favorites.AddToCollection(ctx, collection.ID, recipe.ID))

	require.NoError(t, recipes.DeleteRecipe(ctx, recipe.ID, false))

	var favCount, joinCount int64
	db.Model(&models.Favorite{}).Where("recipe_id = ?", recipe.ID).Count(&favCount)
	db.Model(&models.CollectionRecipe{}).Where("recipe_id = ?", recipe.ID).Count(&joinCount)
	assert.Zero(t, favCount)
	assert.Zero(t, joinCount)
}

func TestSearchRecipes_Filters(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db, nil)
	ctx := context.Background()

	mk := func(name, cuisine, mealType, difficulty string, tags []string) {
		req := validCreateRequest(name)
		req.Cuisine = cuisine
		req.MealType = mealType
		req.Difficulty = difficulty
		req.Tags = tags
		_, err := svc.CreateRecipe(ctx, nil, req)
		require.NoError(t, err)
	}
	mk("Miso Soup", "japanese", models.MealTypeLunch, models.DifficultyEasy, []string{"soup"})
	mk("Ramen Bowl", "japanese", models.MealTypeDinner, models.DifficultyMedium, []string{"soup", "noodles"})
	mk("Apple Pie", "american", models.MealTypeSnack, models.DifficultyHard, []string{"dessert"})

	res, err := svc.SearchRecipes(ctx, &types.RecipeSearchRequest{Cuisine: "japanese"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)
	assert.Len(t, res.Recipes, 2)

	res, err = svc.SearchRecipes(ctx, &types.RecipeSearchRequest{Tags: []string{"noodles"}})
	require.NoError(t, err)
	require.Len(t, res.Recipes, 1)
	assert.Equal(t, "Ramen Bowl", res.Recipes[0].Name)

	res, err = svc.SearchRecipes(ctx, &types.RecipeSearchRequest{Query: "pie"})
	require.NoError(t, err)
	require.Len(t, res.Recipes, 1)
	assert.Equal(t, "Apple Pie", res.Recipes[0].Name)

	res, err = svc.SearchRecipes(ctx, &types.RecipeSearchRequest{
		MealType:   models.MealTypeDinner,
		Difficulty: models.DifficultyMedium,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Total)

	_, err = svc.SearchRecipes(ctx, &types.RecipeSearchRequest{MealType: "brunch"})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.SearchRecipes(ctx, &types.RecipeSearchRequest{Offset: -1})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestSearchRecipes_RatingOrderAndPaging(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db, nil)
	ctx := context.Background()

	low, err := svc.CreateRecipe(ctx, nil, validCreateRequest("Low"))
	require.NoError(t, err)
	high, err := svc.CreateRecipe(ctx, nil, validCreateRequest("High"))
	require.NoError(t, err)

	_, err = svc.RateRecipe(ctx, low.ID, 2)
	require.NoError(t, err)
	_, err = svc.RateRecipe(ctx, high.ID, 5)
	require.NoError(t, err)

	res, err := svc.SearchRecipes(ctx, &types.RecipeSearchRequest{OrderBy: "rating"})
	require.NoError(t, err)
	require.Len(t, res.Recipes, 2)
	assert.Equal(t, "High", res.Recipes[0].Name)

	page, err := svc.SearchRecipes(ctx, &types.RecipeSearchRequest{OrderBy: "rating", Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	require.Len(t, page.Recipes, 1)
	assert.Equal(t, "Low", page.Recipes[0].Name)
}
