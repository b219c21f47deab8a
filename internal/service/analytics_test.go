package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/mealplanner-v2/backend/internal/models"
	"github.com/pageza/mealplanner-v2/backend/internal/service"
)

func favWithRecipe(rating *int, recipe *models.Recipe) models.Favorite {
	return models.Favorite{PersonalRating: rating, Recipe: recipe}
}

func TestComputeFavoriteStats(t *testing.T) {
	favorites := []models.Favorite{
		favWithRecipe(intPtr(5), &models.Recipe{
			Cuisine:   "Italian",
			MealType:  models.MealTypeDinner,
			TotalTime: 25,
			Ingredients: models.IngredientList{
				{Name: "2 cloves garlic", Amount: 2, Unit: "clove"},
				{Name: "pasta", Amount: 200, Unit: "g"},
			},
		}),
		favWithRecipe(intPtr(3), &models.Recipe{
			Cuisine:   "italian",
			MealType:  models.MealTypeDinner,
			TotalTime: 70,
			Ingredients: models.IngredientList{
				{Name: "4 cloves garlic", Amount: 4, Unit: "clove"},
			},
		}),
		favWithRecipe(nil, &models.Recipe{
			Cuisine:   "mexican",
			MealType:  models.MealTypeLunch,
			TotalTime: 10,
			Ingredients: models.IngredientList{
				{Name: "beans", Amount: 1, Unit: "cup"},
			},
		}),
	}

	stats := service.ComputeFavoriteStats(favorites, 5)

	assert.Equal(t, 3, stats.TotalFavorites)
	// Only rated favorites enter the average.
	assert.InDelta(t, 4.0, stats.AverageRating, 0.001)

	require.NotEmpty(t, stats.TopCuisines)
	assert.Equal(t, service.CountedLabel{Label: "italian", Count: 2}, stats.TopCuisines[0])

	// Quantity prefixes are stripped so garlic counts together.
	assert.Equal(t, service.CountedLabel{Label: "cloves garlic", Count: 2}, stats.TopIngredients[0])

	assert.Equal(t, 2, stats.MealTypes[models.MealTypeDinner])
	assert.Equal(t, 1, stats.MealTypes[models.MealTypeLunch])

	assert.Equal(t, 1, stats.CookTimeHistogram["0-15"])
	assert.Equal(t, 1, stats.CookTimeHistogram["16-30"])
	assert.Equal(t, 0, stats.CookTimeHistogram["31-45"])
	assert.Equal(t, 1, stats.CookTimeHistogram["60+"])
}

func TestComputeFavoriteStats_Empty(t *testing.T) {
	stats := service.ComputeFavoriteStats(nil, 5)

	assert.Zero(t, stats.TotalFavorites)
	assert.Zero(t, stats.AverageRating)
	assert.Empty(t, stats.TopCuisines)
	assert.Empty(t, stats.TopIngredients)
	// Histogram buckets are always present, zeroed.
	assert.Len(t, stats.CookTimeHistogram, 5)
}

func TestComputeFavoriteStats_Deterministic(t *testing.T) {
	favorites := []models.Favorite{
		favWithRecipe(nil, &models.Recipe{Cuisine: "thai"}),
		favWithRecipe(nil, &models.Recipe{Cuisine: "greek"}),
		favWithRecipe(nil, &models.Recipe{Cuisine: "french"}),
	}

	first := service.ComputeFavoriteStats(favorites, 2)
	for i := 0; i < 10; i++ {
		again := service.ComputeFavoriteStats(favorites, 2)
		assert.Equal(t, first.TopCuisines, again.TopCuisines)
	}
	// Ties rank by first appearance.
	require.Len(t, first.TopCuisines, 2)
	assert.Equal(t, "thai", first.TopCuisines[0].Label)
	assert.Equal(t, "greek", first.TopCuisines[1].Label)
}

func TestNormalizeIngredientName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2 cloves garlic", "cloves garlic"},
		{"1/2 cup sugar", "cup sugar"},
		{"200g flour", "flour"},
		{"3.5 oz butter", "oz butter"},
		{"Olive Oil", "olive oil"},
		{"  chicken  breast ", "chicken breast"},
		{"1 2 3", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, service.NormalizeIngredientName(tt.in), tt.in)
	}
}
