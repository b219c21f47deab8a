package main

import (
	"context"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/mealplanner-v2/backend/config"
	"github.com/pageza/mealplanner-v2/backend/internal/database"
	"github.com/pageza/mealplanner-v2/backend/internal/models"
	"github.com/pageza/mealplanner-v2/backend/internal/service"
	"github.com/pageza/mealplanner-v2/backend/internal/types"
)

func floatPtr(f float64) *float64 { return &f }

// Seeds a demo user with a handful of recipes, a meal plan and favorites.
// Development helper only.
func main() {
	if config.GetEnvironment() == config.Production {
		log.Fatal("refusing to seed a production database")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	user := models.User{
		Username:     "demo",
		Email:        "demo@example.com",
		PasswordHash: string(hash),
		Name:         "Demo User",
		Preferences: models.DietaryPreferences{
			DietType: "omnivore",
		},
	}
	if err := db.WithContext(ctx).Where(models.User{Email: user.Email}).FirstOrCreate(&user).Error; err != nil {
		log.Fatalf("Failed to seed user: %v", err)
	}

	recipes := []models.Recipe{
		{
			CreatedByUserID: &user.ID,
			Name:            "Overnight Oats",
			Description:     "Rolled oats soaked overnight with yogurt and berries.",
			Ingredients: models.IngredientList{
				{Name: "rolled oats", Amount: 0.5, Unit: "cup"},
				{Name: "greek yogurt", Amount: 0.5, Unit: "cup"},
				{Name: "blueberries", Amount: 0.25, Unit: "cup"},
			},
			Instructions: "Combine oats and yogurt, refrigerate overnight, top with berries.",
			Nutrition:    models.Nutrition{Calories: floatPtr(320), Protein: floatPtr(18)},
			Cuisine:      "american",
			MealType:     models.MealTypeBreakfast,
			PrepTime:     5,
			Difficulty:   models.DifficultyEasy,
			Tags:         models.JSONBStringArray{"make-ahead", "vegetarian"},
		},
		{
			CreatedByUserID: &user.ID,
			Name:            "Chicken Caesar Wrap",
			Description:     "Grilled chicken, romaine and parmesan in a flour tortilla.",
			Ingredients: models.IngredientList{
				{Name: "chicken breast", Amount: 1, Unit: "piece"},
				{Name: "romaine lettuce", Amount: 1, Unit: "cup"},
				{Name: "flour tortilla", Amount: 1, Unit: "piece"},
				{Name: "caesar dressing", Amount: 2, Unit: "tbsp"},
			},
			Instructions: "Grill the chicken, slice, wrap with lettuce and dressing.",
			Nutrition:    models.Nutrition{Calories: floatPtr(480), Protein: floatPtr(35)},
			Cuisine:      "american",
			MealType:     models.MealTypeLunch,
			PrepTime:     10,
			CookTime:     15,
			Difficulty:   models.DifficultyEasy,
			Tags:         models.JSONBStringArray{"high-protein"},
		},
		{
			CreatedByUserID: &user.ID,
			Name:            "Vegetable Stir Fry",
			Description:     "Mixed vegetables and tofu over jasmine rice.",
			Ingredients: models.IngredientList{
				{Name: "firm tofu", Amount: 200, Unit: "g"},
				{Name: "broccoli", Amount: 1, Unit: "cup"},
				{Name: "bell pepper", Amount: 1, Unit: "piece"},
				{Name: "jasmine rice", Amount: 1, Unit: "cup"},
				{Name: "soy sauce", Amount: 2, Unit: "tbsp"},
			},
			Instructions: "Cook rice. Stir fry tofu and vegetables, add sauce, serve over rice.",
			Nutrition:    models.Nutrition{Calories: floatPtr(520), Protein: floatPtr(24)},
			Cuisine:      "chinese",
			MealType:     models.MealTypeDinner,
			PrepTime:     15,
			CookTime:     20,
			Difficulty:   models.DifficultyMedium,
			Tags:         models.JSONBStringArray{"vegan", "weeknight"},
		},
	}
	for i := range recipes {
		if err := db.WithContext(ctx).
			Where(models.Recipe{Name: recipes[i].Name, CreatedByUserID: &user.ID}).
			FirstOrCreate(&recipes[i]).Error; err != nil {
			log.Fatalf("Failed to seed recipe %q: %v", recipes[i].Name, err)
		}
	}

	monday := time.Now().Truncate(24 * time.Hour)
	plan := models.MealPlan{
		UserID:        user.ID,
		Name:          "Demo Week",
		Description:   "Seeded example plan",
		WeekStartDate: monday,
		IsActive:      true,
	}
	if err := db.WithContext(ctx).
		Where(models.MealPlan{UserID: user.ID, Name: plan.Name}).
		FirstOrCreate(&plan).Error; err != nil {
		log.Fatalf("Failed to seed meal plan: %v", err)
	}

	plans := service.NewMealPlanService(db)
	for day := 0; day < 3; day++ {
		for i, mealType := range []string{models.MealTypeBreakfast, models.MealTypeLunch, models.MealTypeDinner} {
			if err := plans.AssignRecipe(ctx, plan.ID, recipes[i].ID, day, mealType); err != nil {
				log.Fatalf("Failed to assign recipe: %v", err)
			}
		}
	}

	favorites := service.NewFavoriteService(db, service.NewFavoritesCache(nil))
	rating := 5
	if _, err := favorites.AddFavorite(ctx, user.ID, &types.AddFavoriteRequest{
		RecipeID: recipes[2].ID,
		Rating:   &rating,
		Notes:    "Family favorite, double the sauce.",
	}); err != nil {
		log.Fatalf("Failed to seed favorite: %v", err)
	}

	log.Printf("Seeded user %s with %d recipes and plan %q", user.Email, len(recipes), plan.Name)
}
