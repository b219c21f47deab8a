package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pageza/mealplanner-v2/backend/config"
	"github.com/pageza/mealplanner-v2/backend/internal/database"
	"github.com/pageza/mealplanner-v2/backend/internal/server"
	"github.com/pageza/mealplanner-v2/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := config.ValidateConfig(cfg, config.GetEnvironment()); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.VerifySchema(db); err != nil {
		log.Fatalf("Schema verification failed: %v", err)
	}

	// Redis is advisory: log and continue without caching or rate limits.
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Redis unavailable, continuing without cache: %v", err)
		redisClient = nil
	}

	accounts := service.NewAccountService(db, cfg.JWTSecret)
	recipes := service.NewRecipeService(db, nil)
	plans := service.NewMealPlanService(db)
	favorites := service.NewFavoriteService(db, service.NewFavoritesCache(redisClient))

	// Image storage is optional: without S3 credentials the endpoints answer 503.
	var images *service.ImageService
	if s3Cfg, err := config.NewS3Config(context.Background()); err != nil {
		log.Printf("S3 unavailable, image endpoints disabled: %v", err)
	} else {
		images = service.NewImageService(s3Cfg)
	}

	srv := server.NewServer(server.Deps{
		Config:         cfg,
		DB:             db,
		Redis:          redisClient,
		Accounts:       accounts,
		Recipes:        recipes,
		Plans:          plans,
		Favorites:      favorites,
		Images:         images,
		AllowedOrigins: splitOrigins(os.Getenv("CORS_ALLOWED_ORIGINS")),
	})

	// Cancel on SIGINT/SIGTERM; Start drains in-flight requests on cancel.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("Starting server on port %s", cfg.ServerPort)
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}

func splitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
