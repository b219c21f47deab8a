package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/mealplanner-v2/backend/config"
	"github.com/pageza/mealplanner-v2/backend/internal/api"
	"github.com/pageza/mealplanner-v2/backend/internal/database"
	"github.com/pageza/mealplanner-v2/backend/internal/middleware"
	"github.com/pageza/mealplanner-v2/backend/internal/service"
)

// Deps carries everything the server needs. Redis is optional: a nil client
// disables the favorites cache and rate limiting but not correctness.
type Deps struct {
	Config    *config.Config
	DB        *gorm.DB
	Redis     *redis.Client
	Accounts  service.IAccountService
	Recipes   service.IRecipeService
	Plans     service.IMealPlanService
	Favorites service.IFavoriteService

	// Images is optional; nil disables the image endpoints.
	Images *service.ImageService

	// AllowedOrigins for CORS. Empty means localhost dev origins.
	AllowedOrigins []string
}

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
	cfg    *config.Config
}

// NewServer assembles the router: middleware, validators and route groups.
func NewServer(deps Deps) *Server {
	api.RegisterValidators()

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(deps.AllowedOrigins))

	auth := middleware.AuthMiddleware(deps.Accounts)
	if deps.Redis != nil {
		limiter := middleware.NewRateLimiter(deps.Redis, middleware.RateLimitConfig{
			Window:    time.Minute,
			Limit:     120,
			KeyPrefix: "ratelimit",
		})
		rateLimit := limiter.RateLimitMiddleware()
		auth = chain(auth, rateLimit)
	}

	router.GET("/health", healthHandler(deps.DB))

	v1 := router.Group("/api/v1")
	api.NewAccountHandler(deps.Accounts).RegisterRoutes(v1, auth)
	api.NewRecipeHandler(deps.Recipes, deps.Images).RegisterRoutes(v1, auth)
	api.NewMealPlanHandler(deps.Plans).RegisterRoutes(v1, auth)
	api.NewFavoriteHandler(deps.Favorites).RegisterRoutes(v1, auth)

	return &Server{
		router: router,
		db:     deps.DB,
		cfg:    deps.Config,
	}
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start runs the server on the configured port until the context is
// cancelled, then shuts down gracefully with a 5 second drain window.
func (s *Server) Start(ctx context.Context) error {
	s.http = &http.Server{
		Addr:    ":" + s.cfg.ServerPort,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := database.HealthCheck(ctx, db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// chain composes handlers so auth always runs before the rate limiter,
// which needs the user_id the auth middleware sets.
func chain(handlers ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range handlers {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
