package routes

import (
	"context"
	"fmt"
	"time"

	"delivery-tracker/internal/adapters/http/handlers"
	"delivery-tracker/internal/adapters/http/middleware"
	"delivery-tracker/internal/adapters/persistence/repositories"
	"delivery-tracker/internal/config"
	"delivery-tracker/internal/core/services"
	"delivery-tracker/internal/pkg/jwt"
	"delivery-tracker/internal/pkg/password"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Option customizes the wiring built by Setup
type Option func(*options)

type options struct {
	now services.Clock
}

// WithClock replaces the wall clock used by services and the token provider
func WithClock(now services.Clock) Option {
	return func(o *options) {
		o.now = now
	}
}

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, opts ...Option) error {
	o := options{now: services.SystemClock}
	for _, opt := range opts {
		opt(&o)
	}

	tokenProvider, err := jwt.NewTokenProvider(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		jwt.WithClock(o.now),
		jwt.WithFailureLogging(cfg.IsDev()),
	)
	if err != nil {
		return fmt.Errorf("token provider: %w", err)
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	deliveryRepo := repositories.NewDeliveryRepository(db)
	tx := repositories.NewTransactor(db)

	// Initialize services
	authService := services.NewAuthService(
		userRepo,
		refreshTokenRepo,
		tx,
		tokenProvider,
		password.NewHasher(cfg.Security.BcryptCost),
		o.now,
	)
	userService := services.NewUserService(userRepo)
	deliveryService := services.NewDeliveryService(deliveryRepo, userRepo, tx, o.now)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.AppMode, func(ctx context.Context) error {
		return config.HealthCheck(ctx, db)
	})
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	deliveryHandler := handlers.NewDeliveryHandler(deliveryService)

	// ============================================================
	// Public routes
	// ============================================================
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api/v1", middleware.Authenticate(tokenProvider, userService))

	// ============================================================
	// Users
	// ============================================================
	users := api.Group("/users", middleware.NoCacheHeaders())
	authLimiter := middleware.AuthRateLimiter(cfg.Security.AuthRateLimit)
	users.Post("/signup", authLimiter, authHandler.SignUp)
	users.Post("/login", authLimiter, authHandler.Login)
	users.Post("/refresh", authLimiter, authHandler.Refresh)
	users.Post("/logout", middleware.RequireAuth(), authHandler.Logout)
	users.Get("/me", middleware.RequireAuth(), userHandler.Me)

	// ============================================================
	// Deliveries
	// ============================================================
	deliveries := api.Group("/deliveries", middleware.RequireAuth(), middleware.PrivateCacheHeaders(10*time.Second))
	deliveries.Get("/", deliveryHandler.List)
	deliveries.Post("/", deliveryHandler.Create)
	deliveries.Get("/:id", deliveryHandler.Get)
	deliveries.Patch("/:id/destination", deliveryHandler.UpdateDestination)
	deliveries.Patch("/:id/status", deliveryHandler.ChangeStatus)

	return nil
}
