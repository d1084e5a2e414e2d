package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"delivery-tracker/internal/adapters/http/middleware"
	"delivery-tracker/internal/adapters/http/routes"
	"delivery-tracker/internal/adapters/persistence/models"
	"delivery-tracker/internal/adapters/persistence/repositories"
	"delivery-tracker/internal/config"
	"delivery-tracker/internal/core/services"
	"delivery-tracker/internal/pkg/password"

	"github.com/gofiber/fiber/v2"

	_ "delivery-tracker/docs" // Swagger docs
)

// @title Delivery Tracker API
// @version 1.0
// @description Delivery tracking service: accounts, JWT authentication and per-user delivery lifecycle.

// @contact.name API Support

// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase(db)

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	if cfg.SeedDemo {
		seeder := config.NewSeeder(db, password.NewHasher(cfg.Security.BcryptCost), nil)
		if err := seeder.Run(); err != nil {
			log.Printf("⚠️ Warning: Failed to seed demo data: %v", err)
		}
	}

	// Start Cron Service for expired refresh token cleanup
	cronService := services.NewCronService(
		repositories.NewRefreshTokenRepository(db),
		cfg.Cron.TokenCleanupSchedule,
		services.SystemClock,
	)
	if err := cronService.Start(); err != nil {
		log.Fatalf("❌ Failed to start cron service: %v", err)
	}
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Delivery Tracker API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	if err := routes.Setup(app, db, cfg); err != nil {
		log.Fatalf("❌ Failed to setup routes: %v", err)
	}

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Printf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
