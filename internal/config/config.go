package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	JWT      JWTConfig
	Security SecurityConfig
	Cron     CronConfig
	SeedDemo bool
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	Path     string
}

// JWTConfig holds token configuration
type JWTConfig struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// SecurityConfig holds password hashing and CORS settings
type SecurityConfig struct {
	BcryptCost     int
	AllowedOrigins string
	AuthRateLimit  int
}

// CronConfig holds scheduled job settings
type CronConfig struct {
	TokenCleanupSchedule string
}

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Configuration loaded successfully [MODE: %s, DB: %s]", cfg.AppMode, cfg.Database.Driver)
	return cfg, nil
}

// FromEnv builds the configuration from the process environment only
func FromEnv() (*Config, error) {
	// trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	database, err := loadDatabaseConfig(appMode)
	if err != nil {
		return nil, err
	}

	jwtConfig, err := loadJWTConfig(appMode)
	if err != nil {
		return nil, err
	}

	cost, err := getInt("BCRYPT_COST", 12)
	if err != nil {
		return nil, err
	}
	authLimit, err := getInt("AUTH_RATE_LIMIT", 10)
	if err != nil {
		return nil, err
	}

	return &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "8080"),
		Database: database,
		JWT:      jwtConfig,
		Security: SecurityConfig{
			BcryptCost:     cost,
			AllowedOrigins: strings.TrimSpace(getEnv("ALLOWED_ORIGINS", "")),
			AuthRateLimit:  authLimit,
		},
		Cron: CronConfig{
			TokenCleanupSchedule: getEnv("TOKEN_CLEANUP_SCHEDULE", "0 3 * * *"),
		},
		// demo data is never seeded in prod
		SeedDemo: appMode == "dev" && strings.EqualFold(getEnv("SEED_DEMO_DATA", "false"), "true"),
	}, nil
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) (DatabaseConfig, error) {
	prefix := modePrefix(mode)

	driver := strings.ToLower(strings.TrimSpace(getEnv("DB_DRIVER", DriverMySQL)))
	if driver != DriverMySQL && driver != DriverSQLite {
		return DatabaseConfig{}, fmt.Errorf("invalid DB_DRIVER: '%s' (must be 'mysql' or 'sqlite')", driver)
	}

	return DatabaseConfig{
		Driver:   driver,
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "delivery"),
		Path:     getEnv(prefix+"DB_PATH", "delivery.db"),
	}, nil
}

// loadJWTConfig loads token config; the secret has no default
func loadJWTConfig(mode string) (JWTConfig, error) {
	secret := strings.TrimSpace(getEnv(modePrefix(mode)+"JWT_SECRET", getEnv("JWT_SECRET", "")))
	if secret == "" {
		return JWTConfig{}, fmt.Errorf("JWT_SECRET is required")
	}

	accessSeconds, err := getInt("ACCESS_TOKEN_SECONDS", 3600)
	if err != nil {
		return JWTConfig{}, err
	}
	refreshSeconds, err := getInt("REFRESH_TOKEN_SECONDS", 1209600)
	if err != nil {
		return JWTConfig{}, err
	}
	if accessSeconds <= 0 || refreshSeconds <= 0 {
		return JWTConfig{}, fmt.Errorf("token lifetimes must be positive")
	}

	return JWTConfig{
		Secret:          secret,
		AccessTokenTTL:  time.Duration(accessSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshSeconds) * time.Second,
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	if c.Security.AllowedOrigins == "" && c.IsDev() {
		return "*"
	}
	return c.Security.AllowedOrigins
}
