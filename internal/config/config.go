package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	AppEnv            string
	IsProduction      bool
	LogLevel          string
	ProdOrigins       string
	HTTPAddr          string
	DBDSN             string
	JWTSecret         string
	JWTAccessTokenTTL time.Duration
	BcryptCost        int
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	ListCacheTTL      time.Duration
	RequestTimeout    time.Duration
	AdminEmail        string
	AdminPassword     string
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	cfg := &Config{}
	var err error

	// Production origins, comma separated (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	cfg.AppEnv = getEnv("APP_ENV", "dev")
	cfg.IsProduction = cfg.AppEnv == PROD_STRING
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// Database DSN; empty selects the in-memory store, which is refused in production
	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" && cfg.IsProduction {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	// JWT secret is required for signing tokens
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if cfg.JWTAccessTokenTTL, err = getEnvAsDuration("JWT_ACCESS_TOKEN_TTL", 15*time.Minute); err != nil {
		return nil, err
	}

	// Bcrypt cost for password hashing (default: 12)
	if cfg.BcryptCost, err = getEnvAsInt("BCRYPT_COST", 12); err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	// Redis backs token revocation and the listing cache; empty selects an in-process cache
	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	if cfg.RedisDB, err = getEnvAsInt("REDIS_DB", 0); err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	if cfg.RedisAddr == "" && cfg.IsProduction {
		return nil, fmt.Errorf("REDIS_ADDR is required")
	}

	if cfg.ListCacheTTL, err = getEnvAsDuration("LIST_CACHE_TTL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getEnvAsDuration("REQUEST_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	// Optional bootstrap operator
	cfg.AdminEmail = getEnv("ADMIN_EMAIL", "")
	cfg.AdminPassword = getEnv("ADMIN_PASSWORD", "")
	if (cfg.AdminEmail == "") != (cfg.AdminPassword == "") {
		return nil, fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
// It returns an error if the variable is set but is not a valid integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

// getEnvAsDuration parses an environment variable as time.Duration (e.g. "15m", "1h").
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if val <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}

	return val, nil
}
