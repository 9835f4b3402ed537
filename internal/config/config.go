package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string

	DB            DatabaseConfig
	Redis         RedisConfig
	Stripe        StripeConfig
	Impersonation ImpersonationConfig
	Worker        WorkerConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// StripeConfig contains the payments-processor credentials and the price
// identifiers for each plan tier.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	PriceStarter  string
	PriceGrowth   string
	PriceScale    string
}

// PlanForPrice maps a Stripe price id back to the plan tier it sells.
// Unknown price ids return "".
func (c *StripeConfig) PlanForPrice(priceID string) string {
	switch priceID {
	case "":
		return ""
	case c.PriceStarter:
		return "starter"
	case c.PriceGrowth:
		return "growth"
	case c.PriceScale:
		return "scale"
	}
	return ""
}

// ImpersonationConfig controls impersonation session issuance and cleanup.
type ImpersonationConfig struct {
	DefaultDuration time.Duration
	SweepRetention  time.Duration
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	SweepInterval    time.Duration
	PlanSyncInterval time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Stripe
	cfg.Stripe = StripeConfig{
		SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		PriceStarter:  getEnv("STRIPE_PRICE_STARTER", ""),
		PriceGrowth:   getEnv("STRIPE_PRICE_GROWTH", ""),
		PriceScale:    getEnv("STRIPE_PRICE_SCALE", ""),
	}

	// Impersonation
	var err error
	if cfg.Impersonation.DefaultDuration, err = parseDurationEnv("IMPERSONATION_DEFAULT_TTL", "60m"); err != nil {
		return nil, fmt.Errorf("invalid IMPERSONATION_DEFAULT_TTL: %w", err)
	}
	if cfg.Impersonation.SweepRetention, err = parseDurationEnv("IMPERSONATION_SWEEP_RETENTION", "24h"); err != nil {
		return nil, fmt.Errorf("invalid IMPERSONATION_SWEEP_RETENTION: %w", err)
	}

	// Workers (durations)
	if cfg.Worker.SweepInterval, err = parseDurationEnv("SWEEP_INTERVAL", "10m"); err != nil {
		return nil, fmt.Errorf("invalid SWEEP_INTERVAL: %w", err)
	}
	if cfg.Worker.PlanSyncInterval, err = parseDurationEnv("PLAN_SYNC_INTERVAL", "1h"); err != nil {
		return nil, fmt.Errorf("invalid PLAN_SYNC_INTERVAL: %w", err)
	}

	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	// Validate JWT_SECRET
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
