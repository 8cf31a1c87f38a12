// Package config handles loading and validation of application configuration
// from environment variables. Supports .env files via godotenv.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port        int
	Environment string // "development" | "staging" | "production"

	// Case-management backend
	BackendURL   string
	BackendToken string

	// Security
	JWTSecret      string
	AllowedOrigins []string
	RateLimitRPM   int

	// Redis (for rate limiting)
	RedisURL string

	// Financial constants, read-only inputs to the statement engine
	PartnerRatePerCase     decimal.Decimal
	OperationalCostPerCase decimal.Decimal
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnvInt("PORT", 8080),
		Environment: getEnv("ENVIRONMENT", "development"),

		BackendURL:   getEnv("BACKEND_API_URL", "http://localhost:3333"),
		BackendToken: getEnv("BACKEND_API_TOKEN", ""),

		JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000"), ","),
		RateLimitRPM:   getEnvInt("RATE_LIMIT_RPM", 120),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		PartnerRatePerCase:     getEnvDecimal("PARTNER_RATE_PER_CASE", "10.00"),
		OperationalCostPerCase: getEnvDecimal("OPERATIONAL_COST_PER_CASE", "0"),
	}

	// Validate required fields in production
	if cfg.Environment == "production" {
		if os.Getenv("BACKEND_API_URL") == "" {
			return nil, fmt.Errorf("BACKEND_API_URL is required in production")
		}
		if cfg.JWTSecret == "dev-secret-change-in-production" {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDecimal(key, fallback string) decimal.Decimal {
	if val := os.Getenv(key); val != "" {
		if d, err := decimal.NewFromString(val); err == nil {
			return d
		}
	}
	d, _ := decimal.NewFromString(fallback)
	return d
}
