// Package config loads application configuration from environment
// variables, with optional .env file support for local development.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL string
	Port        string
	Env         string // development, production
	LogLevel    string

	JWTSecret   string
	JWTIssuer   string
	JWTTokenTTL time.Duration

	// Redis report cache. Empty RedisAddr disables caching.
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	ReportCacheTTL time.Duration
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables and .env file if present.
func Load() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "change-me-in-production")
	viper.SetDefault("JWT_ISSUER", "tokopos")
	viper.SetDefault("JWT_TOKEN_TTL", "12h")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REPORT_CACHE_TTL", "5m")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:   viper.GetString("DATABASE_URL"),
		Port:          viper.GetString("PORT"),
		Env:           viper.GetString("APP_ENV"),
		LogLevel:      viper.GetString("LOG_LEVEL"),
		JWTSecret:     viper.GetString("JWT_SECRET"),
		JWTIssuer:     viper.GetString("JWT_ISSUER"),
		RedisAddr:     viper.GetString("REDIS_ADDR"),
		RedisPassword: viper.GetString("REDIS_PASSWORD"),
		RedisDB:       viper.GetInt("REDIS_DB"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	ttl, err := time.ParseDuration(viper.GetString("JWT_TOKEN_TTL"))
	if err != nil {
		return nil, fmt.Errorf("parse JWT_TOKEN_TTL: %w", err)
	}
	cfg.JWTTokenTTL = ttl

	cacheTTL, err := time.ParseDuration(viper.GetString("REPORT_CACHE_TTL"))
	if err != nil {
		return nil, fmt.Errorf("parse REPORT_CACHE_TTL: %w", err)
	}
	cfg.ReportCacheTTL = cacheTTL

	return cfg, nil
}
