package config

import (
	"os"
	"time"

	"atlas-service/internal/pkg/jwt"
)

type AppConfig struct {
	// Server
	HTTPAddr    string
	DatabaseURL string
	RedisAddr   string
	RedisPass   string

	// Admin auth
	AdminPasswordHash string
	JWT               jwt.Config

	// External services
	MapboxToken string
	GHLAPIKey   string

	// Seed vocabulary offered to submitters when the tag table is empty.
	DefaultTags []string
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		HTTPAddr:    getEnv("HTTP_ADDR", ":8000"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:   getEnv("REDIS_PASS", ""),

		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		JWT: jwt.Config{
			Secret:   getEnv("JWT_SECRET", ""),
			Issuer:   "atlas-service",
			Audience: "atlas-admin",
			TTL:      12 * time.Hour,
		},

		MapboxToken: getEnv("MAPBOX_ACCESS_TOKEN", ""),
		GHLAPIKey:   getEnv("GHL_API_KEY", ""),

		DefaultTags: []string{
			"Residential Sales",
			"Commercial Sales",
			"Luxury Properties",
			"First-Time Buyers",
			"Investment Properties",
			"Relocation",
			"Short Sales",
			"New Construction",
		},
	}
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
