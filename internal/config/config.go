package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	SessionSecret  string
	SessionTTL     time.Duration
	SoundsPath     string
	MigrationsPath string
	RateLimit      int
	RateWindow     time.Duration
}

// Load reads configuration from environment variables with sensible
// defaults. A .env file in the working directory is applied first when
// present.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabasePath:   getEnv("DB_PATH", "./mathclash.db"),
		DatabaseURL:    getEnv("DB_URL", ""),
		SessionSecret:  getEnv("SESSION_SECRET", "dev-secret-change-me"),
		SessionTTL:     getDuration("SESSION_TTL", 30*24*time.Hour),
		SoundsPath:     getEnv("SOUNDS_PATH", "./static/sounds"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		RateLimit:      getInt("RATE_LIMIT", 30),
		RateWindow:     getDuration("RATE_WINDOW", time.Minute),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getInt reads an integer environment variable or returns a default
func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid integer for %s, using default: %v", key, err)
		return defaultValue
	}
	return parsed
}

// getDuration reads a duration environment variable or returns a default
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid duration for %s, using default: %v", key, err)
		return defaultValue
	}
	return parsed
}
