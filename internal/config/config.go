// internal/config/config.go
// Centralized configuration management
// Loads from environment variables with sensible defaults

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string

	// Database
	DatabaseURL string
	RedisURL    string

	// Security
	JWTSecret string

	// Matchmaking engine
	TickInterval        time.Duration
	AcceptanceThreshold int
	SchedulerLockTTL    time.Duration
	ReferenceDistanceKm float64

	// Compatibility weights (percent, must sum to 100)
	WeightGender    float64
	WeightLocation  float64
	WeightAge       float64
	WeightIntent    float64
	WeightInterests float64
	WeightLifestyle float64
	WeightLanguages float64
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		// Server
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),

		// Security
		JWTSecret: getEnv("JWT_SECRET", "your-super-secret-key-change-this-in-production"),

		// Matchmaking engine
		TickInterval:        getEnvDuration("MATCH_TICK_INTERVAL", "5s"),
		AcceptanceThreshold: getEnvInt("MATCH_ACCEPTANCE_THRESHOLD", 70),
		SchedulerLockTTL:    getEnvDuration("MATCH_SCHEDULER_LOCK_TTL", "30s"),
		ReferenceDistanceKm: getEnvFloat("MATCH_REFERENCE_DISTANCE_KM", 100),

		// Compatibility weights
		WeightGender:    getEnvFloat("MATCH_WEIGHT_GENDER", 25),
		WeightLocation:  getEnvFloat("MATCH_WEIGHT_LOCATION", 20),
		WeightAge:       getEnvFloat("MATCH_WEIGHT_AGE", 15),
		WeightIntent:    getEnvFloat("MATCH_WEIGHT_INTENT", 15),
		WeightInterests: getEnvFloat("MATCH_WEIGHT_INTERESTS", 10),
		WeightLifestyle: getEnvFloat("MATCH_WEIGHT_LIFESTYLE", 10),
		WeightLanguages: getEnvFloat("MATCH_WEIGHT_LANGUAGES", 5),
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWTSecret == "your-super-secret-key-change-this-in-production" && c.Environment == "production" {
		return fmt.Errorf("JWT secret must be changed for production")
	}

	if c.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive")
	}

	if c.AcceptanceThreshold < 0 || c.AcceptanceThreshold > 100 {
		return fmt.Errorf("acceptance threshold must be between 0 and 100")
	}

	if c.ReferenceDistanceKm <= 0 {
		return fmt.Errorf("reference distance must be positive")
	}

	weightSum := c.WeightGender + c.WeightLocation + c.WeightAge + c.WeightIntent +
		c.WeightInterests + c.WeightLifestyle + c.WeightLanguages
	if weightSum < 99.999 || weightSum > 100.001 {
		return fmt.Errorf("compatibility weights must sum to 100, got %.2f", weightSum)
	}

	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Helper functions

// getEnv gets a string value from environment with a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment with a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat gets a float value from environment with a default
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration value from environment with a default
func getEnvDuration(key string, defaultValue string) time.Duration {
	value := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(value)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
