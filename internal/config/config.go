// Package config provides configuration management for the connectivity service.
package config

import (
	"errors"
	"os"
	"strconv"
)

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig
	Fleet  FleetConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port               string
	RateLimitPerMinute int64
}

// FleetConfig holds snapshot generation configuration
type FleetConfig struct {
	Size         int    // Number of vehicles in the demo fleet
	TowerCount   int    // Number of coverage towers
	Seed         int64  // Generation seed; 0 means derive from the clock
	ScenarioPath string // Optional scenario override file
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			RateLimitPerMinute: int64(getEnvAsInt("RATE_LIMIT_PER_MINUTE", 100)),
		},
		Fleet: FleetConfig{
			Size:         getEnvAsInt("FLEET_SIZE", 50),
			TowerCount:   getEnvAsInt("TOWER_COUNT", 90),
			Seed:         getEnvAsInt64("SEED", 42),
			ScenarioPath: os.Getenv("SCENARIO_PATH"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	if c.Fleet.Size <= 0 {
		return errors.New("FLEET_SIZE must be positive")
	}
	if c.Fleet.TowerCount < 0 {
		return errors.New("TOWER_COUNT cannot be negative")
	}
	if c.Server.RateLimitPerMinute <= 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must be positive")
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsInt64 gets an environment variable as an int64 or returns a default value
func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
