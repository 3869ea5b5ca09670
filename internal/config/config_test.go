package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "RATE_LIMIT_PER_MINUTE", "FLEET_SIZE", "TOWER_COUNT", "SEED", "SCENARIO_PATH"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, int64(100), cfg.Server.RateLimitPerMinute)
	assert.Equal(t, 50, cfg.Fleet.Size)
	assert.Equal(t, 90, cfg.Fleet.TowerCount)
	assert.Equal(t, int64(42), cfg.Fleet.Seed)
	assert.Empty(t, cfg.Fleet.ScenarioPath)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("FLEET_SIZE", "120")
	t.Setenv("TOWER_COUNT", "30")
	t.Setenv("SEED", "1234567890123")
	t.Setenv("SCENARIO_PATH", "/etc/fleet/scenario.json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 120, cfg.Fleet.Size)
	assert.Equal(t, 30, cfg.Fleet.TowerCount)
	assert.Equal(t, int64(1234567890123), cfg.Fleet.Seed)
	assert.Equal(t, "/etc/fleet/scenario.json", cfg.Fleet.ScenarioPath)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("FLEET_SIZE", "lots")
	t.Setenv("SEED", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Fleet.Size)
	assert.Equal(t, int64(42), cfg.Fleet.Seed)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("FLEET_SIZE", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := &Config{
		Server: ServerConfig{Port: "8080", RateLimitPerMinute: 100},
		Fleet:  FleetConfig{Size: 50, TowerCount: 90, Seed: 42},
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero fleet size", func(c *Config) { c.Fleet.Size = 0 }},
		{"negative tower count", func(c *Config) { c.Fleet.TowerCount = -1 }},
		{"zero rate limit", func(c *Config) { c.Server.RateLimitPerMinute = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
