package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:                     "8375",
		Env:                      "development",
		LogLevel:                 "info",
		JWTSecret:                "secure-secret-at-least-32-chars-long",
		JWTTTLSeconds:            3600,
		DBPassword:               "secure-password",
		DBSSLMode:                "require",
		DBMaxOpenConns:           25,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 5,
		AvatarMaxUploadMB:        5,
		TracingSampleRatio:       1,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"valid development config", func(*Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"missing jwt secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"zero jwt ttl", func(c *Config) { c.JWTTTLSeconds = 0 }, true},
		{"unknown log level", func(c *Config) { c.LogLevel = "verbose" }, true},
		{"zero pool size", func(c *Config) { c.DBMaxOpenConns = 0 }, true},
		{"zero avatar limit", func(c *Config) { c.AvatarMaxUploadMB = 0 }, true},
		{"sample ratio above one", func(c *Config) { c.TracingSampleRatio = 1.5 }, true},
		{"production with default secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = defaultJWTSecret
		}, true},
		{"production with short secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = "short"
		}, true},
		{"production with weak db password", func(c *Config) {
			c.Env = "prod"
			c.DBPassword = "password"
		}, true},
		{"production with ssl disabled", func(c *Config) {
			c.Env = "production"
			c.DBSSLMode = "disable"
		}, true},
		{"production with strong settings", func(c *Config) { c.Env = "production" }, false},
		{"development tolerates disabled ssl", func(c *Config) { c.DBSSLMode = "disable" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("PORT", "9999")
	t.Setenv("LOG_LEVEL", " DEBUG ")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")
	t.Setenv("MINIO_BUCKET", "test-avatars")
	t.Setenv("JWT_TTL_SECONDS", "120")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, "test-avatars", cfg.MinioBucket)
	assert.Equal(t, 120, cfg.JWTTTLSeconds)
	assert.Equal(t, 25, cfg.DBMaxOpenConns)
	assert.False(t, cfg.IsProduction())
}
