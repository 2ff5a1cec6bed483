package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("JWT_USER_SECRET", "")
	t.Setenv("JWT_ADMIN_SECRET", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.NotEqual(t, cfg.JWTUserSecret, cfg.JWTAdminSecret)
	assert.Contains(t, cfg.AllowedOrigins, "http://localhost:5173")
	require.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("AUTH_RATE_LIMIT", "2.5")
	t.Setenv("RESET_DB", "true")
	t.Setenv("APP_ENV", "production")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg := Load()

	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 2.5, cfg.AuthRateLimit)
	assert.True(t, cfg.ResetDB)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "abc")
	t.Setenv("AUTH_RATE_LIMIT", "fast")

	cfg := Load()

	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 5.0, cfg.AuthRateLimit)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "same secrets", mutate: func(c *Config) { c.JWTAdminSecret = c.JWTUserSecret }, wantErr: true},
		{name: "empty user secret", mutate: func(c *Config) { c.JWTUserSecret = "" }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.DBDriver = "mongo" }, wantErr: true},
		{name: "sqlite driver", mutate: func(c *Config) { c.DBDriver = "sqlite" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{DBDriver: "mysql", JWTUserSecret: "u", JWTAdminSecret: "a"}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
