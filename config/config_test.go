package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://:memory:")
	t.Setenv("AUTH0_DOMAIN", "test.auth0.com")
	t.Setenv("AUTH0_AUDIENCE", "https://api.pawsitter.test")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUTH0_ISSUER", "")
	t.Setenv("AUTH0_CLAIMS_NAMESPACE", "")
	t.Setenv("PORT", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("RATE_LIMIT_REQUESTS", "")
	t.Setenv("RATE_LIMIT_WINDOW", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://test.auth0.com/", cfg.Auth0Issuer)
	assert.Equal(t, "https://api.pawsitter.test", cfg.Auth0ClaimsNamespace, "namespace defaults to the audience")
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 100, cfg.RateLimitRequests)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.True(t, cfg.IsTest())
	assert.False(t, cfg.PhotoStorageEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUTH0_ISSUER", "https://login.example.com/")
	t.Setenv("AUTH0_CLAIMS_NAMESPACE", "https://pawsitter.app")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://pawsitter.app")
	t.Setenv("RATE_LIMIT_REQUESTS", "5")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("AWS_S3_BUCKET", "sitter-photos")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://login.example.com/", cfg.Auth0Issuer)
	assert.Equal(t, "https://pawsitter.app", cfg.Auth0ClaimsNamespace)
	assert.Equal(t, []string{"http://localhost:3000", "https://pawsitter.app"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 5, cfg.RateLimitRequests)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	assert.True(t, cfg.PhotoStorageEnabled())
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("RATE_LIMIT_REQUESTS", "lots")
	t.Setenv("RATE_LIMIT_WINDOW", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.RateLimitRequests)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
}

func TestValidate(t *testing.T) {
	valid := Config{
		DatabaseURL:       "sqlite://:memory:",
		Auth0Issuer:       "https://test.auth0.com/",
		Auth0Audience:     "https://api.pawsitter.test",
		RateLimitRequests: 10,
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing database url", func(c *Config) { c.DatabaseURL = "" }, "DATABASE_URL is required"},
		{"missing issuer", func(c *Config) { c.Auth0Issuer = "" }, "AUTH0_ISSUER or AUTH0_DOMAIN is required"},
		{"missing audience", func(c *Config) { c.Auth0Audience = "" }, "AUTH0_AUDIENCE is required"},
		{"zero rate limit", func(c *Config) { c.RateLimitRequests = 0 }, "RATE_LIMIT_REQUESTS must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}

func TestEnvironmentHelpers(t *testing.T) {
	assert.True(t, (&Config{GoEnv: "production"}).IsProduction())
	assert.True(t, (&Config{GoEnv: "development"}).IsDevelopment())
	assert.False(t, (&Config{GoEnv: "development"}).IsTest())
}

func TestGetSetConfig(t *testing.T) {
	original := GetConfig()
	defer SetConfig(original)

	cfg := &Config{Port: "9090"}
	SetConfig(cfg)
	assert.Same(t, cfg, GetConfig())
}
