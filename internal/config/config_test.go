package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "")
	t.Setenv("FRONTEND_URL", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("S3_BUCKET", "")

	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "*", cfg.FrontendURL)
	assert.Equal(t, "goals", cfg.MongoDatabase)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.StorageEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "8080")
	t.Setenv("FRONTEND_URL", "https://goals.example.com")
	t.Setenv("JWT_EXPIRY", "2h")
	t.Setenv("AUTH_RATE_LIMIT", "3")
	t.Setenv("S3_BUCKET", "pictures")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://goals.example.com", cfg.FrontendURL)
	assert.Equal(t, "mongodb://db:27017", cfg.MongoURI)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 3, cfg.AuthRateLimit)
	assert.True(t, cfg.StorageEnabled())
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SOME_DURATION", "soon")
	t.Setenv("SOME_INT", "many")

	assert.Equal(t, time.Minute, envDuration("SOME_DURATION", time.Minute))
	assert.Equal(t, 7, envInt("SOME_INT", 7))
}
