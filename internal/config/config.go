package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Frontend origin allowed by CORS ("*" allows any origin)
	FrontendURL string

	// Database
	MongoURI      string
	MongoDatabase string

	// Security
	JWTSecret      string
	JWTExpiry      time.Duration
	AuthRateLimit  int
	AuthRateWindow time.Duration
	RedisURL       string // Optional: shares auth rate limits across instances

	// Observability (optional)
	SentryDSN string

	// Storage (optional, S3-compatible: MinIO, AWS S3, Cloudflare R2, ...)
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string // Optional: for non-AWS providers
	S3PublicURL string // Optional: public base URL for picture links
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "goals-api"),
		AppEnv:  envString("APP_ENV", "development"),
		Port:    envString("PORT", "3000"),

		FrontendURL: envString("FRONTEND_URL", "*"),

		// Database
		MongoURI:      envRequired("MONGODB_URI"),
		MongoDatabase: envString("MONGODB_DATABASE", "goals"),

		// Security
		JWTSecret:      envRequired("JWT_SECRET"),
		JWTExpiry:      envDuration("JWT_EXPIRY", 24*time.Hour),
		AuthRateLimit:  envInt("AUTH_RATE_LIMIT", 10),
		AuthRateWindow: envDuration("AUTH_RATE_WINDOW", 15*time.Minute),
		RedisURL:       envString("REDIS_URL", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage (picture uploads are disabled without a bucket)
		S3Region:    envString("S3_REGION", "us-east-1"),
		S3Bucket:    envString("S3_BUCKET", ""),
		S3AccessKey: envString("S3_ACCESS_KEY", ""),
		S3SecretKey: envString("S3_SECRET_KEY", ""),
		S3Endpoint:  envString("S3_ENDPOINT", ""),
		S3PublicURL: envString("S3_PUBLIC_URL", ""),
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction refuses permissive settings that are only acceptable locally.
func validateProduction(cfg *Config) {
	if cfg.FrontendURL == "*" {
		slog.Error("production deployment requires FRONTEND_URL",
			"hint", "credentialed CORS cannot use a wildcard origin")
		os.Exit(1)
	}
	if len(cfg.JWTSecret) < 32 {
		slog.Error("production deployment requires a JWT_SECRET of at least 32 characters")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// StorageEnabled reports whether picture uploads have somewhere to go.
func (c *Config) StorageEnabled() bool {
	return c.S3Bucket != ""
}
