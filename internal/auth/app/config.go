package app

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/driftwave/auth/pkg/jwtx"
)

type Config struct {
	SigningSecret []byte // Required: HS256 shared secret for access tokens

	Issuer              string        // Issuer claim for tokens (default: driftwave-auth)
	AccessTTL           time.Duration // Access token lifetime (default: 15m)
	RefreshTTL          time.Duration // Refresh window, fixed at session creation (default: 2 years)
	DatabaseFile        string        // Path to SQLite database file (default: ./auth.db)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadConfig reads configuration from the environment. It errors rather
// than defaulting when the signing secret is missing or too short; a
// generated fallback secret would silently invalidate every token on
// restart.
func LoadConfig() (Config, error) {
	secret := os.Getenv("AUTH_SIGNING_SECRET")
	if secret == "" {
		return Config{}, fmt.Errorf("AUTH_SIGNING_SECRET is required")
	}
	if len(secret) < jwtx.MinSecretBytes {
		return Config{}, fmt.Errorf("AUTH_SIGNING_SECRET must be at least %d bytes", jwtx.MinSecretBytes)
	}

	cfg := Config{
		SigningSecret:       []byte(secret),
		Issuer:              getEnvOrDefault("AUTH_ISSUER", "driftwave-auth"),
		AccessTTL:           getEnvDurationOrDefault("AUTH_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL:          getEnvDurationOrDefault("AUTH_REFRESH_TTL", jwtx.DefaultRefreshTokenTTL),
		DatabaseFile:        getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
