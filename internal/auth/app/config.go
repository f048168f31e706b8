package app

import (
	"errors"
	"os"
	"strconv"
	"time"
)

type Config struct {
	SigningSecret string // Required: HMAC key for token signing
	Issuer        string // Optional: issuer claim for tokens (default: authledger)

	Algorithm            string        // Optional: HMAC signing algorithm (HS256, HS384, HS512) (default: HS256)
	AccessTTL            time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTTL           time.Duration // Optional: refresh token lifetime (default: 168h)
	DatabaseFile         string        // Optional: path to SQLite database file (default: ./auth.db)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Ledger sweep interval (default: 1h)
	LedgerRetention      time.Duration // How long dead ledger rows are kept (default: 30 days)
}

// ErrMissingSecret is returned when AUTH_SIGNING_SECRET is unset. There is
// no safe default for a signing key.
var ErrMissingSecret = errors.New("AUTH_SIGNING_SECRET is required")

func LoadConfig() (Config, error) {
	cfg := Config{
		SigningSecret:        os.Getenv("AUTH_SIGNING_SECRET"),
		Issuer:               getEnvOrDefault("AUTH_ISSUER", "authledger"),
		Algorithm:            getEnvOrDefault("AUTH_ALGORITHM", "HS256"),
		AccessTTL:            getEnvDurationOrDefault("AUTH_ACCESS_TTL", 15*time.Minute),
		RefreshTTL:           getEnvDurationOrDefault("AUTH_REFRESH_TTL", 7*24*time.Hour),
		DatabaseFile:         getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		LedgerRetention:      getEnvDurationOrDefault("AUTH_LEDGER_RETENTION", 30*24*time.Hour),
	}

	if cfg.SigningSecret == "" {
		return Config{}, ErrMissingSecret
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

	// Accept duration strings ("1h", "30m", "90s") or integer minutes.
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
