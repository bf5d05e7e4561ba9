package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tokenforge/idpersist/serial"
)

type Config struct {
	Driver string // Database driver (sqlite, postgres) (default: sqlite)
	DSN    string // Connection string; a file path for sqlite (default: ./idpersist.db)

	TimeConvention  serial.TimeConvention // Timezone applied to deserialized timestamps (default: UTC)
	CleanupInterval time.Duration         // Interval between expired-token sweeps (default: 1h)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		Driver:              getEnvOrDefault("IDPERSIST_DRIVER", "sqlite"),
		DSN:                 getEnvOrDefault("IDPERSIST_DSN", "idpersist.db"),
		TimeConvention:      parseTimeConvention(os.Getenv("IDPERSIST_TIME_CONVENTION")),
		CleanupInterval:     getEnvDurationOrDefault("IDPERSIST_CLEANUP_INTERVAL", 1*time.Hour),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func parseTimeConvention(value string) serial.TimeConvention {
	if strings.EqualFold(value, "local") {
		return serial.TimesLocal
	}
	return serial.TimesUTC
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
