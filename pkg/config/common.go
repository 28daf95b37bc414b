package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/sosodev/duration"
)

// GetEnvOrDefault retrieves an environment variable or returns a default value
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvBool retrieves an environment variable as a boolean.
// Returns the default value if not set or invalid.
func GetEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// ParseISODuration converts an ISO 8601 duration string (e.g. "PT24H",
// "P30D") into a time.Duration, falling back when the value does not parse
func ParseISODuration(value string, fallback time.Duration) time.Duration {
	d, err := duration.Parse(value)
	if err != nil {
		slog.Warn("Invalid ISO 8601 duration, using fallback", "value", value, "fallback", fallback)
		return fallback
	}
	return d.ToTimeDuration()
}
