package utils

import (
	"os"
	"strconv"
	"strings"
	"time"
)

func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

func GetEnvTrimmed(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func GetEnvTrimmedOrDefault(key, defaultValue string) string {
	v := strings.TrimSpace(os.Getenv(key))

	if v == "" {
		return defaultValue
	}

	return v
}

// GetEnvPositiveInt ignores values that are missing, malformed, or not greater than zero.
func GetEnvPositiveInt(key string, defaultValue int) int {
	if raw := GetEnvTrimmed(key); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
	}

	return defaultValue
}

func GetEnvPositiveInt64(key string, defaultValue int64) int64 {
	if raw := GetEnvTrimmed(key); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			return parsed
		}
	}

	return defaultValue
}

func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if raw := GetEnvTrimmed(key); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			return parsed
		}
	}

	return defaultValue
}

// SplitCSV trims each element and drops empty ones.
func SplitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}
