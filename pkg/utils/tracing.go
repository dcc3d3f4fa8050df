package utils

import (
	"os"
	"strconv"
	"strings"

	"github.com/noctura/landing/pkg/constants"
)

func IsTracingEnabled() bool {
	return GetEnvBool("OTEL_TRACES_ENABLED", false)
}

func OTelServiceName() string {
	return GetEnvTrimmedOrDefault("OTEL_SERVICE_NAME", constants.DefaultServiceName)
}

// GetEnvBool returns fallback when the variable is unset or not a valid bool.
func GetEnvBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))

	if v == "" {
		return fallback
	}

	b, err := strconv.ParseBool(v)

	if err != nil {
		return fallback
	}

	return b
}
