package constants

import "time"

// DefaultServiceName identifies this service in traces and logs when OTEL_SERVICE_NAME is unset.
const DefaultServiceName = "noctura-landing"

// Default rate limiting configuration
const (
	// DefaultRateLimitRequests is the default number of requests allowed per time window
	DefaultRateLimitRequests = 100
	// DefaultRateLimitWindowMinutes is the default time window for rate limiting
	DefaultRateLimitWindowMinutes = 1
)

// DefaultRateLimitWindow returns the default rate limit window duration
func DefaultRateLimitWindow() time.Duration {
	return time.Duration(DefaultRateLimitWindowMinutes) * time.Minute
}
