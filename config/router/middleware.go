package router

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/noctura/landing/internal/log"
	apperrors "github.com/noctura/landing/pkg/errors"
	"github.com/noctura/landing/pkg/ratelimit"
)

const CorrelationIDHeader = "X-Correlation-ID"

func (routerService *RouterService) correlationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(CorrelationIDHeader))
		if id == "" || len(id) > 128 {
			id = log.GenerateCorrelationID()
		}
		c.Request = c.Request.WithContext(log.ContextWithCorrelationID(c.Request.Context(), id))
		c.Header(CorrelationIDHeader, id)
		c.Next()
	}
}

func (routerService *RouterService) loggerInjectionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlatedLogger := routerService.logger.WithCorrelationID(c.Request.Context())
		c.Request = c.Request.WithContext(log.ContextWithLogger(c.Request.Context(), correlatedLogger))
		c.Next()
	}
}

func (routerService *RouterService) requestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		correlatedLogger := routerService.logger.WithCorrelationID(c.Request.Context())
		correlatedLogger.Info("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", latency.Milliseconds(),
			"remote_addr", c.ClientIP(),
		)
	}
}

func (routerService *RouterService) securityHeadersMiddleware() gin.HandlerFunc {
	hsts := routerService.middlewareConfig.HSTS
	hstsValue := buildHSTSValue(hsts)

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'self'; img-src 'self' data:; style-src 'self'; script-src 'self'; form-action 'self'; frame-ancestors 'none'")

		if hsts.Enabled && isEffectivelyHTTPS(c) {
			h.Set("Strict-Transport-Security", hstsValue)
		}
		c.Next()
	}
}

// isEffectivelyHTTPS also honours TLS terminated at a reverse proxy.
func isEffectivelyHTTPS(c *gin.Context) bool {
	if c.Request.TLS != nil {
		return true
	}
	proto := strings.ToLower(strings.TrimSpace(c.GetHeader("X-Forwarded-Proto")))
	return proto == "https"
}

func buildHSTSValue(cfg HSTSConfig) string {
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultHSTSMaxAge
	}

	value := fmt.Sprintf("max-age=%d", maxAge)
	if cfg.IncludeSubdomains {
		value += "; includeSubDomains"
	}
	return value
}

func (routerService *RouterService) maxBodySizeMiddleware() gin.HandlerFunc {
	maxBytes := routerService.middlewareConfig.MaxBodyBytes

	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, ErrorResult(
				http.StatusRequestEntityTooLarge,
				"Request payload too large",
				nil,
			).ToJSON())
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

func (routerService *RouterService) corsMiddleware() gin.HandlerFunc {
	allowedOrigins := routerService.middlewareConfig.AllowedOrigins

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}

		if len(allowedOrigins) == 0 {
			routerService.logger.Warn("CORS_ALLOWED_ORIGIN not set, denying cross-origin request", "origin", origin)
			c.Next()
			return
		}

		originAllowed := false
		for _, allowedOrigin := range allowedOrigins {
			if allowedOrigin == "*" || allowedOrigin == origin {
				originAllowed = true
				break
			}
		}

		if !originAllowed {
			routerService.logger.Warn("CORS origin not allowed", "origin", origin, "allowed_origins", allowedOrigins)
			c.Next()
			return
		}

		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Vary", "Origin")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept, Accept-Encoding, Origin, Cache-Control, X-Requested-With, X-Correlation-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(apperrors.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (routerService *RouterService) timeoutMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		timeout := routerService.middlewareConfig.TimeoutDuration
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		// Never call c.Next() in a goroutine; gin.Context is not safe for concurrent use.
		c.Next()

		// Mid-flight enforcement is left to the http.Server Read/WriteTimeouts.
		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			correlatedLogger := routerService.logger.WithCorrelationID(c.Request.Context())
			correlatedLogger.Warn("Request timeout detected")
			c.AbortWithStatusJSON(http.StatusRequestTimeout, ErrorResult(
				apperrors.StatusRequestTimeout,
				"Request timeout",
				nil,
			).ToJSON())
			return
		}
	}
}

func (routerService *RouterService) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			// Unmatched routes fall through to NoRoute/NoMethod.
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		handlerKey := routerService.keyForPathAndMethod(route, c.Request.Method)
		handlerController, controllerFound := routerService.handlerToControllerMap[handlerKey]
		handlerOverride, handlerRouterFound := routerService.rateLimitOverrides[handlerKey]

		if !controllerFound || handlerController == nil {
			routerService.logger.Error("Possible development anomaly detected. A handler might have been configured without a controller mapping", "path", c.Request.URL.Path, "cases", []string{
				"Incorrect mounting of controller, direct handler registration without controller, improper handler path normalization, or misconfiguration in route definitions",
				"Usage of a non-existent handler. Possible round robin brute force attack or incorrect utilization by an engineer",
			})
			c.AbortWithStatusJSON(http.StatusNotFound, NotFoundResult(fmt.Sprintf("There is no handler configured to handle any resource at the path %s", c.Request.URL.Path)).ToJSON())
			return
		}

		controllerOverride, controllerRouterFound := routerService.rateLimitOverrides[handlerController.mountPoint]

		var usedLimiter ratelimit.RateLimiter = routerService.rateLimiter

		// Handler overrides take precedence over controller overrides.
		if controllerRouterFound {
			usedLimiter = controllerOverride
		}
		if handlerRouterFound {
			usedLimiter = handlerOverride
		}

		if usedLimiter == nil {
			c.Next()
			return
		}

		limit, window := usedLimiter.GetLimitDetails()
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Window", window.String())

		limited, err := usedLimiter.IsLimited(c.Request.Context(), clientIP)
		if err != nil {
			// Infrastructure failures must not block legitimate signups.
			routerService.logger.WithCorrelationID(c.Request.Context()).Error("Rate limiter error", "error", err, "client_ip", clientIP)
			c.Next()
			return
		}

		if limited {
			routerService.logger.WithCorrelationID(c.Request.Context()).Warn("Rate limit exceeded", "client_ip", clientIP, "route", route)
			retryAfterSeconds := int(math.Ceil(window.Seconds()))
			if retryAfterSeconds < 1 {
				retryAfterSeconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, TooManyRequestsResult(RateLimitResponse{
				Limit:      limit,
				Window:     window.String(),
				RetryAfter: strconv.Itoa(retryAfterSeconds),
			}).ToJSON())
			return
		}

		c.Next()
	}
}
