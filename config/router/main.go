package router

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/noctura/landing/internal/log"
	apperrors "github.com/noctura/landing/pkg/errors"
	"github.com/noctura/landing/pkg/factory"
	"github.com/noctura/landing/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const (
	// DefaultTimeoutDuration is the default request timeout
	DefaultTimeoutDuration = 30 * time.Second

	DefaultMaxBodyBytes = int64(1 << 20)
	DefaultHSTSMaxAge   = int64(31536000)
	DefaultPort         = "8080"
)

type MiddlewareConfig struct {
	TimeoutDuration time.Duration
	MaxBodyBytes    int64
	AllowedOrigins  []string
	HSTS            HSTSConfig
}

type HSTSConfig struct {
	Enabled           bool
	MaxAge            int64
	IncludeSubdomains bool
}

type Cache interface {
	Ping(ctx context.Context) error
}

type RouterService struct {
	engine            *gin.Engine
	server            *http.Server
	logger            *log.Logger
	port              string
	rateLimiter       ratelimit.RateLimiter
	rateLimitRequests int
	rateLimitWindow   time.Duration
	limiterFactory    *factory.DefaultRateLimiterFactory
	middlewareConfig  *MiddlewareConfig
	metricsRegistry   *prometheus.Registry
	notFoundPage      PageHandlerFunction

	handlerToControllerMap map[string]*RESTController
	rateLimitOverrides     map[string]ratelimit.RateLimiter
	ownedLimiters          []ratelimit.RateLimiter
}

type RouterConfig struct {
	Port              string
	GinMode           string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RequestTimeout    time.Duration

	// TrustedProxies is a comma-separated CIDR/IP list; "*" trusts everything.
	TrustedProxies     string
	MaxBodyBytes       int64
	CORSAllowedOrigins []string
	HSTS               HSTSConfig

	MetricsEnabled bool
	TracingEnabled bool
	ServiceName    string
}

func (cfg *RouterConfig) applyDefaults() {
	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultTimeoutDuration
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.HSTS.MaxAge <= 0 {
		cfg.HSTS.MaxAge = DefaultHSTSMaxAge
	}
}

func CreateRouterService(logger *log.Logger, cache Cache, routerConfig *RouterConfig) *RouterService {
	if routerConfig == nil {
		routerConfig = &RouterConfig{}
	}
	cfg := *routerConfig
	cfg.applyDefaults()

	if cfg.GinMode != "" {
		logger.Info("Setting Gin mode", "mode", cfg.GinMode)
		gin.SetMode(cfg.GinMode)
	}

	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())

	if cfg.TracingEnabled {
		ginRouter.Use(otelgin.Middleware(cfg.ServiceName))
		logger.Info("Tracing middleware enabled", "service", cfg.ServiceName)
	}

	// Gin trusts every proxy by default, which lets X-Forwarded-For spoof ClientIP().
	trustedProxies := parseTrustedProxies(cfg.TrustedProxies)
	if err := ginRouter.SetTrustedProxies(trustedProxies); err != nil {
		logger.Error("Invalid TRUSTED_PROXIES; disabling trusted proxies", "error", err)
		_ = ginRouter.SetTrustedProxies(nil)
	} else if trustedProxies == nil {
		logger.Info("Trusted proxies disabled (TRUSTED_PROXIES not set)")
	}

	rs := &RouterService{
		engine:            ginRouter,
		logger:            logger,
		port:              cfg.Port,
		rateLimitRequests: cfg.RateLimitRequests,
		rateLimitWindow:   cfg.RateLimitWindow,
		limiterFactory:    factory.NewDefaultRateLimiterFactory(cache, logger),
		metricsRegistry:   prometheus.NewRegistry(),
		middlewareConfig: &MiddlewareConfig{
			TimeoutDuration: cfg.RequestTimeout,
			MaxBodyBytes:    cfg.MaxBodyBytes,
			AllowedOrigins:  cfg.CORSAllowedOrigins,
			HSTS:            cfg.HSTS,
		},

		rateLimitOverrides:     make(map[string]ratelimit.RateLimiter),
		handlerToControllerMap: make(map[string]*RESTController),
	}

	rs.initRateLimiting()

	// Registered before the rest of the chain so scrapes skip rate limiting.
	rs.mountMetrics(cfg.MetricsEnabled)

	ginRouter.Use(rs.securityHeadersMiddleware())
	ginRouter.Use(rs.maxBodySizeMiddleware())
	ginRouter.Use(rs.corsMiddleware())
	ginRouter.Use(rs.correlationIDMiddleware())
	ginRouter.Use(rs.loggerInjectionMiddleware())
	ginRouter.Use(rs.rateLimitMiddleware())
	ginRouter.Use(rs.timeoutMiddleware())
	ginRouter.Use(rs.requestLoggingMiddleware())

	ginRouter.HandleMethodNotAllowed = true
	ginRouter.RedirectTrailingSlash = true

	ginRouter.NoRoute(func(c *gin.Context) {
		correlatedLogger := logger.WithCorrelationID(c.Request.Context())
		correlatedLogger.Warn("Route not found", "path", c.Request.URL.Path)

		if rs.notFoundPage != nil && wantsHTML(c) {
			renderPage(c, rs.notFoundPage(c))
			return
		}

		c.JSON(http.StatusNotFound, gin.H{
			"code":    apperrors.StatusNotFound,
			"message": "Route not found",
			"data":    nil,
		})
	})

	ginRouter.NoMethod(func(c *gin.Context) {
		correlatedLogger := logger.WithCorrelationID(c.Request.Context())
		correlatedLogger.Warn("Method not allowed", "method", c.Request.Method, "path", c.Request.URL.Path)
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"code":    apperrors.StatusMethodNotAllowed,
			"message": "Method not allowed",
			"data":    nil,
		})
	})

	rs.server = &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: ginRouter,

		// Gin's Context is not goroutine-safe, so request time limits live on the server.
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("Router service initialized", "port", cfg.Port)
	return rs
}

func parseTrustedProxies(v string) []string {
	s := strings.TrimSpace(v)
	if s == "" {
		return nil
	}
	if s == "*" {
		return []string{"0.0.0.0/0", "::/0"}
	}
	parts := strings.Split(s, ",")
	proxies := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			proxies = append(proxies, p)
		}
	}
	if len(proxies) == 0 {
		return nil
	}
	return proxies
}

func (routerService *RouterService) initRateLimiting() {
	requests := routerService.rateLimitRequests
	window := routerService.rateLimitWindow

	routerService.rateLimiter = routerService.limiterFactory.CreateRateLimiter("", requests, window)

	if routerService.limiterFactory.IsDistributed() {
		routerService.logger.Info("Rate limiting initialized with Redis",
			"requests", requests,
			"window", window)
	} else {
		routerService.logger.Info("Rate limiting initialized with in-memory limiter",
			"requests", requests,
			"window", window)
	}
}

// NewRateLimiter creates a limiter owned by the router; it is closed in Cleanup.
func (routerService *RouterService) NewRateLimiter(name string, requests int, window time.Duration) ratelimit.RateLimiter {
	limiter := routerService.limiterFactory.CreateRateLimiter(name, requests, window)
	routerService.ownedLimiters = append(routerService.ownedLimiters, limiter)
	return limiter
}

func (routerService *RouterService) GetEngine() *gin.Engine {
	return routerService.engine
}

// MetricsRegisterer is the registry served on /metrics. It is usable even when the endpoint is disabled.
func (routerService *RouterService) MetricsRegisterer() prometheus.Registerer {
	return routerService.metricsRegistry
}

func (routerService *RouterService) GetLogger(c *RequestContext) *log.Logger {
	return routerService.logger.WithCorrelationID(c.Request.Context())
}

// UseNotFoundPage renders an HTML page for unknown routes requested by browsers.
func (routerService *RouterService) UseNotFoundPage(handler PageHandlerFunction) {
	routerService.notFoundPage = handler
}

func (routerService *RouterService) Cleanup() {
	limiters := append([]ratelimit.RateLimiter{routerService.rateLimiter}, routerService.ownedLimiters...)
	for _, limiter := range limiters {
		if limiter == nil {
			continue
		}
		if err := limiter.Close(); err != nil {
			routerService.logger.Error("Failed to close rate limiter", "error", err)
		}
	}
	routerService.logger.Info("Router service cleanup completed")
}

func (routerService *RouterService) MountController(controller *RESTController) {
	routerService.logger.Info("Mounting controller",
		"name", controller.name,
		"path", controller.mountPoint,
		"version", controller.version,
	)

	controller.prepare(routerService, controller)

	routerService.logger.Info("Controller mounted",
		"name", controller.name,
		"handlers", controller.handlerCount,
	)
}

func (routerService *RouterService) RunHTTPServer() error {
	routerService.logger.Info("Starting HTTP server", "addr", routerService.server.Addr)

	if err := routerService.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		routerService.logger.Error("Failed to start HTTP server", "error", err)
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

func (routerService *RouterService) Shutdown(ctx context.Context) error {
	routerService.logger.Info("Shutting down HTTP server gracefully...")
	return routerService.server.Shutdown(ctx)
}

func wantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}
