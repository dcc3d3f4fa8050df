package config

import (
	"context"
	"time"

	"github.com/noctura/landing/config/router"
	"github.com/noctura/landing/internal/log"
	"github.com/noctura/landing/internal/models"
	"github.com/noctura/landing/pkg/constants"
	"github.com/noctura/landing/pkg/utils"
	"gorm.io/gorm"
)

type ApplicationConfig struct {
	DB              *gorm.DB
	DBConfig        *DBConfig
	RouterService   *router.RouterService
	Logger          *log.Logger
	Cache           Cache
	Config          *AppConfig
	Waitlist        *WaitlistConfig
	TracingShutdown func(context.Context) error

	cleanups []func()
}

type AppConfig struct {
	Port              string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RequestTimeout    time.Duration
	MigrationsDir     string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		Port:              utils.GetEnvTrimmedOrDefault("APP_PORT", router.DefaultPort),
		RateLimitRequests: utils.GetEnvPositiveInt("RATE_LIMIT_REQUESTS", constants.DefaultRateLimitRequests),
		RateLimitWindow:   utils.GetEnvDuration("RATE_LIMIT_WINDOW", constants.DefaultRateLimitWindow()),
		RequestTimeout:    utils.GetEnvDuration("REQUEST_TIMEOUT", router.DefaultTimeoutDuration),
		MigrationsDir:     utils.GetEnvTrimmedOrDefault("MIGRATIONS_DIR", "migrations"),
	}
}

// NewRouterConfig reads the HTTP surface settings; HSTS defaults on in production.
func NewRouterConfig(appConfig *AppConfig) *router.RouterConfig {
	return &router.RouterConfig{
		Port:               appConfig.Port,
		GinMode:            utils.GetEnvTrimmed("GIN_MODE"),
		RateLimitRequests:  appConfig.RateLimitRequests,
		RateLimitWindow:    appConfig.RateLimitWindow,
		RequestTimeout:     appConfig.RequestTimeout,
		TrustedProxies:     utils.GetEnvTrimmed("TRUSTED_PROXIES"),
		MaxBodyBytes:       utils.GetEnvPositiveInt64("MAX_REQUEST_BODY_BYTES", router.DefaultMaxBodyBytes),
		CORSAllowedOrigins: utils.SplitCSV(utils.GetEnvTrimmed("CORS_ALLOWED_ORIGIN")),
		HSTS: router.HSTSConfig{
			Enabled:           utils.GetEnvBool("HSTS_ENABLED", IsProductionEnv(GetAppEnv())),
			MaxAge:            utils.GetEnvPositiveInt64("HSTS_MAX_AGE", router.DefaultHSTSMaxAge),
			IncludeSubdomains: utils.GetEnvBool("HSTS_INCLUDE_SUBDOMAINS", true),
		},
		MetricsEnabled: utils.GetEnvBool("METRICS_ENABLED", true),
		TracingEnabled: utils.IsTracingEnabled(),
		ServiceName:    utils.OTelServiceName(),
	}
}

// OnCleanup registers fn to run before the router, database and cache are released.
func (ac *ApplicationConfig) OnCleanup(fn func()) {
	ac.cleanups = append(ac.cleanups, fn)
}

func (ac *ApplicationConfig) Cleanup() {
	for i := len(ac.cleanups) - 1; i >= 0; i-- {
		ac.cleanups[i]()
	}

	if ac.TracingShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ac.TracingShutdown(ctx); err != nil {
			ac.Logger.Error("Failed to shutdown tracer provider", "error", err)
		}
	}

	if ac.DB != nil {
		CloseDatabase(ac.DB, ac.Logger)
	}

	if ac.RouterService != nil {
		ac.RouterService.Cleanup()
	}

	if ac.Cache != nil {
		_ = CloseCache(ac.Cache, ac.Logger)
	}

	ac.Logger.Info("Application cleanup completed")
}

func LoadApplicationConfiguration(logger *log.Logger, autoMigrate bool) (*ApplicationConfig, error) {
	InitializeEnvFile(logger)

	if autoMigrate {
		appEnv := GetAppEnv()
		if err := ValidateAutoMigrateAllowed(appEnv); err != nil {
			return nil, err
		}
		if appEnv == "" {
			logger.Warn("APP_ENV not set; allowing --auto-migrate as development")
		}
	}

	waitlistConfig := NewWaitlistConfig()
	if err := waitlistConfig.Validate(); err != nil {
		return nil, err
	}

	tracingShutdown, err := SetupTracing(logger)
	if err != nil {
		return nil, err
	}

	dbConfig := NewDBConfig()
	db, err := NewDatabaseOrNil(logger, dbConfig)
	if err != nil {
		return nil, err
	}

	if autoMigrate {
		if db == nil {
			logger.Warn("--auto-migrate requested but no database is configured; skipping")
		} else if err := AutoMigrate(logger, db, models.ModelRegistry...); err != nil {
			return nil, err
		}
	}

	appConfig := NewAppConfig()
	cache := NewCacheConfig().NewCacheOrNil(logger)

	routerService := router.CreateRouterService(logger, cache, NewRouterConfig(appConfig))

	logger.Info("Application configuration loaded successfully",
		"relay", waitlistConfig.Relay,
		"delivery", waitlistConfig.Delivery,
		"database", dbConfig.Driver,
		"cache", cache != nil,
	)

	return &ApplicationConfig{
		DB:              db,
		DBConfig:        dbConfig,
		RouterService:   routerService,
		Logger:          logger,
		Cache:           cache,
		Config:          appConfig,
		Waitlist:        waitlistConfig,
		TracingShutdown: tracingShutdown,
	}, nil
}
