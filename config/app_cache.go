package config

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/noctura/landing/internal/log"
	pkgredis "github.com/noctura/landing/pkg/redis"
	"github.com/noctura/landing/pkg/utils"
)

// Cache is the external cache backing the Redis rate limiters and the health check.
type Cache interface {
	Ping(ctx context.Context) error
	Close() error
}

type CacheConfig struct {
	Host        string
	Port        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

func NewCacheConfig() *CacheConfig {
	db := 0
	if raw := utils.GetEnvTrimmed("REDIS_DB"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			db = parsed
		}
	}

	return &CacheConfig{
		Host:        os.Getenv("REDIS_HOST"),
		Port:        utils.GetEnvOrDefault("REDIS_PORT", "6379"),
		Password:    os.Getenv("REDIS_PASSWORD"),
		DB:          db,
		DialTimeout: utils.GetEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
	}
}

func (cc *CacheConfig) IsConfigured() bool {
	return cc.Host != ""
}

func (cc *CacheConfig) NewCache(logger *log.Logger) (Cache, error) {
	if !cc.IsConfigured() {
		logger.Error("Cache (Redis) configuration is missing")
		return nil, ErrCacheNotConfigured
	}

	cache, err := pkgredis.NewRedisCache(&pkgredis.Config{
		Host:        cc.Host,
		Port:        cc.Port,
		Password:    cc.Password,
		DB:          cc.DB,
		DialTimeout: cc.DialTimeout,
	})
	if err != nil {
		logger.Error("Failed to create Cache (Redis)", "error", err)
		return nil, err
	}

	logger.Info("Cache (Redis) connected successfully", "host", cc.Host, "db", cc.DB)
	return cache, nil
}

// NewCacheOrNil degrades to no cache so rate limiting falls back to in-memory limiters.
func (cc *CacheConfig) NewCacheOrNil(logger *log.Logger) Cache {
	if !cc.IsConfigured() {
		logger.Info("Cache (Redis) is not configured; proceeding without external cache")
		return nil
	}

	cache, err := cc.NewCache(logger)
	if err != nil {
		logger.Warn("Proceeding without external cache", "error", err)
		return nil
	}

	return cache
}

func CloseCache(cache Cache, logger *log.Logger) error {
	if cache == nil {
		logger.Info("No cache provided; skipping cache close")
		return nil
	}

	if err := cache.Close(); err != nil {
		logger.Error("Failed to close cache", "error", err)
		return err
	}

	logger.Info("Cache connection closed")
	return nil
}

var ErrCacheNotConfigured = &CacheError{Message: "cache host is not configured"}

type CacheError struct {
	Message string
}

func (e *CacheError) Error() string {
	return e.Message
}
