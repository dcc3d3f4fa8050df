package factory

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/noctura/landing/pkg/ratelimit"
)

type Cache interface {
	Ping(ctx context.Context) error
}

type RedisClientProvider interface {
	GetClient() *redis.Client
}

type RateLimiterFactory interface {
	// CreateRateLimiter builds a limiter whose Redis keys, if any, are namespaced by name.
	CreateRateLimiter(name string, requests int, window time.Duration) ratelimit.RateLimiter
}

// DefaultRateLimiterFactory shares one Redis client across limiters and falls back to
// in-memory limiters when no client is available.
type DefaultRateLimiterFactory struct {
	redisClient *redis.Client
	logger      ratelimit.Logger
}

func NewDefaultRateLimiterFactory(cache Cache, logger ratelimit.Logger) *DefaultRateLimiterFactory {
	return NewRateLimiterFactoryWithClient(RedisClientFromCache(cache), logger)
}

func NewRateLimiterFactoryWithClient(client *redis.Client, logger ratelimit.Logger) *DefaultRateLimiterFactory {
	return &DefaultRateLimiterFactory{
		redisClient: client,
		logger:      logger,
	}
}

func (f *DefaultRateLimiterFactory) CreateRateLimiter(name string, requests int, window time.Duration) ratelimit.RateLimiter {
	prefix := "ratelimit:"
	if name != "" {
		prefix = "ratelimit:" + name + ":"
	}

	return ratelimit.NewRateLimiter(&ratelimit.RateLimitConfig{
		Requests:  requests,
		Window:    window,
		KeyPrefix: prefix,
		Redis:     f.redisClient,
		Logger:    f.logger,
	})
}

func (f *DefaultRateLimiterFactory) IsDistributed() bool {
	return f.redisClient != nil
}

func RedisClientFromCache(cache Cache) *redis.Client {
	if cache == nil {
		return nil
	}

	if provider, ok := cache.(RedisClientProvider); ok {
		return provider.GetClient()
	}

	return nil
}
