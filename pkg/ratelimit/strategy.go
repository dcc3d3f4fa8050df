package ratelimit

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/time/rate"
)

type Logger interface {
	Error(msg string, args ...any)
}

func generateUniqueID() string {
	bytes := make([]byte, 8)

	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// RateLimiter defines the strategy interface for rate limiting
type RateLimiter interface {
	GetLimitDetails() (int, time.Duration)
	IsLimited(ctx context.Context, key string) (bool, error)
	Close() error
}

// InMemoryRateLimiter implements token bucket rate limiting for single instances
type InMemoryRateLimiter struct {
	requests int
	window   time.Duration

	mu       sync.Mutex
	limiters map[string]*keyedLimiter
	ops      uint64
}

type keyedLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewInMemoryRateLimiter(requests int, window time.Duration) *InMemoryRateLimiter {
	return &InMemoryRateLimiter{
		requests: requests,
		window:   window,
		limiters: make(map[string]*keyedLimiter),
	}
}

func (r *InMemoryRateLimiter) GetLimitDetails() (int, time.Duration) {
	return r.requests, r.window
}

func (r *InMemoryRateLimiter) IsLimited(_ context.Context, key string) (bool, error) {
	if key == "" {
		key = "__empty__"
	}

	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	k, ok := r.limiters[key]
	if !ok {
		rps := float64(r.requests) / r.window.Seconds()
		k = &keyedLimiter{
			limiter:  rate.NewLimiter(rate.Limit(rps), r.requests),
			lastSeen: now,
		}
		r.limiters[key] = k
	} else {
		k.lastSeen = now
	}

	// Opportunistic cleanup: drop keys idle for two windows, checked every 1024 calls.
	r.ops++
	if r.ops%1024 == 0 {
		r.evictIdle(now)
	}

	return !k.limiter.AllowN(now, 1), nil
}

func (r *InMemoryRateLimiter) evictIdle(now time.Time) {
	cutoff := now.Add(-2 * r.window)
	for key, kl := range r.limiters {
		if kl.lastSeen.Before(cutoff) {
			delete(r.limiters, key)
		}
	}
}

func (r *InMemoryRateLimiter) Close() error {
	return nil
}

// slidingWindowScript trims the sorted set to the window and admits the caller if room remains.
var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local expire = tonumber(ARGV[4])
	local memberId = ARGV[5]

	redis.call('ZREMRANGEBYSCORE', key, 0, now - window)

	local count = redis.call('ZCARD', key)
	if count >= limit then
		return 1
	end

	redis.call('ZADD', key, now, memberId)
	redis.call('EXPIRE', key, expire)

	return 0
`)

// RedisRateLimiter implements sliding window rate limiting for distributed systems
type RedisRateLimiter struct {
	client    *redis.Client
	requests  int
	window    time.Duration
	keyPrefix string
	logger    Logger
}

func NewRedisRateLimiter(client *redis.Client, requests int, window time.Duration, keyPrefix string, logger Logger) *RedisRateLimiter {
	if keyPrefix == "" {
		keyPrefix = "ratelimit:"
	}

	return &RedisRateLimiter{
		client:    client,
		requests:  requests,
		window:    window,
		keyPrefix: keyPrefix,
		logger:    logger,
	}
}

func (r *RedisRateLimiter) GetLimitDetails() (int, time.Duration) {
	return r.requests, r.window
}

func (r *RedisRateLimiter) IsLimited(ctx context.Context, key string) (bool, error) {
	fullKey := key
	if !strings.HasPrefix(key, r.keyPrefix) {
		fullKey = r.keyPrefix + key
	}

	result, err := slidingWindowScript.Run(
		ctx,
		r.client,
		[]string{fullKey},
		time.Now().Unix(),
		int64(r.window.Seconds()),
		r.requests,
		int64((r.window * 2).Seconds()),
		generateUniqueID(),
	).Int64()
	if err != nil {
		if r.logger != nil {
			r.logger.Error("Redis rate limit script execution failed", "key", fullKey, "error", err)
		}
		// Limiting is a security control: surface the failure instead of silently allowing.
		return false, fmt.Errorf("rate limiter Redis error: %w", err)
	}

	return result == 1, nil
}

// The Redis client is owned by the ApplicationConfig and closed there
func (r *RedisRateLimiter) Close() error {
	return nil
}

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	Requests  int
	Window    time.Duration
	KeyPrefix string        // Optional, Redis only
	Redis     *redis.Client // Optional, if nil uses in-memory
	Logger    Logger        // Optional logger for Redis operations
}

// NewRateLimiter creates a rate limiter based on configuration
func NewRateLimiter(config *RateLimitConfig) RateLimiter {
	if config.Redis != nil {
		return NewRedisRateLimiter(config.Redis, config.Requests, config.Window, config.KeyPrefix, config.Logger)
	}
	return NewInMemoryRateLimiter(config.Requests, config.Window)
}
