package factory

import (
	"context"
	"testing"
	"time"

	"github.com/noctura/landing/pkg/ratelimit"
	"github.com/stretchr/testify/assert"
)

type pingOnlyCache struct{}

func (pingOnlyCache) Ping(context.Context) error { return nil }

func TestDefaultRateLimiterFactory_InMemoryWithoutRedis(t *testing.T) {
	f := NewDefaultRateLimiterFactory(pingOnlyCache{}, nil)
	assert.False(t, f.IsDistributed())

	limiter := f.CreateRateLimiter("waitlist", 30, time.Minute)
	_, ok := limiter.(*ratelimit.InMemoryRateLimiter)
	assert.True(t, ok)
}

func TestRedisClientFromCache_Nil(t *testing.T) {
	assert.Nil(t, RedisClientFromCache(nil))
}
