package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRateLimiter_IsLimited_IsPerKey(t *testing.T) {
	ctx := context.Background()
	limiter := NewInMemoryRateLimiter(1, time.Second)

	limited, err := limiter.IsLimited(ctx, "client-a")
	require.NoError(t, err)
	assert.False(t, limited, "first request for client-a should not be limited")

	limited, err = limiter.IsLimited(ctx, "client-a")
	require.NoError(t, err)
	assert.True(t, limited, "second immediate request for client-a should be limited")

	limited, err = limiter.IsLimited(ctx, "client-b")
	require.NoError(t, err)
	assert.False(t, limited, "first request for client-b should not be limited (per-key limiter)")
}

func TestInMemoryRateLimiter_EvictsIdleKeys(t *testing.T) {
	limiter := NewInMemoryRateLimiter(5, time.Second)
	_, _ = limiter.IsLimited(context.Background(), "stale")

	limiter.evictIdle(time.Now().Add(time.Minute))

	assert.Empty(t, limiter.limiters)
}

func TestNewRateLimiter_FallsBackToInMemory(t *testing.T) {
	limiter := NewRateLimiter(&RateLimitConfig{Requests: 30, Window: time.Minute})

	_, ok := limiter.(*InMemoryRateLimiter)
	assert.True(t, ok)

	requests, window := limiter.GetLimitDetails()
	assert.Equal(t, 30, requests)
	assert.Equal(t, time.Minute, window)
	assert.NoError(t, limiter.Close())
}
