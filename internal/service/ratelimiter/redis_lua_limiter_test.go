package ratelimiter

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLimiter(t *testing.T, bucket BucketConfig) (*RedisLuaLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisLuaLimiter(rdb, bucket), mr
}

func TestRedisLuaLimiter_AllowsUpToCapacity(t *testing.T) {
	t.Parallel()
	// Negligible refill so the capacity is the whole story.
	l, _ := newRedisLimiter(t, BucketConfig{Capacity: 2, RefillRate: 0.0001})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, _, err := l.Allow(ctx)
		require.NoError(t, err)
		assert.True(t, allowed, "call %d should be within capacity", i)
	}
	allowed, retryAfter, err := l.Allow(ctx)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.GreaterOrEqual(t, retryAfter, time.Duration(0))
}

func TestRedisLuaLimiter_FailsOpenOnRedisError(t *testing.T) {
	t.Parallel()
	l, mr := newRedisLimiter(t, BucketConfig{Capacity: 1, RefillRate: 0.0001})
	mr.Close()

	allowed, _, err := l.Allow(context.Background())
	require.Error(t, err)
	assert.True(t, allowed, "a redis outage must not block provider calls")
}

func TestRedisLuaLimiter_ZeroBucketIsUnlimited(t *testing.T) {
	t.Parallel()
	l, _ := newRedisLimiter(t, BucketConfig{})
	for i := 0; i < 10; i++ {
		allowed, _, err := l.Allow(context.Background())
		require.NoError(t, err)
		assert.True(t, allowed)
	}
}

func TestRedisLuaLimiter_NilClient(t *testing.T) {
	t.Parallel()
	assert.Nil(t, NewRedisLuaLimiter(nil, BucketConfig{Capacity: 1, RefillRate: 1}))

	var l *RedisLuaLimiter
	allowed, _, err := l.Allow(context.Background())
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisLuaLimiter_AcquireQueuesUntilContextDone(t *testing.T) {
	t.Parallel()
	l, _ := newRedisLimiter(t, BucketConfig{Capacity: 1, RefillRate: 0.0001})
	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	err := l.Acquire(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
