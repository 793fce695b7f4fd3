// Package ratelimiter bounds outbound provider calls. Requests beyond the
// budget queue until a token frees up; they are never rejected.
package ratelimiter

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter blocks until the caller may proceed, or until ctx is done.
type Limiter interface {
	Acquire(ctx context.Context) error
}

// BucketConfig describes one token bucket.
type BucketConfig struct {
	Capacity   int64
	RefillRate float64 // tokens per second
}

// NewBucketConfigFromPerMinute converts a per-minute budget into a bucket.
func NewBucketConfigFromPerMinute(perMinute int) BucketConfig {
	if perMinute <= 0 {
		return BucketConfig{}
	}
	return BucketConfig{
		Capacity:   int64(perMinute),
		RefillRate: float64(perMinute) / 60.0,
	}
}

// LocalLimiter is the in-process token bucket used when no Redis is
// configured. Safe for concurrent use.
type LocalLimiter struct {
	l *rate.Limiter
}

// NewLocalLimiter builds a LocalLimiter from a bucket config. A zero config
// yields an unlimited limiter.
func NewLocalLimiter(cfg BucketConfig) *LocalLimiter {
	if cfg.Capacity <= 0 {
		return &LocalLimiter{l: rate.NewLimiter(rate.Inf, 1)}
	}
	return &LocalLimiter{l: rate.NewLimiter(rate.Limit(cfg.RefillRate), int(cfg.Capacity))}
}

// Acquire waits for a token.
func (ll *LocalLimiter) Acquire(ctx context.Context) error {
	return ll.l.Wait(ctx)
}
