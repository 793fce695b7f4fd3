package ai

import (
	"fmt"

	"golang.org/x/sync/semaphore"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/service/ratelimiter"
)

// Throttle is the single serialization point across concurrent analyses: one
// token bucket for total call rate and one semaphore for the in-flight
// ceiling, shared by every provider client. Callers queue on both; nothing
// is rejected.
type Throttle struct {
	limiter ratelimiter.Limiter
	sem     *semaphore.Weighted
}

// NewThrottle builds the shared throttle. maxInFlight <= 0 means no ceiling.
func NewThrottle(limiter ratelimiter.Limiter, maxInFlight int) *Throttle {
	t := &Throttle{limiter: limiter}
	if maxInFlight > 0 {
		t.sem = semaphore.NewWeighted(int64(maxInFlight))
	}
	return t
}

// throttledClient decorates a provider client with the shared throttle.
// Same decorator shape the registry composes with the observable wrapper.
type throttledClient struct {
	base     domain.ProviderClient
	throttle *Throttle
}

// NewThrottledClient wraps base so every Generate call first queues on the
// shared throttle.
func NewThrottledClient(base domain.ProviderClient, t *Throttle) domain.ProviderClient {
	if t == nil {
		return base
	}
	return &throttledClient{base: base, throttle: t}
}

func (c *throttledClient) ID() domain.ProviderID { return c.base.ID() }

func (c *throttledClient) Generate(ctx domain.Context, prompt string, maxTokens int) (string, error) {
	if c.throttle.sem != nil {
		if err := c.throttle.sem.Acquire(ctx, 1); err != nil {
			return "", fmt.Errorf("op=throttle.inflight: %w", err)
		}
		defer c.throttle.sem.Release(1)
	}
	if c.throttle.limiter != nil {
		if err := c.throttle.limiter.Acquire(ctx); err != nil {
			return "", fmt.Errorf("op=throttle.rate: %w", err)
		}
	}
	return c.base.Generate(ctx, prompt, maxTokens)
}
