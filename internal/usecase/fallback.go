package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/observability"
)

// Pipeline stages, used as the metric/log label for fallback substitutions.
const (
	stageAnswer    = "answer"
	stageSkill     = "skill"
	stageSynthesis = "synthesis"
)

// callPolicy bundles a resolved provider client with its retry/timeout
// budget and the configured backoff shape.
type callPolicy struct {
	client          domain.ProviderClient
	cfg             domain.ProviderConfig
	initialInterval time.Duration
	maxInterval     time.Duration
	multiplier      float64
}

// generate runs one provider call under the policy: per-attempt timeout from
// the provider config, exponential backoff across attempts, total attempts
// bounded by MaxRetries+1.
func (p callPolicy) generate(ctx domain.Context, prompt string, maxTokens int) (string, error) {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = p.initialInterval
	expo.MaxInterval = p.maxInterval
	expo.Multiplier = p.multiplier

	var out string
	op := func() error {
		cctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
		raw, err := p.client.Generate(cctx, prompt, maxTokens)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("%w: %v", domain.ErrUpstreamTimeout, err)
			}
			return err
		}
		out = raw
		return nil
	}
	err := backoff.Retry(op, backoff.WithContext(
		backoff.WithMaxRetries(expo, uint64(p.cfg.MaxRetries)), ctx))
	return out, err
}

// callWithFallback is the tolerant provider call shared by all three
// aggregation levels. No error escapes it: a transport failure, timeout, or
// unparseable response yields the fallback value, logged and counted. This is
// what guarantees one malformed response never aborts the other N-1 answers.
func callWithFallback[T any](ctx domain.Context, p callPolicy, stage, prompt string, maxTokens int, parse func(string) (T, bool), fallback T) T {
	lg := observability.LoggerFromContext(ctx)
	raw, err := p.generate(ctx, prompt, maxTokens)
	if err != nil {
		lg.Warn("provider call failed, substituting fallback",
			slog.String("stage", stage),
			slog.String("provider", string(p.client.ID())),
			slog.Any("error", err))
		observability.FallbacksTotal.WithLabelValues(stage).Inc()
		return fallback
	}
	v, ok := parse(raw)
	if !ok {
		lg.Warn("unparseable provider response, substituting fallback",
			slog.String("stage", stage),
			slog.String("provider", string(p.client.ID())),
			slog.Int("response_len", len(raw)))
		observability.FallbacksTotal.WithLabelValues(stage).Inc()
		return fallback
	}
	return v
}
