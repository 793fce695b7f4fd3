package ai

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	obs "github.com/fairyhunter13/ai-interview-analyzer/internal/adapter/observability"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
)

// observableClient decorates a provider client with Prometheus metrics and a
// tracing span per call.
type observableClient struct {
	base domain.ProviderClient
}

// NewObservableClient wraps base with metrics and tracing.
func NewObservableClient(base domain.ProviderClient) domain.ProviderClient {
	return &observableClient{base: base}
}

func (c *observableClient) ID() domain.ProviderID { return c.base.ID() }

func (c *observableClient) Generate(ctx domain.Context, prompt string, maxTokens int) (string, error) {
	tracer := otel.Tracer("adapter.ai")
	ctx, span := tracer.Start(ctx, "provider.Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.provider", string(c.base.ID())),
		attribute.Int("ai.max_tokens", maxTokens),
		attribute.Int("ai.prompt_len", len(prompt)),
	)

	start := time.Now()
	out, err := c.base.Generate(ctx, prompt, maxTokens)
	obs.AIRequestDuration.WithLabelValues(string(c.base.ID())).Observe(time.Since(start).Seconds())
	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
	}
	obs.AIRequestsTotal.WithLabelValues(string(c.base.ID()), outcome).Inc()
	return out, err
}
