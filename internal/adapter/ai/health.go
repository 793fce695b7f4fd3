package ai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/usecase"
)

// healthProbePrompt is a minimal scoring request every working provider must
// be able to answer with valid JSON.
const healthProbePrompt = `You are an experienced interviewer evaluating one interview answer.

Question (technical):
What does HTTP status 200 mean?

Candidate Answer:
It means the request succeeded.

Skill Assessed:
http

Return JSON only: {"score": <0-100>, "strengths": [..], "improvements": [..], "feedback": ".."}`

// HealthMonitor periodically self-tests each enabled provider and disables
// any that fails. Disabled providers stay disabled for the process lifetime.
type HealthMonitor struct {
	registry *Registry
	interval time.Duration
}

// NewHealthMonitor constructs a monitor over the given registry.
func NewHealthMonitor(registry *Registry, interval time.Duration) *HealthMonitor {
	return &HealthMonitor{registry: registry, interval: interval}
}

// Run probes on a fixed interval until the context is cancelled. An initial
// sweep runs immediately so a provider that is down at startup is caught
// before the first real request.
func (h *HealthMonitor) Run(ctx context.Context) {
	h.CheckAll(ctx)
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.CheckAll(ctx)
		}
	}
}

// CheckAll probes every currently enabled provider once.
func (h *HealthMonitor) CheckAll(ctx context.Context) {
	for _, e := range h.registry.enabledEntries() {
		if err := h.probe(ctx, e); err != nil {
			h.registry.Disable(e.cfg.ID, err.Error())
			continue
		}
		slog.Debug("provider health check passed", slog.String("provider", string(e.cfg.ID)))
	}
}

// probe issues one synthetic scoring request. A transport error, timeout,
// unparseable response, or clearly out-of-range score all count as failure.
func (h *HealthMonitor) probe(ctx context.Context, e registryEntry) error {
	cctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()
	raw, err := e.client.Generate(cctx, healthProbePrompt, 256)
	if err != nil {
		return fmt.Errorf("op=health.probe: %w", err)
	}
	var ev struct {
		Score *float64 `json:"score"`
	}
	if !usecase.ExtractObject(raw, &ev) || ev.Score == nil {
		return fmt.Errorf("op=health.probe: %w: no score in response", domain.ErrSchemaInvalid)
	}
	if *ev.Score < 0 || *ev.Score > 100 {
		return fmt.Errorf("op=health.probe: %w: score %.1f out of range", domain.ErrSchemaInvalid, *ev.Score)
	}
	return nil
}
