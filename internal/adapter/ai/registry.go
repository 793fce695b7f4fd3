package ai

import (
	"log/slog"
	"sync"
	"time"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/observability"
)

// Registry owns provider configuration and the enabled/disabled state.
// It is passed by reference to the pipeline and the health monitor; the only
// runtime mutation is Disable, and there is no path back to enabled without
// a restart.
type Registry struct {
	mu      sync.RWMutex
	entries []registryEntry
	mock    domain.ProviderClient
	mockCfg domain.ProviderConfig
}

type registryEntry struct {
	cfg    domain.ProviderConfig
	client domain.ProviderClient
}

// NewRegistry builds a registry from startup configs and their clients.
// Configs without a matching client are kept disabled.
func NewRegistry(configs []domain.ProviderConfig, clients map[domain.ProviderID]domain.ProviderClient) *Registry {
	r := &Registry{
		mock: NewMockClient(),
		mockCfg: domain.ProviderConfig{
			ID:      domain.ProviderMock,
			Enabled: true,
			// The mock is local and infallible; no retries needed.
			Priority:   1 << 16,
			MaxRetries: 0,
			Timeout:    5 * time.Second,
		},
	}
	for _, cfg := range configs {
		client, ok := clients[cfg.ID]
		if !ok {
			cfg.Enabled = false
		}
		r.entries = append(r.entries, registryEntry{cfg: cfg, client: client})
	}
	return r
}

// Select resolves the provider for one analysis call. A requested, enabled
// provider wins (the mock is always enabled, so requesting it always
// succeeds); otherwise the enabled provider with the lowest priority number;
// otherwise the mock. Selection never errors, it degrades.
func (r *Registry) Select(requested domain.ProviderID) (domain.ProviderClient, domain.ProviderConfig) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if requested == domain.ProviderMock {
		return r.mock, r.mockCfg
	}
	if requested != "" {
		for _, e := range r.entries {
			if e.cfg.ID == requested && e.cfg.Enabled {
				return e.client, e.cfg
			}
		}
	}
	var best *registryEntry
	for i := range r.entries {
		e := &r.entries[i]
		if !e.cfg.Enabled {
			continue
		}
		if best == nil || e.cfg.Priority < best.cfg.Priority {
			best = e
		}
	}
	if best != nil {
		return best.client, best.cfg
	}
	return r.mock, r.mockCfg
}

// Healthy reports whether a provider is currently enabled. The mock is
// always healthy.
func (r *Registry) Healthy(id domain.ProviderID) bool {
	if id == domain.ProviderMock {
		return true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.cfg.ID == id {
			return e.cfg.Enabled
		}
	}
	return false
}

// Disable marks a provider unusable. One-way: re-enabling requires a
// process restart, a deliberate bias against flapping.
func (r *Registry) Disable(id domain.ProviderID, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].cfg.ID != id || !r.entries[i].cfg.Enabled {
			continue
		}
		r.entries[i].cfg.Enabled = false
		observability.ProvidersDisabledTotal.WithLabelValues(string(id)).Inc()
		slog.Warn("provider disabled",
			slog.String("provider", string(id)),
			slog.String("reason", reason))
	}
}

// Enabled lists currently enabled real providers in registration order.
func (r *Registry) Enabled() []domain.ProviderID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ProviderID, 0, len(r.entries))
	for _, e := range r.entries {
		if e.cfg.Enabled {
			out = append(out, e.cfg.ID)
		}
	}
	return out
}

// enabledEntries snapshots the enabled providers with their clients, for the
// health monitor.
func (r *Registry) enabledEntries() []registryEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]registryEntry, 0, len(r.entries))
	for _, e := range r.entries {
		if e.cfg.Enabled {
			out = append(out, e)
		}
	}
	return out
}
