package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
)

func TestHealthMonitor_DisablesFailingProvider(t *testing.T) {
	t.Parallel()
	clients := map[domain.ProviderID]domain.ProviderClient{
		domain.ProviderOpenAI:    &fakeClient{id: domain.ProviderOpenAI, response: `{"score": 80, "feedback": "ok"}`},
		domain.ProviderAnthropic: &fakeClient{id: domain.ProviderAnthropic, err: errors.New("401 unauthorized")},
	}
	configs := []domain.ProviderConfig{
		{ID: domain.ProviderOpenAI, Enabled: true, Priority: 1, Timeout: time.Second},
		{ID: domain.ProviderAnthropic, Enabled: true, Priority: 2, Timeout: time.Second},
	}
	r := NewRegistry(configs, clients)
	m := NewHealthMonitor(r, time.Minute)

	m.CheckAll(context.Background())

	assert.True(t, r.Healthy(domain.ProviderOpenAI))
	assert.False(t, r.Healthy(domain.ProviderAnthropic))
	assert.Equal(t, []domain.ProviderID{domain.ProviderOpenAI}, r.Enabled())
}

func TestHealthMonitor_UnparseableResponseFailsProbe(t *testing.T) {
	t.Parallel()
	clients := map[domain.ProviderID]domain.ProviderClient{
		domain.ProviderGemini: &fakeClient{id: domain.ProviderGemini, response: "I'd be happy to help!"},
	}
	configs := []domain.ProviderConfig{
		{ID: domain.ProviderGemini, Enabled: true, Priority: 1, Timeout: time.Second},
	}
	r := NewRegistry(configs, clients)
	NewHealthMonitor(r, time.Minute).CheckAll(context.Background())
	assert.False(t, r.Healthy(domain.ProviderGemini))
}

func TestHealthMonitor_OutOfRangeScoreFailsProbe(t *testing.T) {
	t.Parallel()
	clients := map[domain.ProviderID]domain.ProviderClient{
		domain.ProviderOpenAI: &fakeClient{id: domain.ProviderOpenAI, response: `{"score": 300}`},
	}
	configs := []domain.ProviderConfig{
		{ID: domain.ProviderOpenAI, Enabled: true, Priority: 1, Timeout: time.Second},
	}
	r := NewRegistry(configs, clients)
	NewHealthMonitor(r, time.Minute).CheckAll(context.Background())
	assert.False(t, r.Healthy(domain.ProviderOpenAI))
}

func TestHealthMonitor_DisabledProvidersAreNotProbed(t *testing.T) {
	t.Parallel()
	failing := &fakeClient{id: domain.ProviderOpenAI, err: errors.New("down")}
	clients := map[domain.ProviderID]domain.ProviderClient{domain.ProviderOpenAI: failing}
	configs := []domain.ProviderConfig{
		{ID: domain.ProviderOpenAI, Enabled: true, Priority: 1, Timeout: time.Second},
	}
	r := NewRegistry(configs, clients)
	m := NewHealthMonitor(r, time.Minute)

	m.CheckAll(context.Background())
	require.Equal(t, int64(1), failing.calls.Load())

	// The provider is now disabled; further sweeps skip it.
	m.CheckAll(context.Background())
	assert.Equal(t, int64(1), failing.calls.Load())
}
