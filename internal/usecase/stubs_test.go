package usecase

import (
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/config"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
)

// scriptedClient returns canned responses keyed by prompt markers and counts
// every call.
type scriptedClient struct {
	id       domain.ProviderID
	calls    atomic.Int64
	generate func(prompt string) (string, error)
}

func (c *scriptedClient) ID() domain.ProviderID { return c.id }

func (c *scriptedClient) Generate(_ domain.Context, prompt string, _ int) (string, error) {
	c.calls.Add(1)
	if c.generate == nil {
		return "", errors.New("no script configured")
	}
	return c.generate(prompt)
}

// stubSelector always resolves to one client and reports a fixed health
// state.
type stubSelector struct {
	client  domain.ProviderClient
	cfg     domain.ProviderConfig
	healthy bool
	selects atomic.Int64
}

func (s *stubSelector) Select(_ domain.ProviderID) (domain.ProviderClient, domain.ProviderConfig) {
	s.selects.Add(1)
	return s.client, s.cfg
}

func (s *stubSelector) Healthy(_ domain.ProviderID) bool { return s.healthy }

func newStubSelector(client domain.ProviderClient) *stubSelector {
	return &stubSelector{
		client: client,
		cfg: domain.ProviderConfig{
			ID:         client.ID(),
			Enabled:    true,
			MaxRetries: 0,
			Timeout:    time.Second,
		},
		healthy: true,
	}
}

// testConfig keeps backoff near-instant and the token cap off so tests run
// without tokenizer data.
func testConfig() config.Config {
	return config.Config{
		AppEnv:           "test",
		ScoreBatchSize:   3,
		DefaultMaxTokens: 256,
		PromptTokenCap:   0,
		CacheTTL:         5 * time.Minute,
		CacheCapacity:    100,
	}
}

// scriptByMarkers dispatches on the stable prompt section markers.
func scriptByMarkers(answerScore func(prompt string) string) func(string) (string, error) {
	return func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "Candidate Answer:"):
			return answerScore(prompt), nil
		case strings.Contains(prompt, "Answers Digest:"):
			return `{"feedback": "consistent reasoning across answers", "strengths": ["clear structure"], "improvements": ["add examples"]}`, nil
		case strings.Contains(prompt, "Skill Summary:"):
			return `{"summary": "a capable candidate", "strengths": "clear communication", "areas_for_improvement": "system depth", "recommendations": "practice design questions"}`, nil
		}
		return "", errors.New("unrecognized prompt")
	}
}
