package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 3, cfg.ScoreBatchSize)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 100, cfg.CacheCapacity)
	assert.Equal(t, 10, cfg.AICallsPerMinute)
	assert.Equal(t, 5, cfg.AIMaxInFlight)
	assert.True(t, cfg.IsDev())
	assert.False(t, cfg.IsProd())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("PORT", "9090")
	t.Setenv("SCORE_BATCH_SIZE", "5")
	t.Setenv("PROVIDER_TIMEOUT", "10s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProd())
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 5, cfg.ScoreBatchSize)
	assert.Equal(t, 10*time.Second, cfg.ProviderTimeout)
}

func TestGetAIBackoffConfig_TestModeShrinks(t *testing.T) {
	t.Parallel()
	cfg := Config{AppEnv: "test", AIBackoffInitialInterval: time.Second, AIBackoffMaxInterval: 10 * time.Second, AIBackoffMultiplier: 2.0}
	initial, maxIv, mult := cfg.GetAIBackoffConfig()
	assert.Equal(t, 10*time.Millisecond, initial)
	assert.Equal(t, 100*time.Millisecond, maxIv)
	assert.Equal(t, 2.0, mult)

	cfg.AppEnv = "prod"
	initial, maxIv, _ = cfg.GetAIBackoffConfig()
	assert.Equal(t, time.Second, initial)
	assert.Equal(t, 10*time.Second, maxIv)
}

func TestProviderConfigs_EnabledIffKeyPresent(t *testing.T) {
	t.Parallel()
	cfg := Config{
		OpenAIAPIKey:       "sk-test",
		GeminiAPIKey:       "",
		AnthropicAPIKey:    "",
		ProviderTimeout:    30 * time.Second,
		ProviderMaxRetries: 2,
	}
	configs, err := cfg.ProviderConfigs()
	require.NoError(t, err)
	require.Len(t, configs, 3)

	byID := map[domain.ProviderID]domain.ProviderConfig{}
	for _, c := range configs {
		byID[c.ID] = c
	}
	assert.True(t, byID[domain.ProviderOpenAI].Enabled)
	assert.False(t, byID[domain.ProviderAnthropic].Enabled)
	assert.False(t, byID[domain.ProviderGemini].Enabled)
	assert.Equal(t, 1, byID[domain.ProviderOpenAI].Priority)
	assert.Equal(t, 2, byID[domain.ProviderAnthropic].Priority)
	assert.Equal(t, 3, byID[domain.ProviderGemini].Priority)
	assert.Equal(t, 2, byID[domain.ProviderOpenAI].MaxRetries)
	assert.Equal(t, 30*time.Second, byID[domain.ProviderOpenAI].Timeout)
}

func TestProviderConfigs_FileOverlay(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "providers.yaml")
	data := `providers:
  - id: openai
    priority: 9
    max_retries: 0
    disabled: true
  - id: gemini
    timeout: 45s
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg := Config{
		OpenAIAPIKey:       "sk-test",
		GeminiAPIKey:       "g-test",
		ProviderTimeout:    30 * time.Second,
		ProviderMaxRetries: 2,
		ProvidersFile:      path,
	}
	configs, err := cfg.ProviderConfigs()
	require.NoError(t, err)

	byID := map[domain.ProviderID]domain.ProviderConfig{}
	for _, c := range configs {
		byID[c.ID] = c
	}
	assert.False(t, byID[domain.ProviderOpenAI].Enabled, "overlay disables openai despite key")
	assert.Equal(t, 9, byID[domain.ProviderOpenAI].Priority)
	assert.Equal(t, 0, byID[domain.ProviderOpenAI].MaxRetries)
	assert.Equal(t, 45*time.Second, byID[domain.ProviderGemini].Timeout)
	assert.True(t, byID[domain.ProviderGemini].Enabled)
}

func TestProviderConfigs_MissingFile(t *testing.T) {
	t.Parallel()
	cfg := Config{ProvidersFile: "/nonexistent/providers.yaml"}
	_, err := cfg.ProviderConfigs()
	require.Error(t, err)
}
