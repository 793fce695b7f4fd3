package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
)

// ProviderOverride is one entry in the optional providers file. Timeout is a
// Go duration string ("45s", "2m").
type ProviderOverride struct {
	ID         string `yaml:"id"`
	Priority   *int   `yaml:"priority,omitempty"`
	MaxRetries *int   `yaml:"max_retries,omitempty"`
	Timeout    string `yaml:"timeout,omitempty"`
	Disabled   bool   `yaml:"disabled,omitempty"`
}

type providersFile struct {
	Providers []ProviderOverride `yaml:"providers"`
}

// ProviderConfigs derives the startup provider set: a provider is enabled iff
// its credential is present, ordered by built-in priority (openai, anthropic,
// gemini), then adjusted by the optional PROVIDERS_FILE overlay.
func (c Config) ProviderConfigs() ([]domain.ProviderConfig, error) {
	configs := []domain.ProviderConfig{
		{ID: domain.ProviderOpenAI, Enabled: c.OpenAIAPIKey != "", Priority: 1, MaxRetries: c.ProviderMaxRetries, Timeout: c.ProviderTimeout},
		{ID: domain.ProviderAnthropic, Enabled: c.AnthropicAPIKey != "", Priority: 2, MaxRetries: c.ProviderMaxRetries, Timeout: c.ProviderTimeout},
		{ID: domain.ProviderGemini, Enabled: c.GeminiAPIKey != "", Priority: 3, MaxRetries: c.ProviderMaxRetries, Timeout: c.ProviderTimeout},
	}
	if c.ProvidersFile == "" {
		return configs, nil
	}
	raw, err := os.ReadFile(c.ProvidersFile)
	if err != nil {
		return nil, fmt.Errorf("op=config.ProviderConfigs read %s: %w", c.ProvidersFile, err)
	}
	var f providersFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("op=config.ProviderConfigs parse %s: %w", c.ProvidersFile, err)
	}
	for _, ov := range f.Providers {
		for i := range configs {
			if string(configs[i].ID) != ov.ID {
				continue
			}
			if ov.Priority != nil {
				configs[i].Priority = *ov.Priority
			}
			if ov.MaxRetries != nil {
				configs[i].MaxRetries = *ov.MaxRetries
			}
			if ov.Timeout != "" {
				d, err := time.ParseDuration(ov.Timeout)
				if err != nil {
					return nil, fmt.Errorf("op=config.ProviderConfigs timeout for %s: %w", ov.ID, err)
				}
				configs[i].Timeout = d
			}
			if ov.Disabled {
				configs[i].Enabled = false
			}
		}
	}
	return configs, nil
}
