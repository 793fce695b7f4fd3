// Package ai provides provider client adapters, the provider registry, the
// health monitor, and the throttling/observability wrappers around clients.
package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
)

// OpenAIClient implements domain.ProviderClient against the OpenAI chat
// completions API.
type OpenAIClient struct {
	apiKey  string
	baseURL string
	model   string
	hc      *http.Client
}

// NewOpenAIClient constructs an OpenAI client. The http.Client carries no
// timeout of its own; per-call deadlines come from the caller's context.
func NewOpenAIClient(apiKey, baseURL, model string) *OpenAIClient {
	return &OpenAIClient{apiKey: apiKey, baseURL: baseURL, model: model, hc: &http.Client{}}
}

// ID returns the provider identifier.
func (c *OpenAIClient) ID() domain.ProviderID { return domain.ProviderOpenAI }

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

// Generate sends the prompt and returns the raw completion text.
func (c *OpenAIClient) Generate(ctx domain.Context, prompt string, maxTokens int) (string, error) {
	body, err := json.Marshal(openAIRequest{
		Model:       c.model,
		Messages:    []openAIMessage{{Role: "user", Content: prompt}},
		Temperature: 0.1,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("op=openai.marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("op=openai.request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("op=openai.do: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("op=openai.read: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("%w: openai status %d", domain.ErrUpstreamRateLimit, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("op=openai.status %d: %s", resp.StatusCode, snippet(raw))
	}

	var out openAIResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("op=openai.decode: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: openai returned no choices", domain.ErrSchemaInvalid)
	}
	return out.Choices[0].Message.Content, nil
}

// snippet bounds error detail so a huge provider body never floods logs.
func snippet(b []byte) string {
	const n = 256
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
