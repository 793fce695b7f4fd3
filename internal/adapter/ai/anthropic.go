package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
)

// AnthropicClient implements domain.ProviderClient against the Anthropic
// messages API.
type AnthropicClient struct {
	apiKey  string
	baseURL string
	model   string
	hc      *http.Client
}

// NewAnthropicClient constructs an Anthropic client.
func NewAnthropicClient(apiKey, baseURL, model string) *AnthropicClient {
	return &AnthropicClient{apiKey: apiKey, baseURL: baseURL, model: model, hc: &http.Client{}}
}

// ID returns the provider identifier.
func (c *AnthropicClient) ID() domain.ProviderID { return domain.ProviderAnthropic }

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature float64            `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Generate sends the prompt and returns the raw completion text.
func (c *AnthropicClient) Generate(ctx domain.Context, prompt string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = 1024 // the messages API requires an explicit cap
	}
	body, err := json.Marshal(anthropicRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		Messages:    []anthropicMessage{{Role: "user", Content: prompt}},
		Temperature: 0.1,
	})
	if err != nil {
		return "", fmt.Errorf("op=anthropic.marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("op=anthropic.request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("op=anthropic.do: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("op=anthropic.read: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("%w: anthropic status %d", domain.ErrUpstreamRateLimit, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("op=anthropic.status %d: %s", resp.StatusCode, snippet(raw))
	}

	var out anthropicResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("op=anthropic.decode: %w", err)
	}
	for _, block := range out.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("%w: anthropic returned no text content", domain.ErrSchemaInvalid)
}
