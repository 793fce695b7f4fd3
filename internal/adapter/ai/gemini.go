package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
)

// GeminiClient implements domain.ProviderClient against the Gemini
// generateContent API.
type GeminiClient struct {
	apiKey  string
	baseURL string
	model   string
	hc      *http.Client
}

// NewGeminiClient constructs a Gemini client.
func NewGeminiClient(apiKey, baseURL, model string) *GeminiClient {
	return &GeminiClient{apiKey: apiKey, baseURL: baseURL, model: model, hc: &http.Client{}}
}

// ID returns the provider identifier.
func (c *GeminiClient) ID() domain.ProviderID { return domain.ProviderGemini }

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig *geminiGenConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends the prompt and returns the raw completion text.
func (c *GeminiClient) Generate(ctx domain.Context, prompt string, maxTokens int) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: &geminiGenConfig{Temperature: 0.1, MaxOutputTokens: maxTokens},
	})
	if err != nil {
		return "", fmt.Errorf("op=gemini.marshal: %w", err)
	}
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("op=gemini.request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("op=gemini.do: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("op=gemini.read: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("%w: gemini status %d", domain.ErrUpstreamRateLimit, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("op=gemini.status %d: %s", resp.StatusCode, snippet(raw))
	}

	var out geminiResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("op=gemini.decode: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: gemini returned no candidates", domain.ErrSchemaInvalid)
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
