package ai

import (
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
)

// MockClient is the deterministic provider of last resort: it never fails
// and always returns schema-valid JSON, so the pipeline completes even when
// every real backend is down. Output is pseudo-random but stable for a given
// prompt.
type MockClient struct{}

// NewMockClient constructs the deterministic mock provider.
func NewMockClient() *MockClient { return &MockClient{} }

// ID returns the provider identifier.
func (m *MockClient) ID() domain.ProviderID { return domain.ProviderMock }

// Generate recognizes the three pipeline prompt shapes by their section
// markers and fabricates a plausible response for each.
func (m *MockClient) Generate(_ domain.Context, prompt string, _ int) (string, error) {
	switch {
	case strings.Contains(prompt, "Candidate Answer:"):
		return m.answerJSON(prompt)
	case strings.Contains(prompt, "Answers Digest:"):
		return m.skillJSON(prompt)
	case strings.Contains(prompt, "Skill Summary:"):
		return m.synthesisJSON(prompt)
	default:
		return m.answerJSON(prompt)
	}
}

func (m *MockClient) answerJSON(prompt string) (string, error) {
	answer := segment(prompt, "Candidate Answer:", "Skill Assessed:")
	skill := segment(prompt, "Skill Assessed:", "Scoring rubric")
	if skill == "" {
		skill = "the topic"
	}
	// 55..95: plausible without clustering at the extremes
	score := 55 + int(hashToFloat(answer)*40)
	return marshal(map[string]any{
		"score":        score,
		"strengths":    []string{"Addresses the question directly", "Mentions " + topWords(answer, 3)},
		"improvements": []string{"Add concrete examples for " + skill},
		"feedback":     fmt.Sprintf("The answer covers %s at a reasonable depth for %s.", topWords(answer, 4), skill),
	})
}

func (m *MockClient) skillJSON(prompt string) (string, error) {
	skill := segment(prompt, "Skill Assessed:", "Numeric Score:")
	digest := segment(prompt, "Answers Digest:", "Return JSON")
	return marshal(map[string]any{
		"feedback":     fmt.Sprintf("Across the %s questions the candidate showed consistent reasoning, touching on %s.", skill, topWords(digest, 4)),
		"strengths":    []string{"Consistent approach across " + skill + " questions"},
		"improvements": []string{"Go deeper on edge cases in " + skill},
	})
}

func (m *MockClient) synthesisJSON(prompt string) (string, error) {
	name := segment(prompt, "Candidate Name:", "Job Title:")
	title := segment(prompt, "Job Title:", "Job Description:")
	if !strings.Contains(prompt, "Job Description:") {
		title = segment(prompt, "Job Title:", "Overall Score:")
	}
	scoreLine := segment(prompt, "Overall Score:", "Skill Summary:")
	return marshal(map[string]any{
		"summary":               fmt.Sprintf("%s completed the interview for %s with a result of %s.", name, title, scoreLine),
		"strengths":             fmt.Sprintf("%s communicated clearly and stayed on topic throughout.", name),
		"areas_for_improvement": "Deepen the weaker skill areas highlighted in the per-skill feedback.",
		"recommendations":       fmt.Sprintf("Practice structured answers before the next %s interview.", title),
	})
}

func marshal(v map[string]any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("op=mock.marshal: %w", err)
	}
	return string(b), nil
}

// segment extracts the trimmed text between two prompt markers.
func segment(s, startMarker, nextMarker string) string {
	i := strings.Index(s, startMarker)
	if i == -1 {
		return ""
	}
	s2 := s[i+len(startMarker):]
	j := strings.Index(s2, nextMarker)
	if j == -1 {
		return strings.TrimSpace(s2)
	}
	return strings.TrimSpace(s2[:j])
}

// hashToFloat maps text to a stable value in [0,1).
func hashToFloat(s string) float64 {
	h := sha1.Sum([]byte(s))
	u := binary.BigEndian.Uint32(h[:4])
	return float64(u%1000) / 1000.0
}

func topWords(s string, n int) string {
	parts := strings.Fields(s)
	if len(parts) > n {
		parts = parts[:n]
	}
	if len(parts) == 0 {
		return "the material"
	}
	return strings.Join(parts, ", ")
}
