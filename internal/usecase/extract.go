// Package usecase contains the interview analysis pipeline: per-answer
// scoring, skill aggregation, and overall synthesis with tolerant parsing
// and fallback at every provider boundary.
package usecase

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Providers routinely wrap valid JSON in prose or code fences, so parsing
// never assumes the model obeyed formatting instructions. Extraction is pure
// and never panics; callers treat a false return exactly like a provider
// error and fall back.

var arrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// ExtractObject locates a JSON object inside arbitrary model output and
// unmarshals it into v. Attempts, in order: balanced-brace object scan, then
// the whole (cleaned) string.
func ExtractObject(text string, v any) bool {
	cleaned := stripFences(text)
	if obj := braceSpan(cleaned); obj != "" {
		if json.Unmarshal([]byte(fixCommonIssues(obj)), v) == nil {
			return true
		}
	}
	return json.Unmarshal([]byte(fixCommonIssues(cleaned)), v) == nil
}

// ExtractArray is ExtractObject for callers expecting a JSON array: it tries
// the outermost [...] span first, then falls through to object handling.
func ExtractArray(text string, v any) bool {
	cleaned := stripFences(text)
	if m := arrayPattern.FindString(cleaned); m != "" {
		if json.Unmarshal([]byte(fixCommonIssues(m)), v) == nil {
			return true
		}
	}
	return json.Unmarshal([]byte(fixCommonIssues(cleaned)), v) == nil
}

// stripFences removes markdown code fences around a response.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// braceSpan returns the outermost balanced {...} span, or "" when none
// exists. Braces inside JSON strings are rare enough in model output that a
// plain depth counter holds up; a mismatch just means we fall through to the
// whole-string parse.
func braceSpan(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

var trailingComma = regexp.MustCompile(`,(\s*[}\]])`)

// fixCommonIssues repairs the malformations models produce most often.
func fixCommonIssues(s string) string {
	return trailingComma.ReplaceAllString(s, "$1")
}
