package usecase

import (
	"fmt"
	"log/slog"
	"strings"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// The five rubric bands embedded in every scoring prompt. Shared with the
// fallback templates so degraded output still speaks the same language.
const rubricBands = `Scoring rubric (0-100):
- 90-100 exceptional: complete, precise, demonstrates depth beyond the question
- 75-89 strong: correct and well structured with minor gaps
- 60-74 adequate: mostly correct, lacks depth or misses secondary points
- 40-59 basic: partially correct, significant gaps or vagueness
- 0-39 insufficient: incorrect, off-topic, or no substantive answer`

// scoreBand names the rubric band a numeric score falls into.
func scoreBand(score int) string {
	switch {
	case score >= 90:
		return "exceptional"
	case score >= 75:
		return "strong"
	case score >= 60:
		return "adequate"
	case score >= 40:
		return "basic"
	default:
		return "insufficient"
	}
}

// buildAnswerPrompt produces the deterministic evaluation prompt for one
// question/answer pair. Section markers are stable: the mock provider and
// tests key off them.
func buildAnswerPrompt(qa questionContext) string {
	var b strings.Builder
	b.WriteString("You are an experienced interviewer evaluating one interview answer.\n\n")
	fmt.Fprintf(&b, "Question (%s", qa.QuestionType)
	if qa.Difficulty != "" {
		fmt.Fprintf(&b, ", %s", qa.Difficulty)
	}
	fmt.Fprintf(&b, "):\n%s\n\n", qa.Question)
	fmt.Fprintf(&b, "Candidate Answer:\n%s\n\n", qa.Answer)
	fmt.Fprintf(&b, "Skill Assessed:\n%s\n\n", qa.SkillTag)
	b.WriteString(rubricBands)
	b.WriteString("\n\nReturn JSON only: {\"score\": <0-100>, \"strengths\": [..], \"improvements\": [..], \"feedback\": \"..\"}")
	return b.String()
}

// buildSkillPrompt asks for qualitative feedback on one skill group given its
// already-computed numeric score.
func buildSkillPrompt(skill string, score int, answers []string) string {
	var b strings.Builder
	b.WriteString("You are summarizing a candidate's performance on one skill across several interview answers.\n\n")
	fmt.Fprintf(&b, "Skill Assessed:\n%s\n\n", skill)
	fmt.Fprintf(&b, "Numeric Score:\n%d (%s)\n\n", score, scoreBand(score))
	b.WriteString("Answers Digest:\n")
	for i, a := range answers {
		fmt.Fprintf(&b, "%d. %s\n", i+1, a)
	}
	b.WriteString("\nReturn JSON only: {\"feedback\": \"..\", \"strengths\": [..], \"improvements\": [..]}")
	return b.String()
}

// buildSynthesisPrompt asks for the final narrative given the overall score
// and a digest of every skill assessment.
func buildSynthesisPrompt(candidateName, jobTitle, jobDescription string, overallScore int, skillDigest []string) string {
	var b strings.Builder
	b.WriteString("You are writing the final feedback report for a mock interview.\n\n")
	fmt.Fprintf(&b, "Candidate Name:\n%s\n\n", candidateName)
	fmt.Fprintf(&b, "Job Title:\n%s\n\n", jobTitle)
	if jobDescription != "" {
		fmt.Fprintf(&b, "Job Description:\n%s\n\n", jobDescription)
	}
	fmt.Fprintf(&b, "Overall Score:\n%d (%s)\n\n", overallScore, scoreBand(overallScore))
	b.WriteString("Skill Summary:\n")
	for _, d := range skillDigest {
		fmt.Fprintf(&b, "- %s\n", d)
	}
	b.WriteString("\nReturn JSON only: {\"summary\": \"..\", \"strengths\": \"..\", \"areas_for_improvement\": \"..\", \"recommendations\": \"..\"}")
	return b.String()
}

// questionContext is the subset of a QuestionAnswer the prompt builder needs.
type questionContext struct {
	Question     string
	Answer       string
	QuestionType string
	SkillTag     string
	Difficulty   string
}

// capPromptTokens truncates the prompt body when its token count exceeds the
// configured cap. Counting uses cl100k_base, which approximates all three
// provider tokenizers closely enough for budgeting.
func capPromptTokens(prompt string, limit int) string {
	if limit <= 0 {
		return prompt
	}
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		slog.Warn("token encoding unavailable, skipping prompt cap", slog.Any("error", err))
		return prompt
	}
	tokens := enc.Encode(prompt, nil, nil)
	if len(tokens) <= limit {
		return prompt
	}
	return enc.Decode(tokens[:limit])
}
