package usecase

import (
	"fmt"
	"math"
	"time"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
)

// narrative is the shape the synthesis prompt asks for.
type narrative struct {
	Summary             string `json:"summary"`
	Strengths           string `json:"strengths"`
	AreasForImprovement string `json:"areas_for_improvement"`
	Recommendations     string `json:"recommendations"`
}

// overallScore is the rounded mean over all per-answer scores, not over
// skill means: skills with more questions weigh proportionally more.
func overallScore(scored []domain.ScoredQuestionAnswer) int {
	if len(scored) == 0 {
		return 0
	}
	sum := 0
	for _, sa := range scored {
		sum += sa.Score
	}
	return int(math.Round(float64(sum) / float64(len(scored))))
}

// fallbackNarrative is the templated report used when synthesis fails. It
// embeds the real candidate name, job title, and computed score; it never
// returns empty content.
func fallbackNarrative(candidateName, jobTitle string, score int) narrative {
	band := scoreBand(score)
	return narrative{
		Summary: fmt.Sprintf("%s completed a mock interview for the %s role with an overall score of %d out of 100, a %s result.",
			candidateName, jobTitle, score, band),
		Strengths: fmt.Sprintf("%s engaged with every question and demonstrated %s command of the material overall.",
			candidateName, band),
		AreasForImprovement: fmt.Sprintf("Focus on the skill areas scoring below %d to lift the overall result for the %s role.",
			score, jobTitle),
		Recommendations: fmt.Sprintf("Review the per-skill feedback below and rehearse the weaker areas before the next %s interview.",
			jobTitle),
	}
}

// synthesize assembles the final InterviewAnalysis: computed overall score,
// one narrative provider call with templated fallback, timestamp captured at
// completion.
func (s *AnalysisService) synthesize(ctx domain.Context, p callPolicy, req domain.AnalysisRequest, scored []domain.ScoredQuestionAnswer, skills []domain.SkillAssessment, maxTokens int) domain.InterviewAnalysis {
	score := overallScore(scored)
	fallback := fallbackNarrative(req.CandidateName, req.JobTitle, score)

	digest := make([]string, 0, len(skills))
	for _, sk := range skills {
		digest = append(digest, fmt.Sprintf("%s: %d/100 - %s", sk.Skill, sk.Score, sk.Feedback))
	}
	prompt := capPromptTokens(buildSynthesisPrompt(req.CandidateName, req.JobTitle, req.JobDescription, score, digest), s.promptTokenCap)

	var n narrative
	if s.providers.Healthy(p.client.ID()) {
		n = callWithFallback(ctx, p, stageSynthesis, prompt, maxTokens,
			func(raw string) (narrative, bool) {
				var out narrative
				if !ExtractObject(raw, &out) || out.Summary == "" {
					return narrative{}, false
				}
				if out.Strengths == "" {
					out.Strengths = fallback.Strengths
				}
				if out.AreasForImprovement == "" {
					out.AreasForImprovement = fallback.AreasForImprovement
				}
				if out.Recommendations == "" {
					out.Recommendations = fallback.Recommendations
				}
				return out, true
			}, fallback)
	} else {
		n = fallback
	}

	return domain.InterviewAnalysis{
		SessionID:           req.SessionID,
		OverallScore:        score,
		Summary:             n.Summary,
		Strengths:           n.Strengths,
		AreasForImprovement: n.AreasForImprovement,
		Recommendations:     n.Recommendations,
		SkillAssessments:    skills,
		QuestionAnswers:     scored,
		Provider:            p.client.ID(),
		Timestamp:           time.Now().UTC(),
	}
}
