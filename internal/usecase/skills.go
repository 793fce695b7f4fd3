package usecase

import (
	"fmt"
	"math"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
)

// skillGroups is a stable partition of scored answers by skill tag.
// Order tracks first appearance in the input; tags compare case-sensitively
// as supplied.
type skillGroups struct {
	order  []string
	groups map[string][]domain.ScoredQuestionAnswer
}

// groupBySkill partitions scored answers by tag. Pure, no I/O. Untagged
// answers land in the general group, so every question is represented.
func groupBySkill(scored []domain.ScoredQuestionAnswer) skillGroups {
	sg := skillGroups{groups: make(map[string][]domain.ScoredQuestionAnswer)}
	for _, sa := range scored {
		tag := skillTagOf(sa.QuestionAnswer)
		if _, seen := sg.groups[tag]; !seen {
			sg.order = append(sg.order, tag)
		}
		sg.groups[tag] = append(sg.groups[tag], sa)
	}
	return sg
}

// meanScore is the rounded arithmetic mean of a group's scores.
func meanScore(group []domain.ScoredQuestionAnswer) int {
	if len(group) == 0 {
		return 0
	}
	sum := 0
	for _, sa := range group {
		sum += sa.Score
	}
	return int(math.Round(float64(sum) / float64(len(group))))
}

// skillEval is the shape the skill feedback prompt asks for.
type skillEval struct {
	Feedback     string   `json:"feedback"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// fallbackSkillAssessment synthesizes feedback purely from the numeric score.
func fallbackSkillAssessment(skill string, score int) domain.SkillAssessment {
	return domain.SkillAssessment{
		Skill:    skill,
		Score:    score,
		Feedback: fmt.Sprintf("Performance on %s was %s, scoring %d out of 100 across the related questions.", skill, scoreBand(score), score),
		Strengths: []string{
			fmt.Sprintf("Engaged with the %s questions", skill),
		},
		Improvements: []string{
			fmt.Sprintf("Deepen %s with targeted practice", skill),
		},
	}
}

// assessSkill produces one SkillAssessment for a group. The numeric score is
// always the exact rounded mean; only the narrative comes from the provider.
// When the provider is known-down the call is skipped outright instead of
// burning its retry budget.
func (s *AnalysisService) assessSkill(ctx domain.Context, p callPolicy, skill string, group []domain.ScoredQuestionAnswer, maxTokens int) domain.SkillAssessment {
	score := meanScore(group)
	fallback := fallbackSkillAssessment(skill, score)

	if !s.providers.Healthy(p.client.ID()) {
		return fallback
	}

	digest := make([]string, 0, len(group))
	for _, sa := range group {
		digest = append(digest, fmt.Sprintf("[%d/100] Q: %s A: %s", sa.Score, sa.Question, sa.Answer))
	}
	prompt := capPromptTokens(buildSkillPrompt(skill, score, digest), s.promptTokenCap)

	return callWithFallback(ctx, p, stageSkill, prompt, maxTokens,
		func(raw string) (domain.SkillAssessment, bool) {
			var ev skillEval
			if !ExtractObject(raw, &ev) || ev.Feedback == "" {
				return domain.SkillAssessment{}, false
			}
			sa := domain.SkillAssessment{
				Skill:        skill,
				Score:        score,
				Feedback:     ev.Feedback,
				Strengths:    ev.Strengths,
				Improvements: ev.Improvements,
			}
			if len(sa.Strengths) == 0 {
				sa.Strengths = fallback.Strengths
			}
			if len(sa.Improvements) == 0 {
				sa.Improvements = fallback.Improvements
			}
			return sa, true
		}, fallback)
}

// assessSkills runs after every per-answer score is known; skill aggregation
// needs the complete data, so this join point is a hard ordering dependency.
func (s *AnalysisService) assessSkills(ctx domain.Context, p callPolicy, scored []domain.ScoredQuestionAnswer, maxTokens int) []domain.SkillAssessment {
	sg := groupBySkill(scored)
	out := make([]domain.SkillAssessment, 0, len(sg.order))
	for _, skill := range sg.order {
		out = append(out, s.assessSkill(ctx, p, skill, sg.groups[skill], maxTokens))
	}
	return out
}
