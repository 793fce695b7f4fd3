package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
)

func scoredQA(tag string, score int) domain.ScoredQuestionAnswer {
	return domain.ScoredQuestionAnswer{
		QuestionAnswer: domain.QuestionAnswer{
			QuestionID:   "q",
			Question:     "Q",
			Answer:       "A",
			QuestionType: domain.QuestionTypeTechnical,
			SkillTag:     tag,
		},
		Score: score,
	}
}

func TestGroupBySkill_StableFirstAppearanceOrder(t *testing.T) {
	t.Parallel()
	sg := groupBySkill([]domain.ScoredQuestionAnswer{
		scoredQA("sql", 80),
		scoredQA("go", 70),
		scoredQA("sql", 60),
		scoredQA("communication", 90),
	})
	assert.Equal(t, []string{"sql", "go", "communication"}, sg.order)
	assert.Len(t, sg.groups["sql"], 2)
	assert.Len(t, sg.groups["go"], 1)
}

func TestGroupBySkill_UntaggedFallsIntoGeneral(t *testing.T) {
	t.Parallel()
	sg := groupBySkill([]domain.ScoredQuestionAnswer{
		scoredQA("", 50),
		scoredQA("go", 70),
	})
	assert.Equal(t, []string{domain.DefaultSkillTag, "go"}, sg.order)
	assert.Len(t, sg.groups[domain.DefaultSkillTag], 1)
}

func TestGroupBySkill_TagsAreCaseSensitive(t *testing.T) {
	t.Parallel()
	sg := groupBySkill([]domain.ScoredQuestionAnswer{
		scoredQA("Go", 80),
		scoredQA("go", 60),
	})
	require.Len(t, sg.order, 2)
	assert.Len(t, sg.groups["Go"], 1)
	assert.Len(t, sg.groups["go"], 1)
}

func TestMeanScore_Rounding(t *testing.T) {
	t.Parallel()
	// (80+60+90)/3 = 76.67 -> 77
	assert.Equal(t, 77, meanScore([]domain.ScoredQuestionAnswer{
		scoredQA("s", 80), scoredQA("s", 60), scoredQA("s", 90),
	}))
	// 75.5 rounds half away from zero -> 76
	assert.Equal(t, 76, meanScore([]domain.ScoredQuestionAnswer{
		scoredQA("s", 75), scoredQA("s", 76),
	}))
	assert.Equal(t, 0, meanScore(nil))
}

func TestScoreBand(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "exceptional", scoreBand(95))
	assert.Equal(t, "strong", scoreBand(75))
	assert.Equal(t, "adequate", scoreBand(60))
	assert.Equal(t, "basic", scoreBand(40))
	assert.Equal(t, "insufficient", scoreBand(39))
	assert.Equal(t, "insufficient", scoreBand(0))
}

func TestFallbackSkillAssessment_CarriesScoreAndSkill(t *testing.T) {
	t.Parallel()
	sa := fallbackSkillAssessment("system design", 72)
	assert.Equal(t, "system design", sa.Skill)
	assert.Equal(t, 72, sa.Score)
	assert.Contains(t, sa.Feedback, "system design")
	assert.Contains(t, sa.Feedback, "72")
	assert.NotEmpty(t, sa.Strengths)
	assert.NotEmpty(t, sa.Improvements)
}
