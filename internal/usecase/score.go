package usecase

import (
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
)

// neutralScore is substituted when a per-answer evaluation cannot be
// obtained: mid-band, so one lost call cannot sink or inflate a report.
const neutralScore = 50

// answerEval is the shape the scoring prompt asks the model to return.
// Score is a pointer so a response missing the field is distinguishable from
// a genuine zero.
type answerEval struct {
	Score        *float64 `json:"score"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Feedback     string   `json:"feedback"`
}

// clampScore folds any model-returned value into [0,100].
func clampScore(v float64) int {
	s := int(math.Round(v))
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// scoreAnswer evaluates one question/answer pair. It never fails: any
// provider or parse problem yields the neutral score.
func (s *AnalysisService) scoreAnswer(ctx domain.Context, p callPolicy, qa domain.QuestionAnswer, maxTokens int) domain.ScoredQuestionAnswer {
	prompt := capPromptTokens(buildAnswerPrompt(questionContext{
		Question:     qa.Question,
		Answer:       qa.Answer,
		QuestionType: qa.QuestionType,
		SkillTag:     skillTagOf(qa),
		Difficulty:   qa.Difficulty,
	}), s.promptTokenCap)

	score := callWithFallback(ctx, p, stageAnswer, prompt, maxTokens,
		func(raw string) (int, bool) {
			var ev answerEval
			if !ExtractObject(raw, &ev) || ev.Score == nil {
				return 0, false
			}
			return clampScore(*ev.Score), true
		}, neutralScore)

	return domain.ScoredQuestionAnswer{QuestionAnswer: qa, Score: score}
}

// scoreAnswers processes answers in fixed-size batches: parallel within a
// batch, batches sequential, so peak provider load stays bounded. The result
// preserves input order regardless of completion order.
func (s *AnalysisService) scoreAnswers(ctx domain.Context, p callPolicy, qas []domain.QuestionAnswer, maxTokens int) []domain.ScoredQuestionAnswer {
	scored := make([]domain.ScoredQuestionAnswer, len(qas))
	batch := s.batchSize
	if batch <= 0 {
		batch = 3
	}
	for start := 0; start < len(qas); start += batch {
		end := start + batch
		if end > len(qas) {
			end = len(qas)
		}
		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				scored[i] = s.scoreAnswer(ctx, p, qas[i], maxTokens)
				return nil
			})
		}
		_ = g.Wait() // scoreAnswer absorbs all failures
	}
	return scored
}

// skillTagOf returns the answer's skill tag, defaulting untagged questions
// into the general group so none is dropped.
func skillTagOf(qa domain.QuestionAnswer) string {
	if qa.SkillTag == "" {
		return domain.DefaultSkillTag
	}
	return qa.SkillTag
}
