package postgres_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
)

// rowStub implements pgx.Row
type rowStub struct{ scan func(dest ...any) error }

func (r rowStub) Scan(dest ...any) error { return r.scan(dest...) }

// poolStub implements postgres.PgxPool for tests
type poolStub struct {
	execErr error
	row     rowStub
}

func (p *poolStub) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, p.execErr
}

func (p *poolStub) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	if p.row.scan == nil {
		return rowStub{scan: func(_ ...any) error { return errors.New("no row configured") }}
	}
	return p.row
}

func sampleAnalysis() domain.InterviewAnalysis {
	return domain.InterviewAnalysis{
		ID:                  "a-1",
		SessionID:           "sess-1",
		OverallScore:        77,
		Summary:             "solid interview",
		Strengths:           "clear communication",
		AreasForImprovement: "system depth",
		Recommendations:     "practice design",
		SkillAssessments: []domain.SkillAssessment{
			{Skill: "go", Score: 80, Feedback: "good", Strengths: []string{"s"}, Improvements: []string{"i"}},
		},
		QuestionAnswers: []domain.ScoredQuestionAnswer{
			{QuestionAnswer: domain.QuestionAnswer{QuestionID: "q1", Question: "Q", Answer: "A", QuestionType: domain.QuestionTypeTechnical, SkillTag: "go"}, Score: 80},
		},
		Provider:  domain.ProviderOpenAI,
		Timestamp: time.Now().UTC().Truncate(time.Second),
	}
}

func TestAnalysisRepo_Upsert_Success(t *testing.T) {
	t.Parallel()
	repo := postgres.NewAnalysisRepo(&poolStub{})
	require.NoError(t, repo.Upsert(context.Background(), sampleAnalysis()))
}

func TestAnalysisRepo_Upsert_ExecError(t *testing.T) {
	t.Parallel()
	repo := postgres.NewAnalysisRepo(&poolStub{execErr: errors.New("disk full")})
	err := repo.Upsert(context.Background(), sampleAnalysis())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "op=analysis.upsert")
}

func TestAnalysisRepo_Get_Success(t *testing.T) {
	t.Parallel()
	want := sampleAnalysis()
	skills, err := json.Marshal(want.SkillAssessments)
	require.NoError(t, err)
	answers, err := json.Marshal(want.QuestionAnswers)
	require.NoError(t, err)

	pool := &poolStub{row: rowStub{scan: func(dest ...any) error {
		*(dest[0].(*string)) = want.ID
		*(dest[1].(*string)) = want.SessionID
		*(dest[2].(*int)) = want.OverallScore
		*(dest[3].(*string)) = want.Summary
		*(dest[4].(*string)) = want.Strengths
		*(dest[5].(*string)) = want.AreasForImprovement
		*(dest[6].(*string)) = want.Recommendations
		*(dest[7].(*[]byte)) = skills
		*(dest[8].(*[]byte)) = answers
		*(dest[9].(*string)) = string(want.Provider)
		*(dest[10].(*time.Time)) = want.Timestamp
		return nil
	}}}
	repo := postgres.NewAnalysisRepo(pool)

	got, err := repo.GetBySessionID(context.Background(), want.SessionID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestAnalysisRepo_Get_NotFound(t *testing.T) {
	t.Parallel()
	pool := &poolStub{row: rowStub{scan: func(_ ...any) error { return pgx.ErrNoRows }}}
	repo := postgres.NewAnalysisRepo(pool)
	_, err := repo.GetBySessionID(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAnalysisRepo_Get_ScanError(t *testing.T) {
	t.Parallel()
	pool := &poolStub{row: rowStub{scan: func(_ ...any) error { return errors.New("bad column") }}}
	repo := postgres.NewAnalysisRepo(pool)
	_, err := repo.GetBySessionID(context.Background(), "sess-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "op=analysis.get")
}
