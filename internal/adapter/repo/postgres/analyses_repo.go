package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
)

// PgxPool is a minimal subset of pgxpool used by the repos for easy testing.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AnalysisRepo persists and loads interview analyses. Skill assessments and
// scored answers are stored as JSONB documents; the surrounding app only
// ever reads an analysis whole.
type AnalysisRepo struct{ Pool PgxPool }

// NewAnalysisRepo constructs an AnalysisRepo with the given pool.
func NewAnalysisRepo(p PgxPool) *AnalysisRepo { return &AnalysisRepo{Pool: p} }

// Upsert inserts or replaces an analysis by session_id.
func (r *AnalysisRepo) Upsert(ctx domain.Context, a domain.InterviewAnalysis) error {
	tracer := otel.Tracer("repo.analyses")
	ctx, span := tracer.Start(ctx, "analyses.Upsert")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.sql.table", "analyses"),
	)

	skills, err := json.Marshal(a.SkillAssessments)
	if err != nil {
		return fmt.Errorf("op=analysis.upsert marshal skills: %w", err)
	}
	answers, err := json.Marshal(a.QuestionAnswers)
	if err != nil {
		return fmt.Errorf("op=analysis.upsert marshal answers: %w", err)
	}

	q := `INSERT INTO analyses (id, session_id, overall_score, summary, strengths, areas_for_improvement, recommendations, skill_assessments, question_answers, provider, created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	ON CONFLICT (session_id)
	DO UPDATE SET id=EXCLUDED.id, overall_score=EXCLUDED.overall_score, summary=EXCLUDED.summary, strengths=EXCLUDED.strengths, areas_for_improvement=EXCLUDED.areas_for_improvement, recommendations=EXCLUDED.recommendations, skill_assessments=EXCLUDED.skill_assessments, question_answers=EXCLUDED.question_answers, provider=EXCLUDED.provider, created_at=EXCLUDED.created_at`
	if _, err := r.Pool.Exec(ctx, q, a.ID, a.SessionID, a.OverallScore, a.Summary, a.Strengths, a.AreasForImprovement, a.Recommendations, skills, answers, string(a.Provider), a.Timestamp); err != nil {
		return fmt.Errorf("op=analysis.upsert: %w", err)
	}
	return nil
}

// GetBySessionID loads an analysis by session id.
func (r *AnalysisRepo) GetBySessionID(ctx domain.Context, sessionID string) (domain.InterviewAnalysis, error) {
	tracer := otel.Tracer("repo.analyses")
	ctx, span := tracer.Start(ctx, "analyses.GetBySessionID")
	defer span.End()

	q := `SELECT id, session_id, overall_score, summary, strengths, areas_for_improvement, recommendations, skill_assessments, question_answers, provider, created_at FROM analyses WHERE session_id=$1`
	row := r.Pool.QueryRow(ctx, q, sessionID)

	var a domain.InterviewAnalysis
	var skills, answers []byte
	var provider string
	if err := row.Scan(&a.ID, &a.SessionID, &a.OverallScore, &a.Summary, &a.Strengths, &a.AreasForImprovement, &a.Recommendations, &skills, &answers, &provider, &a.Timestamp); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.InterviewAnalysis{}, fmt.Errorf("%w: analysis for session %s", domain.ErrNotFound, sessionID)
		}
		return domain.InterviewAnalysis{}, fmt.Errorf("op=analysis.get: %w", err)
	}
	if err := json.Unmarshal(skills, &a.SkillAssessments); err != nil {
		return domain.InterviewAnalysis{}, fmt.Errorf("op=analysis.get unmarshal skills: %w", err)
	}
	if err := json.Unmarshal(answers, &a.QuestionAnswers); err != nil {
		return domain.InterviewAnalysis{}, fmt.Errorf("op=analysis.get unmarshal answers: %w", err)
	}
	a.Provider = domain.ProviderID(provider)
	return a, nil
}
