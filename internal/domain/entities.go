// Package domain defines the core entities and ports of the interview
// analysis pipeline.
package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrRateLimited       = errors.New("rate limited")
	ErrUpstreamTimeout   = errors.New("upstream timeout")
	ErrUpstreamRateLimit = errors.New("upstream rate limit")
	ErrProviderDisabled  = errors.New("provider disabled")
	ErrSchemaInvalid     = errors.New("schema invalid")
	ErrInternal          = errors.New("internal error")
)

// QuestionType enumerates the kinds of interview questions.
const (
	QuestionTypeTechnical   = "technical"
	QuestionTypeBehavioral  = "behavioral"
	QuestionTypeSituational = "situational"
)

// Difficulty levels a question may declare.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// DefaultSkillTag groups answers whose question carries no skill tag.
const DefaultSkillTag = "general"

// QuestionAnswer is one interview exchange to be judged.
// Invariants: Question and Answer non-empty; QuestionType is one of the
// QuestionType constants. Callers supply a placeholder answer (e.g.
// "No answer provided") when the candidate did not respond.
type QuestionAnswer struct {
	QuestionID   string `json:"question_id" validate:"required"`
	Question     string `json:"question" validate:"required"`
	Answer       string `json:"answer" validate:"required"`
	QuestionType string `json:"question_type" validate:"required,oneof=technical behavioral situational"`
	SkillTag     string `json:"skill_tag"`
	Difficulty   string `json:"difficulty,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	TimeSpent    int    `json:"time_spent,omitempty" validate:"gte=0"` // seconds
}

// ScoredQuestionAnswer is a QuestionAnswer plus its 0-100 score.
// Transient: lives only for the duration of one analysis call.
type ScoredQuestionAnswer struct {
	QuestionAnswer
	Score int `json:"score"` // [0,100]
}

// SkillAssessment aggregates all answers sharing one skill tag.
type SkillAssessment struct {
	Skill        string   `json:"skill"`
	Score        int      `json:"score"` // rounded mean of constituent scores
	Feedback     string   `json:"feedback"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// InterviewAnalysis is the final structured report. Immutable after
// construction; the caller persists it.
type InterviewAnalysis struct {
	ID                  string                 `json:"id"`
	SessionID           string                 `json:"session_id"`
	OverallScore        int                    `json:"overall_score"` // rounded mean of per-answer scores
	Summary             string                 `json:"summary"`
	Strengths           string                 `json:"strengths"`
	AreasForImprovement string                 `json:"areas_for_improvement"`
	Recommendations     string                 `json:"recommendations"`
	SkillAssessments    []SkillAssessment      `json:"skill_assessments"`
	QuestionAnswers     []ScoredQuestionAnswer `json:"question_answers"` // input order
	Provider            ProviderID             `json:"provider"`
	Timestamp           time.Time              `json:"timestamp"` // captured at synthesis completion
}

// AnalysisOptions tune a single analysis request.
type AnalysisOptions struct {
	Provider          ProviderID `json:"provider,omitempty"`
	Detailed          bool       `json:"detailed,omitempty"`
	IncludeTranscript bool       `json:"include_transcript,omitempty"`
	MaxTokens         int        `json:"max_tokens,omitempty" validate:"gte=0"`
}

// AnalysisRequest is the inbound contract of the pipeline.
type AnalysisRequest struct {
	SessionID       string           `json:"session_id" validate:"required"`
	CandidateName   string           `json:"candidate_name" validate:"required"`
	JobTitle        string           `json:"job_title" validate:"required"`
	JobDescription  string           `json:"job_description,omitempty"`
	QuestionAnswers []QuestionAnswer `json:"question_answers" validate:"required,min=1,dive"`
	Skills          []string         `json:"skills" validate:"required,min=1"`
	Options         AnalysisOptions  `json:"options,omitempty"`
}

// ProviderID identifies one configured LLM backend.
type ProviderID string

// Known provider ids. Mock is always available and never fails.
const (
	ProviderOpenAI    ProviderID = "openai"
	ProviderAnthropic ProviderID = "anthropic"
	ProviderGemini    ProviderID = "gemini"
	ProviderMock      ProviderID = "mock"
)

// ProviderConfig is static knowledge about one backend. Enabled is derived
// from credential presence at startup and flipped off (never back on) by the
// health monitor.
type ProviderConfig struct {
	ID         ProviderID
	Enabled    bool
	Priority   int // lower = preferred
	MaxRetries int
	Timeout    time.Duration
}

// ProviderClient (port): one backend, one method. All response-shape
// assumptions stay with the caller, never in the adapter.
type ProviderClient interface {
	Generate(ctx Context, prompt string, maxTokens int) (string, error)
	ID() ProviderID
}

// ProviderSelector (port): resolves a provider for one analysis call.
// Select never errors; when nothing real is enabled it degrades to the mock
// client so the pipeline always completes.
type ProviderSelector interface {
	Select(requested ProviderID) (ProviderClient, ProviderConfig)
	Healthy(id ProviderID) bool
}

// AnalysisRepository (port): the persistence collaborator used by the
// surrounding application. The pipeline itself persists nothing beyond its
// in-memory cache.
type AnalysisRepository interface {
	Upsert(ctx Context, a InterviewAnalysis) error
	GetBySessionID(ctx Context, sessionID string) (InterviewAnalysis, error)
}

// Context aliases context.Context so signatures in domain stay compact.
type Context = context.Context
