package usecase

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/config"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/observability"
)

// AnalysisService orchestrates the full pipeline: validation, provider
// selection, cache lookup, batched per-answer scoring, skill aggregation,
// and overall synthesis.
type AnalysisService struct {
	providers domain.ProviderSelector
	cache     *resultCache
	validate  *validator.Validate

	batchSize        int
	promptTokenCap   int
	defaultMaxTokens int

	backoffInitial    time.Duration
	backoffMax        time.Duration
	backoffMultiplier float64
}

// NewAnalysisService constructs the service from configuration and a
// provider selector.
func NewAnalysisService(cfg config.Config, providers domain.ProviderSelector) *AnalysisService {
	initial, maxIv, mult := cfg.GetAIBackoffConfig()
	return &AnalysisService{
		providers:         providers,
		cache:             newResultCache(cfg.CacheTTL, cfg.CacheCapacity),
		validate:          validator.New(),
		batchSize:         cfg.ScoreBatchSize,
		promptTokenCap:    cfg.PromptTokenCap,
		defaultMaxTokens:  cfg.DefaultMaxTokens,
		backoffInitial:    initial,
		backoffMax:        maxIv,
		backoffMultiplier: mult,
	}
}

// validateRequest is the fail-fast gate: the only errors allowed to escape
// AnalyzeInterview originate here, before any provider call is attempted.
func (s *AnalysisService) validateRequest(req domain.AnalysisRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	for _, skill := range req.Skills {
		if skill == "" {
			return fmt.Errorf("%w: skills must be non-empty strings", domain.ErrInvalidArgument)
		}
	}
	return nil
}

// AnalyzeInterview runs one full analysis. Provider and runtime failures are
// absorbed internally; worst case the caller receives a complete report with
// templated narrative and a neutral score, never an error.
func (s *AnalysisService) AnalyzeInterview(ctx domain.Context, req domain.AnalysisRequest) (domain.InterviewAnalysis, error) {
	if err := s.validateRequest(req); err != nil {
		return domain.InterviewAnalysis{}, err
	}

	lg := observability.LoggerFromContext(ctx)
	client, pcfg := s.providers.Select(req.Options.Provider)

	key := cacheKey(req, client.ID())
	if hit, ok := s.cache.get(key); ok {
		observability.CacheEventsTotal.WithLabelValues("hit").Inc()
		lg.Info("analysis cache hit",
			slog.String("session_id", req.SessionID),
			slog.String("provider", string(client.ID())))
		return hit, nil
	}
	observability.CacheEventsTotal.WithLabelValues("miss").Inc()

	maxTokens := req.Options.MaxTokens
	if maxTokens <= 0 {
		maxTokens = s.defaultMaxTokens
	}
	policy := callPolicy{
		client:          client,
		cfg:             pcfg,
		initialInterval: s.backoffInitial,
		maxInterval:     s.backoffMax,
		multiplier:      s.backoffMultiplier,
	}

	started := time.Now()
	scored := s.scoreAnswers(ctx, policy, req.QuestionAnswers, maxTokens)
	skills := s.assessSkills(ctx, policy, scored, maxTokens)
	analysis := s.synthesize(ctx, policy, req, scored, skills, maxTokens)
	analysis.ID = uuid.New().String()

	observability.OverallScoreHistogram.Observe(float64(analysis.OverallScore))
	lg.Info("analysis complete",
		slog.String("session_id", req.SessionID),
		slog.String("provider", string(client.ID())),
		slog.Int("questions", len(scored)),
		slog.Int("skills", len(skills)),
		slog.Int("overall_score", analysis.OverallScore),
		slog.Duration("elapsed", time.Since(started)))

	s.cache.put(key, analysis)
	return analysis, nil
}
