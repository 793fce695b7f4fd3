package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fairyhunter13/ai-interview-analyzer/internal/config"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
	obsctx "github.com/fairyhunter13/ai-interview-analyzer/internal/observability"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/usecase"
)

// maxRequestBody bounds the JSON payload; a full transcript fits well below
// this.
const maxRequestBody = 2 << 20

// Server aggregates handler dependencies.
type Server struct {
	Cfg       config.Config
	Analyzer  *usecase.AnalysisService
	Analyses  domain.AnalysisRepository
	Providers interface {
		Enabled() []domain.ProviderID
	}
	DBCheck func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers wired.
func NewServer(cfg config.Config, analyzer *usecase.AnalysisService, analyses domain.AnalysisRepository, providers interface{ Enabled() []domain.ProviderID }, dbCheck func(context.Context) error) *Server {
	return &Server{Cfg: cfg, Analyzer: analyzer, Analyses: analyses, Providers: providers, DBCheck: dbCheck}
}

// AnalyzeHandler runs one full interview analysis and persists the result.
// Only input validation errors surface as HTTP errors; provider failures are
// absorbed by the pipeline.
func (s *Server) AnalyzeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
			writeError(w, r, fmt.Errorf("%w: content-type must be application/json", domain.ErrInvalidArgument), nil)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

		var req domain.AnalysisRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
			return
		}

		analysis, err := s.Analyzer.AnalyzeInterview(r.Context(), req)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}

		// Persistence is the caller's concern, and this handler is the
		// caller. A storage failure must not cost the candidate their
		// report, so it is logged, not returned.
		if s.Analyses != nil {
			if err := s.Analyses.Upsert(r.Context(), analysis); err != nil {
				obsctx.LoggerFromContext(r.Context()).Error("analysis persist failed",
					slog.String("session_id", analysis.SessionID),
					slog.Any("error", err))
			}
		}

		writeJSON(w, http.StatusOK, analysis)
	}
}

// GetAnalysisHandler loads a previously persisted analysis by session id.
func (s *Server) GetAnalysisHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")
		if sessionID == "" {
			writeError(w, r, fmt.Errorf("%w: session id required", domain.ErrInvalidArgument), nil)
			return
		}
		if s.Analyses == nil {
			writeError(w, r, fmt.Errorf("%w: persistence not configured", domain.ErrNotFound), nil)
			return
		}
		analysis, err := s.Analyses.GetBySessionID(r.Context(), sessionID)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, analysis)
	}
}

// ReadyzHandler reports db reachability and the enabled provider set. The
// service stays ready with zero real providers: the mock keeps analyses
// flowing, but operators should notice the degradation here.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		type check struct {
			Name    string `json:"name"`
			OK      bool   `json:"ok"`
			Details string `json:"details,omitempty"`
		}
		checks := make([]check, 0, 2)

		dbOK := true
		if s.DBCheck != nil {
			if err := s.DBCheck(r.Context()); err != nil {
				dbOK = false
				checks = append(checks, check{Name: "db", OK: false, Details: err.Error()})
			} else {
				checks = append(checks, check{Name: "db", OK: true})
			}
		}

		enabled := []domain.ProviderID{}
		if s.Providers != nil {
			enabled = s.Providers.Enabled()
		}
		names := make([]string, 0, len(enabled))
		for _, id := range enabled {
			names = append(names, string(id))
		}
		checks = append(checks, check{
			Name:    "providers",
			OK:      len(enabled) > 0,
			Details: strings.Join(names, ","),
		})

		status := http.StatusOK
		if !dbOK {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, map[string]any{"checks": checks, "degraded": len(enabled) == 0})
	}
}
