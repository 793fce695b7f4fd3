package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpserver "github.com/fairyhunter13/ai-interview-analyzer/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/app"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/config"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/usecase"
)

func TestParseOrigins(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"*"}, app.ParseOrigins(""))
	assert.Equal(t, []string{"*"}, app.ParseOrigins("*"))
	assert.Equal(t, []string{"*"}, app.ParseOrigins(" , ,"))
	assert.Equal(t, []string{"https://a.example", "https://b.example"},
		app.ParseOrigins(" https://a.example, https://b.example "))
}

type noopSelector struct{}

func (noopSelector) Select(_ domain.ProviderID) (domain.ProviderClient, domain.ProviderConfig) {
	return noopClient{}, domain.ProviderConfig{ID: domain.ProviderMock, Enabled: true, Timeout: time.Second}
}

func (noopSelector) Healthy(_ domain.ProviderID) bool { return true }

type noopClient struct{}

func (noopClient) ID() domain.ProviderID { return domain.ProviderMock }

func (noopClient) Generate(_ domain.Context, _ string, _ int) (string, error) {
	return `{"score": 60, "feedback": "ok", "summary": "done"}`, nil
}

type noProviders struct{}

func (noProviders) Enabled() []domain.ProviderID { return nil }

func newRouter() http.Handler {
	cfg := config.Config{
		AppEnv:           "test",
		ScoreBatchSize:   3,
		DefaultMaxTokens: 128,
		CacheTTL:         time.Minute,
		CacheCapacity:    10,
		RateLimitPerMin:  100,
		HTTPWriteTimeout: 5 * time.Second,
	}
	analyzer := usecase.NewAnalysisService(cfg, noopSelector{})
	srv := httpserver.NewServer(cfg, analyzer, nil, noProviders{}, func(context.Context) error { return nil })
	return app.BuildRouter(cfg, srv)
}

func TestRouter_Healthz(t *testing.T) {
	t.Parallel()
	h := newRouter()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()
	h := newRouter()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_UnknownRoute(t *testing.T) {
	t.Parallel()
	h := newRouter()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_AnalyzeRouteWired(t *testing.T) {
	t.Parallel()
	h := newRouter()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/interviews/analyze", nil)
	req.Header.Set("Content-Type", "text/plain")
	h.ServeHTTP(rec, req)
	// Reaches the handler, which rejects the content type.
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
