// Command server starts the AI interview analyzer HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	ai "github.com/fairyhunter13/ai-interview-analyzer/internal/adapter/ai"
	httpserver "github.com/fairyhunter13/ai-interview-analyzer/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/adapter/observability"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/app"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/config"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/domain"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/service/ratelimiter"
	"github.com/fairyhunter13/ai-interview-analyzer/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	// Register all Prometheus metrics once per process so that /metrics
	// exposes HTTP, AI, and pipeline instrumentation.
	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("db connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	analysesRepo := postgres.NewAnalysisRepo(pool)

	// Outbound throttle shared by all providers: token bucket plus an
	// in-flight ceiling. Redis-backed when REDIS_URL is set so the budget
	// holds across replicas.
	bucket := ratelimiter.NewBucketConfigFromPerMinute(cfg.AICallsPerMinute)
	var limiter ratelimiter.Limiter = ratelimiter.NewLocalLimiter(bucket)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid REDIS_URL", slog.Any("error", err))
			os.Exit(1)
		}
		limiter = ratelimiter.NewRedisLuaLimiter(redis.NewClient(opts), bucket)
		slog.Info("using redis-backed provider rate limiter")
	}
	throttle := ai.NewThrottle(limiter, cfg.AIMaxInFlight)

	wrap := func(c domain.ProviderClient) domain.ProviderClient {
		return ai.NewThrottledClient(ai.NewObservableClient(c), throttle)
	}
	clients := map[domain.ProviderID]domain.ProviderClient{}
	if cfg.OpenAIAPIKey != "" {
		clients[domain.ProviderOpenAI] = wrap(ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel))
	}
	if cfg.AnthropicAPIKey != "" {
		clients[domain.ProviderAnthropic] = wrap(ai.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicBaseURL, cfg.AnthropicModel))
	}
	if cfg.GeminiAPIKey != "" {
		clients[domain.ProviderGemini] = wrap(ai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.GeminiModel))
	}

	providerConfigs, err := cfg.ProviderConfigs()
	if err != nil {
		slog.Error("provider config load failed", slog.Any("error", err))
		os.Exit(1)
	}
	registry := ai.NewRegistry(providerConfigs, clients)

	monitor := ai.NewHealthMonitor(registry, cfg.HealthCheckInterval)
	go monitor.Run(ctx)

	analyzer := usecase.NewAnalysisService(cfg, registry)

	dbCheck := func(ctx context.Context) error { return pool.Ping(ctx) }
	srv := httpserver.NewServer(cfg, analyzer, analysesRepo, registry, dbCheck)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
