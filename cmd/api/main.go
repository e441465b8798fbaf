package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"condense/internal/config"
	hhttp "condense/internal/handler/http"
	hcondense "condense/internal/handler/http/condense"
	"condense/internal/handler/http/middleware"
	"condense/internal/handler/http/requestid"
	"condense/internal/infra/summarizer"
	"condense/internal/infra/tokenizer"
	"condense/internal/observability/logging"
	"condense/internal/observability/tracing"
	"condense/internal/resilience/circuitbreaker"
	"condense/internal/resilience/ratelimit"
	"condense/internal/resilience/retry"
	condUC "condense/internal/usecase/condense"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := initLogger(cfg.Observability)

	shutdownTracing := initTracing(logger, cfg.Observability)
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("failed to shut down tracer provider", slog.Any("error", err))
		}
	}()

	svc, err := setupService(logger, cfg)
	if err != nil {
		logger.Error("failed to create condense service", slog.Any("error", err))
		os.Exit(1)
	}

	handler := applyMiddleware(logger, cfg, setupRoutes(svc, cfg.Server.Version))
	runServer(logger, handler, cfg.Server)
}

// initLogger installs the process-wide structured logger.
func initLogger(cfg config.ObservabilityConfig) *slog.Logger {
	logger := logging.New(os.Stdout, logging.Options{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: logging.Format(cfg.LogFormat),
	})
	slog.SetDefault(logger)
	return logger
}

// initTracing installs an SDK tracer provider when enabled. Spans then carry
// real trace IDs into logs and the X-Trace-Id header.
func initTracing(logger *slog.Logger, cfg config.ObservabilityConfig) func(context.Context) error {
	if !cfg.TracingEnabled {
		return func(context.Context) error { return nil }
	}
	logger.Info("tracing enabled")
	return tracing.Setup()
}

// setupService builds the model processor and the use case. A provider that
// cannot be built leaves the service without a model: /process answers 503
// while /reduce and /chunk keep working.
func setupService(logger *slog.Logger, cfg *config.Config) (*condUC.Service, error) {
	processor, err := newProcessor(cfg)
	if err != nil {
		logger.Error("model not loaded",
			slog.String("provider", cfg.Model.Provider),
			slog.Any("error", err))
	} else {
		logger.Info("model loaded",
			slog.String("provider", processor.Name()),
			slog.String("model", cfg.Model.Name),
			slog.Int("context_window", cfg.Model.ContextWindow))
	}

	return condUC.NewService(processor, condUC.Config{
		MaxTextLength:  cfg.Condense.MaxTextLength,
		MaxChunkSize:   cfg.Condense.MaxChunkSize,
		ChunkThreshold: cfg.Condense.ChunkThreshold,
	})
}

func newProcessor(cfg *config.Config) (summarizer.Processor, error) {
	m := cfg.Model

	breakerName := m.Provider
	if m.BaseURL != "" {
		breakerName = "local"
	}
	cbCfg := circuitbreaker.ModelConfig(breakerName)
	cbCfg.MaxRequests = cfg.CircuitBreaker.MaxRequests
	cbCfg.Interval = cfg.CircuitBreaker.Interval
	cbCfg.Timeout = cfg.CircuitBreaker.Timeout
	cbCfg.FailureThreshold = cfg.CircuitBreaker.FailureThreshold
	cbCfg.MinRequests = cfg.CircuitBreaker.MinRequests

	retryCfg := retry.ModelConfig()
	retryCfg.MaxAttempts = m.RetryAttempts

	return summarizer.New(m.Provider, summarizer.Config{
		Model:          m.Name,
		BaseURL:        m.BaseURL,
		APIKey:         m.APIKey(),
		ContextWindow:  m.ContextWindow,
		ReservedTokens: m.ReservedTokens,
		Temperature:    m.Temperature,
		TopP:           m.TopP,
		Timeout:        m.Timeout,
	},
		summarizer.WithTokenCounter(tokenizer.New(m.Tokenizer)),
		summarizer.WithRateLimiter(ratelimit.New(m.RateLimit, m.RateBurst)),
		summarizer.WithRetry(retryCfg),
		summarizer.WithCircuitBreaker(circuitbreaker.New(cbCfg)),
	)
}

func setupRoutes(svc *condUC.Service, version string) *http.ServeMux {
	health := &hhttp.HealthHandler{Model: svc, Version: version}

	mux := http.NewServeMux()
	mux.Handle("GET /health", health)
	mux.HandleFunc("GET /health/ready", health.Ready)
	mux.Handle("GET /metrics", hhttp.MetricsHandler())
	hcondense.Register(mux, svc)
	return mux
}

// applyMiddleware wraps handler so that requests pass through CORS, request
// ID, panic recovery, logging, the body limit, the timeout, tracing and
// metrics, in that order.
func applyMiddleware(logger *slog.Logger, cfg *config.Config, handler http.Handler) http.Handler {
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.CORS.AllowedOrigins
	corsConfig.Logger = logger

	logger.Info("CORS enabled",
		slog.Any("allowed_origins", corsConfig.AllowedOrigins),
		slog.Any("allowed_methods", corsConfig.AllowedMethods),
		slog.Int("max_age", corsConfig.MaxAge))

	chain := handler
	chain = hhttp.MetricsMiddleware(chain)
	chain = tracing.Middleware(chain)
	chain = hhttp.Timeout(cfg.Server.RequestTimeout)(chain)
	chain = hhttp.LimitRequestBody(cfg.Server.MaxBodyBytes)(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = requestid.Middleware(chain)
	chain = middleware.CORS(corsConfig)(chain)
	return chain
}

func runServer(logger *slog.Logger, handler http.Handler, cfg config.ServerConfig) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.Addr),
			slog.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	cancel()
	logger.Info("server stopped")
}
