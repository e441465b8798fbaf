// Package summarizer adapts language model providers (Claude, OpenAI and
// OpenAI-compatible local servers) to the condense service. Every call goes
// through a prompt token guard, rate limiting, retry with backoff and a circuit
// breaker, and is recorded in structured logs and Prometheus metrics.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"condense/internal/handler/http/requestid"
	"condense/internal/infra/tokenizer"
	"condense/internal/resilience/circuitbreaker"
	"condense/internal/resilience/ratelimit"
	"condense/internal/resilience/retry"
	"condense/internal/utils/text"
)

var (
	// ErrModelUnavailable is returned while the provider's circuit breaker is open.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrEmptyResponse is returned when the provider answers without any text.
	ErrEmptyResponse = errors.New("model returned empty response")
)

// Processor runs one model inference over already condensed text.
type Processor interface {
	Process(ctx context.Context, action Action, input string) (string, error)
	Name() string
}

// Option customises the reliability and observability wiring of a provider.
type Option func(*runner)

// WithRetry replaces the retry configuration.
func WithRetry(cfg retry.Config) Option {
	return func(r *runner) { r.retry = cfg }
}

// WithCircuitBreaker replaces the circuit breaker.
func WithCircuitBreaker(cb *circuitbreaker.CircuitBreaker) Option {
	return func(r *runner) { r.breaker = cb }
}

// WithRateLimiter throttles calls to the provider.
func WithRateLimiter(l *ratelimit.Limiter) Option {
	return func(r *runner) { r.limiter = l }
}

// WithMetrics replaces the metrics recorder.
func WithMetrics(m MetricsRecorder) Option {
	return func(r *runner) { r.metrics = m }
}

// WithTokenCounter replaces the prompt token counter.
func WithTokenCounter(c tokenizer.Counter) Option {
	return func(r *runner) { r.counter = c }
}

// New builds the Processor for the named provider.
func New(provider string, cfg Config, opts ...Option) (Processor, error) {
	switch strings.ToLower(provider) {
	case ProviderClaude:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%s: %w", provider, ErrMissingAPIKey)
		}
		return NewClaude(cfg, opts...), nil
	case ProviderOpenAI:
		if cfg.APIKey == "" && cfg.BaseURL == "" {
			return nil, fmt.Errorf("%s: %w", provider, ErrMissingAPIKey)
		}
		return NewOpenAI(cfg, opts...), nil
	case ProviderNoOp:
		return NewNoOp(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
}

// completeFunc sends a prompt to the provider and returns the raw answer.
type completeFunc func(ctx context.Context, p Prompt) (string, error)

// runner holds the wrapping shared by the hosted providers.
type runner struct {
	provider string
	config   Config
	retry    retry.Config
	breaker  *circuitbreaker.CircuitBreaker
	limiter  *ratelimit.Limiter
	metrics  MetricsRecorder
	counter  tokenizer.Counter
}

func newRunner(provider, breakerName string, cfg Config, opts []Option) *runner {
	r := &runner{
		provider: provider,
		config:   cfg,
		retry:    retry.ModelConfig(),
		breaker:  circuitbreaker.New(circuitbreaker.ModelConfig(breakerName)),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metrics == nil {
		r.metrics = NewPrometheusMetrics()
	}
	if r.counter == nil {
		r.counter = tokenizer.Estimate{}
	}
	return r
}

func (r *runner) run(ctx context.Context, action Action, input string, complete completeFunc) (string, error) {
	if !action.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	requestID := requestid.FromContext(ctx)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	prompt := BuildPrompt(action, input, r.counter, r.config.PromptLimit())
	if prompt.Shrunk {
		slog.WarnContext(ctx, "prompt exceeds context window, text shortened",
			slog.String("request_id", requestID),
			slog.String("action", string(action)),
			slog.Int("limit", r.config.PromptLimit()),
			slog.Int("new_token_count", prompt.Tokens))
		r.metrics.RecordPromptShrunk(action)
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}

	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	slog.InfoContext(ctx, "model inference started",
		slog.String("request_id", requestID),
		slog.String("provider", r.provider),
		slog.String("action", string(action)),
		slog.Int("input_length", text.CountRunes(prompt.User)),
		slog.Int("prompt_tokens", prompt.Tokens))

	start := time.Now()
	var answer string
	err := retry.WithBackoff(ctx, r.retry, func() error {
		out, err := circuitbreaker.Call(r.breaker, func() (string, error) {
			out, err := complete(ctx, prompt)
			if err != nil {
				return "", err
			}
			if strings.TrimSpace(out) == "" {
				return "", ErrEmptyResponse
			}
			return out, nil
		})
		if errors.Is(err, circuitbreaker.ErrOpen) {
			slog.WarnContext(ctx, "model circuit breaker open, request rejected",
				slog.String("request_id", requestID),
				slog.String("circuit", r.breaker.Name()))
			return fmt.Errorf("%w: %w", ErrModelUnavailable, err)
		}
		if err != nil {
			return err
		}
		answer = out
		return nil
	})
	duration := time.Since(start)

	if err != nil {
		status := StatusError
		if errors.Is(err, ErrModelUnavailable) {
			status = StatusCircuitOpen
		}
		r.metrics.RecordRequest(r.provider, action, status, duration)
		slog.ErrorContext(ctx, "model inference failed",
			slog.String("request_id", requestID),
			slog.String("provider", r.provider),
			slog.Duration("duration", duration),
			slog.Any("error", err))
		return "", fmt.Errorf("%s %s: %w", r.provider, action, err)
	}

	answer = strings.TrimSpace(answer)
	if action == ActionSuggestCSS {
		answer = trimFence(answer)
	}
	length := text.CountRunes(answer)
	r.metrics.RecordRequest(r.provider, action, StatusSuccess, duration)
	r.metrics.RecordOutputLength(action, length)

	slog.InfoContext(ctx, "model inference completed",
		slog.String("request_id", requestID),
		slog.String("provider", r.provider),
		slog.Int("output_length", length),
		slog.Duration("duration", duration))

	return answer, nil
}

// statusError converts a provider status code into a retry-aware error while
// keeping the provider's own error in the chain.
func statusError(status int, err error) error {
	if status == 0 {
		return err
	}
	return fmt.Errorf("%w: %w", &retry.HTTPError{StatusCode: status, Message: err.Error()}, err)
}
