// Package condense orchestrates text reduction and model calls for the API and CLI.
package condense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/semaphore"

	core "condense/internal/condense"
	"condense/internal/infra/summarizer"
	"condense/internal/observability/logging"
	"condense/internal/observability/metrics"
	"condense/internal/observability/tracing"
	"condense/internal/utils/text"
)

// Service reduces, chunks and processes text. A nil processor leaves the
// reduction operations usable while Process reports ErrServiceUnavailable.
type Service struct {
	processor summarizer.Processor
	reducer   *core.Reducer
	config    Config

	// inference admits one model call at a time across concurrent requests.
	inference *semaphore.Weighted
}

// Option customises a Service.
type Option func(*Service)

// WithReducer replaces the default reducer, e.g. to change the keyword list.
func WithReducer(r *core.Reducer) Option {
	return func(s *Service) { s.reducer = r }
}

// NewService creates a Service.
func NewService(processor summarizer.Processor, cfg Config, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidConfiguration, err)
	}
	s := &Service{
		processor: processor,
		reducer:   core.NewReducer(),
		config:    cfg,
		inference: semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ModelLoaded reports whether a model processor is configured.
func (s *Service) ModelLoaded() bool {
	return s.processor != nil
}

// Config returns the service configuration.
func (s *Service) Config() Config {
	return s.config
}

// Process condenses req.Text and runs the requested model action over it.
//
// In truncate mode a model failure yields the action's fallback text rather than
// an error. In chunk mode any chunk failure fails the request.
func (s *Service) Process(ctx context.Context, req Request) (resp *Response, err error) {
	logger := logging.WithRequestID(ctx, slog.Default())
	start := time.Now()

	if s.processor == nil {
		logger.Warn("process requested but no model is loaded")
		return nil, ErrServiceUnavailable
	}

	action, err := summarizer.ParseAction(req.Action)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAction, err)
	}
	mode, err := ParseMode(req.Mode)
	if err != nil {
		return nil, err
	}

	originalLength := text.CountRunes(req.Text)
	if mode == ModeAuto {
		mode = ModeTruncate
		if originalLength > s.config.ChunkThreshold {
			mode = ModeChunk
		}
	}

	ctx, span := tracing.StartSpan(ctx, "condense.process",
		attribute.String("action", string(action)),
		attribute.String("mode", string(mode)),
		attribute.Int("original_length", originalLength))
	defer func() { tracing.EndSpan(span, err) }()

	logger.Info("processing text",
		slog.String("action", string(action)),
		slog.String("mode", string(mode)),
		slog.Int("original_length", originalLength))

	resp = &Response{OriginalLength: originalLength, Mode: mode}
	var answer string
	status := metrics.StatusSuccess

	switch mode {
	case ModeChunk:
		answer, err = s.processChunks(ctx, action, req.Text, resp)
		if err != nil {
			metrics.RecordProcess(string(mode), string(action), metrics.StatusError, originalLength, time.Since(start))
			logger.Error("chunked processing failed", slog.Any("error", err))
			if errors.Is(err, summarizer.ErrModelUnavailable) {
				return nil, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
			}
			return nil, err
		}
	default:
		var reduced string
		reduced, err = s.reducer.Reduce(req.Text, s.config.MaxTextLength)
		if err != nil {
			return nil, err
		}
		resp.ProcessedLength = text.CountRunes(reduced)
		logger.Info("text reduced for model",
			slog.Int("processed_length", resp.ProcessedLength),
			slog.Int("budget", s.config.MaxTextLength))

		answer, err = s.infer(ctx, action, reduced)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Error("model call failed, returning fallback", slog.Any("error", err))
			answer = action.Fallback()
			resp.Fallback = true
			status = metrics.StatusFallback
			err = nil
		}
	}

	if action == summarizer.ActionSuggestCSS {
		resp.CSSSuggestions = &answer
	} else {
		resp.Summary = &answer
	}

	metrics.RecordProcess(string(mode), string(action), status, originalLength, time.Since(start))
	logger.Info("text processed",
		slog.String("mode", string(mode)),
		slog.Int("processed_length", resp.ProcessedLength),
		slog.Int("chunk_count", resp.Chunks),
		slog.Bool("fallback", resp.Fallback),
		slog.Duration("duration", time.Since(start)))

	return resp, nil
}

func (s *Service) processChunks(ctx context.Context, action summarizer.Action, input string, resp *Response) (string, error) {
	chunker, err := core.NewChunker(s.config.MaxChunkSize)
	if err != nil {
		return "", err
	}
	aggregator, err := core.NewAggregator(s.config.MaxChunkSize)
	if err != nil {
		return "", err
	}

	chunks := chunker.Split(input)
	metrics.RecordChunks(len(chunks))
	resp.Chunks = len(chunks)
	for _, c := range chunks {
		resp.ProcessedLength += text.CountRunes(c)
	}

	return aggregator.Aggregate(ctx, chunks, func(ctx context.Context, chunk string) (string, error) {
		return s.infer(ctx, action, chunk)
	})
}

// infer runs one model call once the inference slot is free.
func (s *Service) infer(ctx context.Context, action summarizer.Action, input string) (string, error) {
	done := metrics.InferenceQueued()
	err := s.inference.Acquire(ctx, 1)
	done()
	if err != nil {
		return "", fmt.Errorf("wait for model: %w", err)
	}
	defer s.inference.Release(1)

	return s.processor.Process(ctx, action, input)
}

// Reduce shrinks input to budget runes with the budgeted reducer. A budget
// below one fails with core.ErrInvalidConfiguration.
func (s *Service) Reduce(ctx context.Context, input string, budget int) (res *ReduceResult, err error) {
	_, span := tracing.StartSpan(ctx, "condense.reduce", attribute.Int("budget", budget))
	defer func() { tracing.EndSpan(span, err) }()

	start := time.Now()
	reduced, err := s.reducer.Reduce(input, budget)
	if err != nil {
		return nil, err
	}

	res = &ReduceResult{
		Text:           reduced,
		Budget:         budget,
		OriginalLength: text.CountRunes(input),
		ReducedLength:  text.CountRunes(reduced),
	}
	metrics.RecordReduction(res.OriginalLength, res.ReducedLength, time.Since(start))
	logging.WithRequestID(ctx, slog.Default()).Info("text reduced",
		slog.Int("original_length", res.OriginalLength),
		slog.Int("processed_length", res.ReducedLength),
		slog.Int("budget", budget))
	return res, nil
}

// Chunk splits input into chunks of at most maxChunkSize runes. A size below
// one fails with core.ErrInvalidConfiguration.
func (s *Service) Chunk(ctx context.Context, input string, maxChunkSize int) (res *ChunkResult, err error) {
	_, span := tracing.StartSpan(ctx, "condense.chunk", attribute.Int("max_chunk_size", maxChunkSize))
	defer func() { tracing.EndSpan(span, err) }()

	chunker, err := core.NewChunker(maxChunkSize)
	if err != nil {
		return nil, err
	}
	chunks := chunker.Split(input)
	if chunks == nil {
		chunks = []string{}
	}
	metrics.RecordChunks(len(chunks))

	logging.WithRequestID(ctx, slog.Default()).Info("text chunked",
		slog.Int("original_length", text.CountRunes(input)),
		slog.Int("chunk_count", len(chunks)),
		slog.Int("max_chunk_size", maxChunkSize))
	return &ChunkResult{Chunks: chunks, Count: len(chunks), MaxChunkSize: maxChunkSize}, nil
}
