package condense

import (
	"context"
	"fmt"
	"strings"

	"condense/internal/utils/text"
)

// ProcessFunc transforms a single chunk, typically by calling a language
// model. Timeouts and retries are the implementation's concern.
type ProcessFunc func(ctx context.Context, chunk string) (string, error)

// Aggregator runs a ProcessFunc over chunks and recombines the results.
type Aggregator struct {
	maxChunkSize int
}

// NewAggregator creates an Aggregator for chunks of at most maxChunkSize runes.
func NewAggregator(maxChunkSize int) (*Aggregator, error) {
	if maxChunkSize <= 0 {
		return nil, fmt.Errorf("%w: max chunk size must be positive, got %d", ErrInvalidConfiguration, maxChunkSize)
	}
	return &Aggregator{maxChunkSize: maxChunkSize}, nil
}

// Aggregate calls process on each chunk in order, waiting for each call to
// return before starting the next, and joins the results with a blank line.
// When the joined text is longer than twice the chunk size, its first
// 2*maxChunkSize runes are passed through process once more and that result is
// returned instead. This limits growth but does not guarantee a bound.
//
// The first error from process aborts the run; results gathered so far are
// discarded.
func (a *Aggregator) Aggregate(ctx context.Context, chunks []string, process ProcessFunc) (string, error) {
	if process == nil {
		return "", fmt.Errorf("%w: process function is required", ErrInvalidConfiguration)
	}

	results := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("aggregate aborted before chunk %d/%d: %w", i+1, len(chunks), err)
		}
		out, err := process(ctx, chunk)
		if err != nil {
			return "", fmt.Errorf("process chunk %d/%d: %w", i+1, len(chunks), err)
		}
		results = append(results, out)
	}

	combined := strings.Join(results, paragraphJoiner)
	limit := 2 * a.maxChunkSize
	if text.CountRunes(combined) <= limit {
		return combined, nil
	}

	out, err := process(ctx, text.Head(combined, limit))
	if err != nil {
		return "", fmt.Errorf("re-reduce combined result: %w", err)
	}
	return out, nil
}

// ChunkAndProcess splits text into chunks of at most maxChunkSize runes, runs
// process over them sequentially and recombines the results.
func ChunkAndProcess(ctx context.Context, input string, maxChunkSize int, process ProcessFunc) (string, error) {
	chunker, err := NewChunker(maxChunkSize)
	if err != nil {
		return "", err
	}
	aggregator, err := NewAggregator(maxChunkSize)
	if err != nil {
		return "", err
	}
	return aggregator.Aggregate(ctx, chunker.Split(input), process)
}
