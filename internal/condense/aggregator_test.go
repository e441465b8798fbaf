package condense_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"condense/internal/condense"
)

// recorder is a ProcessFunc that records every chunk it receives.
type recorder struct {
	calls    []string
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	failOn   int
	err      error
	fn       func(string) string
}

func (r *recorder) process(_ context.Context, chunk string) (string, error) {
	n := r.inFlight.Add(1)
	defer r.inFlight.Add(-1)
	if n > r.maxSeen.Load() {
		r.maxSeen.Store(n)
	}

	r.calls = append(r.calls, chunk)
	if r.err != nil && len(r.calls) == r.failOn {
		return "", r.err
	}
	if r.fn != nil {
		return r.fn(chunk), nil
	}
	return chunk, nil
}

func TestAggregator_UppercaseChunks(t *testing.T) {
	agg, err := condense.NewAggregator(100)
	require.NoError(t, err)

	rec := &recorder{fn: strings.ToUpper}
	got, err := agg.Aggregate(context.Background(), []string{"a", "b", "c"}, rec.process)
	require.NoError(t, err)

	assert.Equal(t, "A\n\nB\n\nC", got)
	assert.Equal(t, []string{"a", "b", "c"}, rec.calls)
	assert.Equal(t, int32(1), rec.maxSeen.Load())
}

func TestAggregator_ReReducesLongResult(t *testing.T) {
	rec := &recorder{fn: strings.ToUpper}

	got, err := condense.ChunkAndProcess(context.Background(), "a\n\nb\n\nc", 3, rec.process)
	require.NoError(t, err)

	// "A\n\nB\n\nC" is 7 runes, over 2*3, so its first 6 runes are processed again.
	assert.Equal(t, []string{"a", "b", "c", "A\n\nB\n\n"}, rec.calls)
	assert.Equal(t, "A\n\nB\n\n", got)
}

func TestAggregator_ErrorDiscardsPartialResults(t *testing.T) {
	errModel := errors.New("model exploded")
	rec := &recorder{failOn: 2, err: errModel}

	agg, err := condense.NewAggregator(50)
	require.NoError(t, err)

	got, err := agg.Aggregate(context.Background(), []string{"one", "two", "three"}, rec.process)
	require.Error(t, err)
	assert.ErrorIs(t, err, errModel)
	assert.Empty(t, got)
	assert.Equal(t, []string{"one", "two"}, rec.calls)
}

func TestAggregator_ReReduceError(t *testing.T) {
	errModel := errors.New("second pass failed")
	rec := &recorder{failOn: 4, err: errModel, fn: strings.ToUpper}

	_, err := condense.ChunkAndProcess(context.Background(), "a\n\nb\n\nc", 3, rec.process)
	assert.ErrorIs(t, err, errModel)
	assert.Len(t, rec.calls, 4)
}

func TestAggregator_EmptyInput(t *testing.T) {
	rec := &recorder{}

	got, err := condense.ChunkAndProcess(context.Background(), "", 10, rec.process)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, rec.calls)
}

func TestAggregator_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := &recorder{}

	_, err := condense.ChunkAndProcess(ctx, "one\n\ntwo", 5, rec.process)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rec.calls)
}

func TestAggregator_InvalidConfiguration(t *testing.T) {
	_, err := condense.NewAggregator(0)
	assert.ErrorIs(t, err, condense.ErrInvalidConfiguration)

	_, err = condense.ChunkAndProcess(context.Background(), "text", -1, func(_ context.Context, s string) (string, error) {
		return s, nil
	})
	assert.ErrorIs(t, err, condense.ErrInvalidConfiguration)

	_, err = condense.ChunkAndProcess(context.Background(), "text", 10, nil)
	assert.ErrorIs(t, err, condense.ErrInvalidConfiguration)
}
