package summarizer

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMetrics records calls for assertions.
type fakeMetrics struct {
	mu       sync.Mutex
	statuses []string
	lengths  []int
	shrunk   int
}

func (f *fakeMetrics) RecordRequest(_ string, _ Action, status string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, status)
}

func (f *fakeMetrics) RecordOutputLength(_ Action, length int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lengths = append(f.lengths, length)
}

func (f *fakeMetrics) RecordPromptShrunk(Action) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shrunk++
}

func TestNewPrometheusMetrics_Singleton(t *testing.T) {
	m1 := NewPrometheusMetrics()
	m2 := NewPrometheusMetrics()

	require.NotNil(t, m1)
	assert.Same(t, m1, m2)
}

func TestPrometheusMetrics_Record(t *testing.T) {
	m := NewPrometheusMetrics()

	requests := m.requests.WithLabelValues("test", string(ActionSummarize), StatusSuccess)
	before := testutil.ToFloat64(requests)
	m.RecordRequest("test", ActionSummarize, StatusSuccess, 120*time.Millisecond)
	assert.InDelta(t, before+1, testutil.ToFloat64(requests), 1e-9)

	shrunk := m.promptsShrunk.WithLabelValues(string(ActionSuggestCSS))
	before = testutil.ToFloat64(shrunk)
	m.RecordPromptShrunk(ActionSuggestCSS)
	assert.InDelta(t, before+1, testutil.ToFloat64(shrunk), 1e-9)

	assert.NotPanics(t, func() { m.RecordOutputLength(ActionSummarize, 42) })
}

func TestPrometheusMetrics_ConcurrentAccess(t *testing.T) {
	m := NewPrometheusMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			m.RecordRequest("test", ActionSummarize, StatusError, time.Duration(n)*time.Millisecond)
			m.RecordOutputLength(ActionSummarize, n)
		}(i)
	}
	wg.Wait()
}
