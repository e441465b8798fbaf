package summarizer

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Request outcomes recorded by MetricsRecorder.
const (
	StatusSuccess     = "success"
	StatusError       = "error"
	StatusCircuitOpen = "circuit_open"
)

// MetricsRecorder records model call metrics. Tests inject a fake; production
// uses NewPrometheusMetrics.
type MetricsRecorder interface {
	// RecordRequest records one Process call with its outcome and duration.
	RecordRequest(provider string, action Action, status string, duration time.Duration)

	// RecordOutputLength records the rune length of a model answer.
	RecordOutputLength(action Action, length int)

	// RecordPromptShrunk counts prompts cut down to fit the context window.
	RecordPromptShrunk(action Action)
}

// PrometheusMetrics implements MetricsRecorder with Prometheus collectors.
type PrometheusMetrics struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	outputLength  *prometheus.HistogramVec
	promptsShrunk *prometheus.CounterVec
}

var (
	prometheusMetricsInstance *PrometheusMetrics
	prometheusMetricsOnce     sync.Once
)

// registerOrExisting registers c, returning the already registered collector on conflict.
func registerOrExisting[T prometheus.Collector](c T) T {
	if err := prometheus.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
	}
	return c
}

// NewPrometheusMetrics returns the process-wide Prometheus recorder.
func NewPrometheusMetrics() *PrometheusMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusMetrics{
			requests: registerOrExisting(prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "condense_model_requests_total",
					Help: "Total number of model inference calls by provider, action and status",
				},
				[]string{"provider", "action", "status"},
			)),
			duration: registerOrExisting(prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "condense_model_request_duration_seconds",
					Help:    "Time taken by model inference calls, retries included",
					Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
				},
				[]string{"provider", "action"},
			)),
			outputLength: registerOrExisting(prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "condense_model_output_length_characters",
					Help:    "Distribution of model answer lengths in characters (Unicode runes)",
					Buckets: []float64{50, 100, 200, 400, 800, 1600},
				},
				[]string{"action"},
			)),
			promptsShrunk: registerOrExisting(prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "condense_prompt_shrunk_total",
					Help: "Total number of prompts cut down to fit the model context window",
				},
				[]string{"action"},
			)),
		}
	})
	return prometheusMetricsInstance
}

// RecordRequest implements MetricsRecorder.
func (p *PrometheusMetrics) RecordRequest(provider string, action Action, status string, duration time.Duration) {
	p.requests.WithLabelValues(provider, string(action), status).Inc()
	p.duration.WithLabelValues(provider, string(action)).Observe(duration.Seconds())
}

// RecordOutputLength implements MetricsRecorder.
func (p *PrometheusMetrics) RecordOutputLength(action Action, length int) {
	p.outputLength.WithLabelValues(string(action)).Observe(float64(length))
}

// RecordPromptShrunk implements MetricsRecorder.
func (p *PrometheusMetrics) RecordPromptShrunk(action Action) {
	p.promptsShrunk.WithLabelValues(string(action)).Inc()
}
