package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reduction metrics
var (
	// ReductionsTotal counts budgeted reductions by outcome.
	// A "passthrough" reduction returned the input unchanged because it already fit.
	ReductionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "condense_reductions_total",
			Help: "Total number of budgeted text reductions",
		},
		[]string{"outcome"},
	)

	// ReductionRatio observes output length divided by input length.
	ReductionRatio = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "condense_reduction_ratio",
			Help:    "Reduced length as a fraction of the original length",
			Buckets: []float64{0.05, 0.1, 0.2, 0.3, 0.5, 0.75, 1, 1.5},
		},
	)

	// ReductionDuration measures the time spent in the core reducer.
	ReductionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "condense_reduction_duration_seconds",
			Help:    "Time spent reducing text to a budget",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)
)

// Chunking metrics
var (
	// ChunksPerDocument observes how many chunks a document was split into.
	ChunksPerDocument = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "condense_chunks_per_document",
			Help:    "Number of chunks produced per chunked document",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128},
		},
	)
)

// Processing metrics
var (
	// ProcessTotal counts model-backed requests by mode, action and status.
	ProcessTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "condense_process_requests_total",
			Help: "Total number of process requests",
		},
		[]string{"mode", "action", "status"},
	)

	// ProcessDuration measures end-to-end processing time, model calls included.
	ProcessDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "condense_process_duration_seconds",
			Help:    "End-to-end processing duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"mode"},
	)

	// InputLength observes the rune length of incoming texts.
	InputLength = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "condense_input_length_characters",
			Help:    "Length of submitted texts in characters (Unicode runes)",
			Buckets: prometheus.ExponentialBuckets(100, 4, 8),
		},
	)

	// InferenceWaiting tracks requests queued for the single inference slot.
	InferenceWaiting = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "condense_inference_waiting",
			Help: "Number of requests waiting for the model inference slot",
		},
	)
)
