package metrics

import (
	"time"
)

// Process statuses.
const (
	StatusSuccess  = "success"
	StatusFallback = "fallback"
	StatusError    = "error"
)

// RecordReduction records one call to the budgeted reducer.
func RecordReduction(inputLength, outputLength int, duration time.Duration) {
	outcome := "reduced"
	if outputLength == inputLength {
		outcome = "passthrough"
	}
	ReductionsTotal.WithLabelValues(outcome).Inc()
	ReductionDuration.Observe(duration.Seconds())
	if inputLength > 0 {
		ReductionRatio.Observe(float64(outputLength) / float64(inputLength))
	}
}

// RecordChunks records how many chunks a document produced.
func RecordChunks(count int) {
	ChunksPerDocument.Observe(float64(count))
}

// RecordProcess records the outcome of a model-backed request.
func RecordProcess(mode, action, status string, inputLength int, duration time.Duration) {
	ProcessTotal.WithLabelValues(mode, action, status).Inc()
	ProcessDuration.WithLabelValues(mode).Observe(duration.Seconds())
	InputLength.Observe(float64(inputLength))
}

// InferenceQueued marks a request as waiting for the inference slot and
// returns the function that unmarks it.
func InferenceQueued() func() {
	InferenceWaiting.Inc()
	return InferenceWaiting.Dec
}
