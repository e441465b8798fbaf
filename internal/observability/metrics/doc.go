// Package metrics holds the Prometheus collectors describing what the condense
// service does with text: reductions, chunking and model-backed processing.
// HTTP request metrics live with the HTTP handlers.
//
//	start := time.Now()
//	out, err := condense.Reduce(text, budget)
//	metrics.RecordReduction(text.CountRunes(in), text.CountRunes(out), time.Since(start))
package metrics
