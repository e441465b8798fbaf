// Package tracing wires OpenTelemetry into the condense service: provider setup,
// span helpers for the reduce, chunk and process operations, and HTTP middleware
// that continues W3C trace context and reports the trace id back to clients.
package tracing
