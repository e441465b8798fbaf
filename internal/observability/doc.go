// Package observability groups logging, metrics and tracing for the condense service.
//
// Subpackages:
//   - logging: slog logger construction and request-scoped loggers
//   - metrics: Prometheus collectors for reduction, chunking and processing
//   - tracing: OpenTelemetry tracer, provider setup and HTTP middleware
package observability
