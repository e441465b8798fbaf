package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// installExporter routes spans to an in-memory exporter for the duration of the test.
func installExporter(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	prevProvider := otel.GetTracerProvider()
	prevPropagator := otel.GetTextMapPropagator()
	shutdown := Setup(WithExporter(exporter))
	t.Cleanup(func() {
		_ = shutdown(context.Background())
		otel.SetTracerProvider(prevProvider)
		otel.SetTextMapPropagator(prevPropagator)
	})
	return exporter
}

func attrMap(attrs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(attrs))
	for _, a := range attrs {
		m[a.Key] = a.Value
	}
	return m
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	Middleware(h).ServeHTTP(rr, req)
	return rr
}

/* ───────── middleware ───────── */

func TestMiddleware_CreatesServerSpan(t *testing.T) {
	exporter := installExporter(t)

	rr := serve(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"chunks":[]}`))
	}), httptest.NewRequest(http.MethodPost, "/chunk", nil))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "POST /chunk", spans[0].Name)

	attrs := attrMap(spans[0].Attributes)
	assert.Equal(t, "POST", attrs["http.method"].AsString())
	assert.Equal(t, "/chunk", attrs["http.path"].AsString())
	assert.EqualValues(t, 200, attrs["http.status_code"].AsInt64())
	assert.EqualValues(t, 13, attrs["http.response_size"].AsInt64())

	assert.Len(t, rr.Header().Get(TraceIDHeader), 32)
	assert.Equal(t, spans[0].SpanContext.TraceID().String(), rr.Header().Get(TraceIDHeader))
}

func TestMiddleware_ContinuesIncomingTrace(t *testing.T) {
	exporter := installExporter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	serve(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}), req)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", spans[0].SpanContext.TraceID().String())
	assert.Equal(t, "00f067aa0ba902b7", spans[0].Parent.SpanID().String())
}

func TestMiddleware_ErrorStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantError bool
	}{
		{"server error", http.StatusServiceUnavailable, true},
		{"client error", http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter := installExporter(t)

			serve(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}), httptest.NewRequest(http.MethodPost, "/process", nil))

			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			_, hasErr := attrMap(spans[0].Attributes)["error"]
			assert.Equal(t, tt.wantError, hasErr)
			if tt.wantError {
				assert.Equal(t, codes.Error, spans[0].Status.Code)
			}
		})
	}
}

/* ───────── span helpers ───────── */

func TestStartEndSpan(t *testing.T) {
	exporter := installExporter(t)

	_, span := StartSpan(context.Background(), "condense.reduce", attribute.Int("budget", 800))
	EndSpan(span, nil)

	_, span = StartSpan(context.Background(), "condense.process")
	EndSpan(span, errors.New("model unavailable"))

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "condense.reduce", spans[0].Name)
	assert.EqualValues(t, 800, attrMap(spans[0].Attributes)["budget"].AsInt64())
	assert.Equal(t, codes.Error, spans[1].Status.Code)
	assert.Len(t, spans[1].Events, 1)
}

func TestSetup_InstallsPropagator(t *testing.T) {
	installExporter(t)

	fields := otel.GetTextMapPropagator().Fields()
	assert.Contains(t, fields, "traceparent")
	assert.Contains(t, fields, "baggage")
	_, ok := otel.GetTextMapPropagator().(propagation.TextMapPropagator)
	assert.True(t, ok)
	_, isSDK := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, isSDK)
}
