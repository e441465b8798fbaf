package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"condense/internal/handler/http/requestid"
	"condense/internal/observability/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

/* ───────── Logging ───────── */

func TestLogging(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel string
	}{
		{name: "success", status: http.StatusOK, wantLevel: "INFO"},
		{name: "client error", status: http.StatusBadRequest, wantLevel: "INFO"},
		{name: "server error", status: http.StatusServiceUnavailable, wantLevel: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			handler := requestid.Middleware(Logging(bufferLogger(&buf))(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
					_, _ = w.Write([]byte("body"))
				})))

			req := httptest.NewRequest(http.MethodPost, "/process", nil)
			req.Header.Set(requestid.RequestIDHeader, "req-42")
			handler.ServeHTTP(httptest.NewRecorder(), req)

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, "request completed", entry["msg"])
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, "req-42", entry["request_id"])
			assert.Equal(t, float64(tt.status), entry["status"])
			assert.Equal(t, float64(4), entry["bytes"])
			assert.Equal(t, "/process", entry["path"])
		})
	}
}

func TestLogging_StoresRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	handler := requestid.Middleware(Logging(bufferLogger(&buf))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logging.FromContext(r.Context()).Info("inside handler")
		})))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestid.RequestIDHeader, "req-7")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	first, _, _ := strings.Cut(buf.String(), "\n")
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(first), &entry))
	assert.Equal(t, "inside handler", entry["msg"])
	assert.Equal(t, "req-7", entry["request_id"])
}

func TestLogging_TraceIDFromHeader(t *testing.T) {
	var buf bytes.Buffer
	handler := Logging(bufferLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Trace-Id", "4bf92f3577b34da6a3ce929d0e0e4736")
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entry["trace_id"])
}

/* ───────── Recover ───────── */

func TestRecover(t *testing.T) {
	tests := []struct {
		name       string
		panicValue any
	}{
		{name: "string", panicValue: "something went wrong"},
		{name: "error", panicValue: errors.New("boom")},
		{name: "number", panicValue: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			handler := Recover(bufferLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic(tt.panicValue)
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/process", nil))

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
			assert.Contains(t, buf.String(), "panic recovered")
		})
	}
}

func TestRecover_NoPanic(t *testing.T) {
	handler := Recover(slog.Default())(okHandler(http.StatusOK))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecover_AbortHandlerPropagates(t *testing.T) {
	handler := Recover(slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	})
}

/* ───────── LimitRequestBody ───────── */

func TestLimitRequestBody(t *testing.T) {
	tests := []struct {
		name           string
		maxBytes       int64
		bodySize       int
		hideLength     bool
		expectedStatus int
	}{
		{name: "within limit", maxBytes: 1024, bodySize: 512, expectedStatus: http.StatusOK},
		{name: "exactly at limit", maxBytes: 1024, bodySize: 1024, expectedStatus: http.StatusOK},
		{name: "declared length over limit", maxBytes: 100, bodySize: 200, expectedStatus: http.StatusRequestEntityTooLarge},
		{name: "unknown length over limit", maxBytes: 100, bodySize: 200, hideLength: true, expectedStatus: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := LimitRequestBody(tt.maxBytes)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if _, err := io.ReadAll(r.Body); err != nil {
					var maxErr *http.MaxBytesError
					require.ErrorAs(t, err, &maxErr)
					w.WriteHeader(http.StatusRequestEntityTooLarge)
					return
				}
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodPost, "/process", strings.NewReader(strings.Repeat("a", tt.bodySize)))
			if tt.hideLength {
				req.ContentLength = -1
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestLimitRequestBody_DefaultLimit(t *testing.T) {
	handler := LimitRequestBody(0)(okHandler(http.StatusOK))
	req := httptest.NewRequest(http.MethodPost, "/process", strings.NewReader("x"))
	req.ContentLength = DefaultMaxBodyBytes + 1

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
