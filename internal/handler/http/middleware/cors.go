// Package middleware holds HTTP middleware that is configured from the
// application config rather than built per request.
package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// Wildcard in AllowedOrigins admits every origin.
const Wildcard = "*"

// CORSConfig is the cross-origin policy for browser clients.
type CORSConfig struct {
	// AllowedOrigins is a whitelist of exact origins, or Wildcard.
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	// MaxAge is how long a preflight result may be cached, in seconds.
	MaxAge int
	Logger *slog.Logger
}

// DefaultCORSConfig allows any origin to call the API.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{Wildcard},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         86400,
	}
}

func (c CORSConfig) allowAll() bool {
	for _, o := range c.AllowedOrigins {
		if o == Wildcard {
			return true
		}
	}
	return false
}

func (c CORSConfig) allowed(origin string) bool {
	for _, o := range c.AllowedOrigins {
		if o == Wildcard || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

// CORS sets the Access-Control headers for allowed origins and answers
// preflight requests with 204. Requests without an Origin header and requests
// from disallowed origins pass through without CORS headers, so the browser
// blocks the latter.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	allowAll := config.allowAll()
	methods := strings.Join(config.AllowedMethods, ", ")
	headers := strings.Join(config.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(config.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !config.allowed(origin) {
				logger.Warn("CORS: origin not allowed",
					slog.String("origin", origin),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path))
				next.ServeHTTP(w, r)
				return
			}

			if allowAll {
				w.Header().Set("Access-Control-Allow-Origin", Wildcard)
			} else {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				w.Header().Set("Access-Control-Max-Age", maxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, X-Trace-Id")
			next.ServeHTTP(w, r)
		})
	}
}
