// Package http serves the condense API: health, process, reduce and chunk
// endpoints plus the middleware chain wrapped around them.
package http

import (
	"net/http"

	"condense/internal/handler/http/respond"
)

// ModelStatus reports whether a model provider is configured.
type ModelStatus interface {
	ModelLoaded() bool
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	Version     string `json:"version,omitempty"`
}

// HealthHandler answers liveness and readiness probes.
type HealthHandler struct {
	Model   ModelStatus
	Version string
}

func (h *HealthHandler) modelLoaded() bool {
	return h.Model != nil && h.Model.ModelLoaded()
}

// ServeHTTP always answers 200: the process is up even without a model, and
// /reduce and /chunk keep working.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, HealthResponse{
		Status:      "ok",
		ModelLoaded: h.modelLoaded(),
		Version:     h.Version,
	})
}

// Ready answers 503 until a model is configured.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if !h.modelLoaded() {
		respond.JSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:      "not ready",
			ModelLoaded: false,
			Version:     h.Version,
		})
		return
	}
	respond.JSON(w, http.StatusOK, HealthResponse{
		Status:      "ready",
		ModelLoaded: true,
		Version:     h.Version,
	})
}
