package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// healthStatus is the body of all health endpoints.
type healthStatus struct {
	Status string `json:"status"`
}

// Health serves liveness and readiness probes. The service has no
// warm-up phase, so all probes report the same state.
type Health struct{}

// Register mounts the health endpoints.
func (h *Health) Register(r chi.Router) {
	r.Get("/health", h.ok)
	r.Get("/health/live", h.ok)
	r.Get("/health/ready", h.ok)
}

func (h *Health) ok(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthStatus{Status: "ok"})
}
