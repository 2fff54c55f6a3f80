package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/vaxtrack/pkg/metrics"
)

// HealthHandler handles liveness and readiness requests.
type HealthHandler struct {
	deps ReadinessChecker
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps ReadinessChecker) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// HandleHealth handles GET /healthz requests by serving the Prometheus
// metrics of the custom registry.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}

// HandleReady handles GET /readyz: 200 once a snapshot exists, 503 before.
func (h *HealthHandler) HandleReady(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_ready"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.CheckReadiness(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "not_ready", Wrap(op, err).WithKind(ErrNotReady))
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ready"})
}
