package api

import (
	"net/http"

	service "github.com/okian/vaxtrack/internal/app"
)

// StatsProvider reports the state of the revalidation loop.
type StatsProvider interface {
	GetStats() service.Stats
}

// StatsHandler serves the revalidation loop statistics.
type StatsHandler struct {
	deps StatsProvider
}

// NewStatsHandler creates a stats handler.
func NewStatsHandler(deps StatsProvider) *StatsHandler {
	return &StatsHandler{deps: deps}
}

// HandleStats handles GET /stats. The body is always 200; a stale or
// missing snapshot shows up in the stale and locations fields.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.GetStats())
}
