// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/vaxtrack/internal/domain/model"
	"github.com/okian/vaxtrack/internal/domain/selection"
	"github.com/okian/vaxtrack/pkg/metrics"
)

// SnapshotProvider exposes the current normalized snapshot.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (model.Snapshot, bool)
}

// ReadinessChecker reports whether the service can serve data.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SnapshotProvider
	ReadinessChecker
	StatsProvider
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithValidation sets the unknown-location policy for /api/view.
func WithValidation(v selection.Validation) Option {
	return func(s *Server) {
		s.validation = v
	}
}

// WithDefaultLocation sets the location shown when none is requested.
func WithDefaultLocation(location string) Option {
	return func(s *Server) {
		if location != "" {
			s.defaultLocation = location
		}
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	summariesHandler *SummariesHandler

	validation      selection.Validation
	defaultLocation string
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		validation:      selection.Strict,
		defaultLocation: model.WorldLocation,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler(deps)
	s.statsHandler = NewStatsHandler(deps)
	s.summariesHandler = NewSummariesHandler(deps,
		selection.WithValidation(s.validation),
		selection.WithDefaultLocation(s.defaultLocation),
		selection.WithUnknownLocationHook(func(origin, _ string) {
			metrics.RecordUnknownLocation(origin)
		}),
	)
	return s
}

// Register attaches all HTTP routes to mux. Every route is read-only;
// regeneration is driven by the service's revalidation timer alone.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/readyz", MetricsMiddleware(s.healthHandler.HandleReady, "readyz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/summaries", MetricsMiddleware(s.summariesHandler.HandleGetSummaries, "summaries"))
	mux.HandleFunc("/api/view", MetricsMiddleware(s.summariesHandler.HandleGetView, "view"))
}

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
