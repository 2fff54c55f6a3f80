package api

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/okian/vaxtrack/internal/domain/model"
	"github.com/okian/vaxtrack/internal/domain/selection"
)

// SummariesHandler serves the normalized summaries and the per-location
// view model.
type SummariesHandler struct {
	deps SnapshotProvider
	opts []selection.Option
}

// NewSummariesHandler creates a summaries handler. opts configure the
// Controller built for every view request.
func NewSummariesHandler(deps SnapshotProvider, opts ...selection.Option) *SummariesHandler {
	return &SummariesHandler{deps: deps, opts: opts}
}

type summariesResponse struct {
	Metric      model.Metric    `json:"metric"`
	MetricLabel string          `json:"metric_label"`
	FetchedAt   time.Time       `json:"fetched_at"`
	SourceURL   string          `json:"source_url,omitempty"`
	Count       int             `json:"count"`
	Summaries   []model.Summary `json:"summaries"`
}

type viewResponse struct {
	selection.View
	// Changed reports that a pick moved the selection; ShareURL is then
	// the URL to push onto the browser history.
	Changed     bool         `json:"changed"`
	Metric      model.Metric `json:"metric"`
	MetricLabel string       `json:"metric_label"`
	FetchedAt   time.Time    `json:"fetched_at"`
}

// HandleGetSummaries handles GET /api/summaries[?limit=N]. Summaries are
// ordered by value, highest first.
func (h *SummariesHandler) HandleGetSummaries(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_summaries"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}

	snap, ok := h.deps.Snapshot(r.Context())
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "not_ready", NewKind(op, ErrNotReady))
		return
	}

	summaries := snap.Summaries
	if summaries == nil {
		summaries = []model.Summary{}
	}
	if limit > 0 && limit < len(summaries) {
		summaries = summaries[:limit]
	}
	writeJSON(w, http.StatusOK, summariesResponse{
		Metric:      snap.Metric,
		MetricLabel: snap.Metric.Label(),
		FetchedAt:   snap.FetchedAt,
		SourceURL:   snap.SourceURL,
		Count:       snap.Len(),
		Summaries:   summaries,
	})
}

// HandleGetView handles GET /api/view?location=X[&pick=Y]. location is
// the page's current URL state and pick a picker selection on top of it.
// An unknown or missing location leaves the default selected; current is
// null when the selected location has no summary.
func (h *SummariesHandler) HandleGetView(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_view"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	snap, ok := h.deps.Snapshot(r.Context())
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "not_ready", NewKind(op, ErrNotReady))
		return
	}

	sync := selection.NewQuerySync(&url.URL{Path: "/", RawQuery: r.URL.RawQuery})
	opts := append([]selection.Option{selection.WithURLSync(sync)}, h.opts...)
	c := selection.NewController(snap.Summaries, opts...)
	changed := selection.Apply(c, r.URL.Query())

	v := c.View()
	if v.Summaries == nil {
		v.Summaries = []model.Summary{}
	}
	if v.PickerOptions == nil {
		v.PickerOptions = []model.PickerOption{}
	}
	writeJSON(w, http.StatusOK, viewResponse{
		View:        v,
		Changed:     changed,
		Metric:      snap.Metric,
		MetricLabel: snap.Metric.Label(),
		FetchedAt:   snap.FetchedAt,
	})
}
