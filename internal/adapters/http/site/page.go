// Package site renders the vaccination page and serves its assets.
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jonboulle/clockwork"

	"github.com/okian/vaxtrack/internal/adapters/http/api"
	"github.com/okian/vaxtrack/internal/domain/model"
	"github.com/okian/vaxtrack/internal/domain/selection"
	"github.com/okian/vaxtrack/pkg/logger"
	"github.com/okian/vaxtrack/pkg/metrics"
)

// Error constants
var (
	ErrRender = errors.New("page render failed")
)

// SnapshotProvider exposes the current normalized snapshot.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (model.Snapshot, bool)
}

// Handler renders GET / for the location named by the query string.
type Handler struct {
	deps            SnapshotProvider
	validation      selection.Validation
	defaultLocation string
	revalidate      time.Duration
	clock           clockwork.Clock
	logger          logger.Logger
	tmpl            *template.Template
}

// NewHandler creates a page handler. It panics if the embedded template
// does not parse.
func NewHandler(deps SnapshotProvider, opts ...Option) *Handler {
	h := &Handler{
		deps:            deps,
		validation:      selection.Strict,
		defaultLocation: model.WorldLocation,
		revalidate:      5 * time.Minute,
		clock:           clockwork.NewRealClock(),
		logger:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	tmpl, err := parseTemplates(template.FuncMap{
		"locationURL": func(location string) string { return selection.LocationURL("/", location) },
	})
	if err != nil {
		panic(fmt.Errorf("%w: %w", ErrRender, err))
	}
	h.tmpl = tmpl
	return h
}

// Register attaches the page and its assets to mux.
func (h *Handler) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	static := http.StripPrefix("/static/", http.FileServer(FS()))
	mux.HandleFunc("/static/", api.MetricsMiddleware(static.ServeHTTP, "static"))
	mux.HandleFunc("/", api.MetricsMiddleware(h.HandleRoot, "page"))
}

type pageData struct {
	selection.View
	Ready       bool
	MetricLabel string
	Weekday     string
	Date        string
	LastUpdate  string
	UpdatedAgo  string
	SourceURL   string
}

// HandleRoot handles GET /?location=X. A picker submission
// (/?location=X&pick=Y) is answered with a redirect to the URL the
// selection was pushed to.
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}

	ctx := r.Context()
	now := h.clock.Now()
	data := pageData{
		Weekday:     now.Format("Monday"),
		Date:        now.Format("January 2, 2006"),
		MetricLabel: model.MetricTotalVaccinations.Label(),
	}

	status := http.StatusOK
	snap, ok := h.deps.Snapshot(ctx)
	if ok {
		q := r.URL.Query()
		sync := selection.NewQuerySync(&url.URL{Path: "/", RawQuery: r.URL.RawQuery})
		c := selection.NewController(snap.Summaries,
			selection.WithValidation(h.validation),
			selection.WithDefaultLocation(h.defaultLocation),
			selection.WithURLSync(sync),
			selection.WithUnknownLocationHook(func(origin, location string) {
				metrics.RecordUnknownLocation(origin)
				h.logger.Debug(ctx, "unknown location ignored",
					logger.String("origin", origin),
					logger.String("location", location),
				)
			}),
		)
		selection.Apply(c, q)
		if selection.PickFromQuery(q) != "" {
			http.Redirect(w, r, c.View().ShareURL, http.StatusSeeOther)
			return
		}

		data.View = c.View()
		data.Ready = true
		data.MetricLabel = snap.Metric.Label()
		data.LastUpdate = snap.FetchedAt.UTC().Format("15:04 MST")
		data.UpdatedAgo = humanize.RelTime(snap.FetchedAt, now, "ago", "from now")
		data.SourceURL = snap.SourceURL
	} else {
		data.View = selection.NewController(nil, selection.WithDefaultLocation(h.defaultLocation)).View()
		status = http.StatusServiceUnavailable
	}

	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, data); err != nil {
		h.logger.Error(ctx, "page render failed", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status == http.StatusOK {
		w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(int(h.revalidate.Seconds())))
	} else {
		w.Header().Set("Cache-Control", "no-store")
	}
	w.WriteHeader(status)
	if r.Method == http.MethodGet {
		_, _ = w.Write(buf.Bytes())
	}
}
