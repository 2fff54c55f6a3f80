// Package normalize turns the raw vaccination feed into the ordered,
// per-location summary list served by the page.
//
// A run fetches every row, keeps rows whose metric is strictly positive,
// sorts them by metric descending (stable), keeps the first row per
// location, formats the metric for the configured locale and assigns a
// fresh id to every entry.
package normalize

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/okian/vaxtrack/internal/domain/dedupe"
	"github.com/okian/vaxtrack/internal/domain/model"
	"github.com/okian/vaxtrack/pkg/logger"
)

// Source retrieves the raw feed rows.
type Source interface {
	Fetch(ctx context.Context) ([]model.RawRecord, error)
}

// sourceURL is implemented by sources that know where they read from.
type sourceURL interface {
	URL() string
}

// Stats describes what a Normalize call did with its input.
type Stats struct {
	Read      int
	Skipped   int
	Locations int
}

// Normalizer runs the feed normalization pipeline.
type Normalizer struct {
	source Source
	metric model.Metric
	locale language.Tag
	newID  func() string
	clock  clockwork.Clock
	logger logger.Logger

	onStats func(Stats)
}

// New creates a Normalizer. Without WithSource, Run fails with
// ErrFeedUnavailable; Normalize works on any input.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		metric: model.MetricTotalVaccinations,
		locale: language.English,
		newID:  func() string { return uuid.NewString() },
		clock:  clockwork.NewRealClock(),
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Metric returns the configured metric.
func (n *Normalizer) Metric() model.Metric { return n.metric }

// Run fetches the feed and normalizes it into a snapshot. Any failure to
// retrieve or parse the feed as a whole yields an error wrapping
// model.ErrFeedUnavailable and an empty snapshot.
func (n *Normalizer) Run(ctx context.Context) (model.Snapshot, error) {
	if n.source == nil {
		return model.Snapshot{}, fmt.Errorf("%w: no source configured", model.ErrFeedUnavailable)
	}

	records, err := n.source.Fetch(ctx)
	if err != nil {
		if !errors.Is(err, model.ErrFeedUnavailable) {
			err = fmt.Errorf("%w: %w", model.ErrFeedUnavailable, err)
		}
		return model.Snapshot{}, err
	}

	summaries, stats := n.Normalize(ctx, records)

	snap := model.Snapshot{
		Summaries: summaries,
		Metric:    n.metric,
		FetchedAt: n.clock.Now().UTC(),
	}
	if s, ok := n.source.(sourceURL); ok {
		snap.SourceURL = s.URL()
	}
	if n.onStats != nil {
		n.onStats(stats)
	}

	n.logger.Info(ctx, "feed normalized",
		logger.String("metric", string(n.metric)),
		logger.Int("rows", stats.Read),
		logger.Int("skipped", stats.Skipped),
		logger.Int("locations", stats.Locations),
	)
	return snap, nil
}

type candidate struct {
	location string
	value    float64
}

// Normalize applies filter, sort, dedupe, format and id assignment to
// records. Unusable rows are dropped silently and only counted.
func (n *Normalizer) Normalize(ctx context.Context, records []model.RawRecord) ([]model.Summary, Stats) {
	stats := Stats{Read: len(records)}
	column := n.metric.Column()

	candidates := make([]candidate, 0, len(records))
	for _, r := range records {
		loc := r.Location()
		v, ok := ParseValue(r.Value(column))
		if loc == "" || !ok {
			stats.Skipped++
			continue
		}
		candidates = append(candidates, candidate{location: loc, value: v})
	}

	// Ordered on the parsed value, not the rounded one. Stable so equal
	// values keep feed order; dedupe then keeps the first, i.e. the
	// maximum, row per location.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].value > candidates[j].value
	})

	seen := dedupe.New(dedupe.WithCapacity(len(candidates)))

	out := make([]model.Summary, 0, len(candidates))
	for _, c := range candidates {
		if seen.SeenAndRecord(c.location) {
			continue
		}
		v := int64(math.Round(c.value))
		out = append(out, model.Summary{
			ID:            n.newID(),
			Location:      c.location,
			Value:         v,
			MetricDisplay: FormatValue(v, n.locale),
		})
	}
	stats.Locations = len(out)

	if stats.Skipped > 0 {
		n.logger.Debug(ctx, "rows without a usable metric excluded",
			logger.String("metric", column),
			logger.Int("skipped", stats.Skipped),
		)
	}
	return out, stats
}

// ParseValue parses a feed metric in integer or decimal notation. It
// reports false for empty, non-numeric, non-finite or out of range input
// and for values that do not round to at least 1, so every accepted
// value displays as a positive count.
func ParseValue(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if math.Round(f) < 1 || f >= math.MaxInt64 {
		return 0, false
	}
	return f, true
}

// FormatValue renders v as a grouped integer for tag, e.g. 1234567 ->
// "1,234,567" in English.
func FormatValue(v int64, tag language.Tag) string {
	return message.NewPrinter(tag).Sprintf("%d", v)
}
