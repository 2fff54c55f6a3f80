package normalize

import (
	"github.com/jonboulle/clockwork"
	"golang.org/x/text/language"

	"github.com/okian/vaxtrack/internal/domain/model"
	"github.com/okian/vaxtrack/pkg/logger"
)

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithSource sets the feed the normalizer reads from.
func WithSource(src Source) Option {
	return func(n *Normalizer) {
		if src != nil {
			n.source = src
		}
	}
}

// WithMetric selects the feed column used as the metric.
func WithMetric(m model.Metric) Option {
	return func(n *Normalizer) {
		if m != "" {
			n.metric = m
		}
	}
}

// WithLocale sets the number formatting locale.
func WithLocale(tag language.Tag) Option {
	return func(n *Normalizer) {
		n.locale = tag
	}
}

// WithIDGenerator replaces the summary id generator.
func WithIDGenerator(fn func() string) Option {
	return func(n *Normalizer) {
		if fn != nil {
			n.newID = fn
		}
	}
}

// WithClock sets the clock used to stamp snapshots.
func WithClock(c clockwork.Clock) Option {
	return func(n *Normalizer) {
		if c != nil {
			n.clock = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(n *Normalizer) {
		if l != nil {
			n.logger = l
		}
	}
}

// WithStatsHook is called with the row counts of every successful Run.
func WithStatsHook(fn func(Stats)) Option {
	return func(n *Normalizer) {
		n.onStats = fn
	}
}
