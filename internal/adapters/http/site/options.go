package site

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/okian/vaxtrack/internal/domain/selection"
	"github.com/okian/vaxtrack/pkg/logger"
)

// Option applies a configuration option to the Handler.
type Option func(*Handler)

// WithValidation sets the unknown-location policy.
func WithValidation(v selection.Validation) Option {
	return func(h *Handler) {
		h.validation = v
	}
}

// WithDefaultLocation sets the location shown when the URL names none.
func WithDefaultLocation(location string) Option {
	return func(h *Handler) {
		if location != "" {
			h.defaultLocation = location
		}
	}
}

// WithRevalidateInterval sets the max-age advertised to caches.
func WithRevalidateInterval(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.revalidate = d
		}
	}
}

// WithClock sets the clock used for the page date line.
func WithClock(c clockwork.Clock) Option {
	return func(h *Handler) {
		if c != nil {
			h.clock = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}
