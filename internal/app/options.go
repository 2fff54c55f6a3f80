package service

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/okian/vaxtrack/internal/adapters/repository"
	"github.com/okian/vaxtrack/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithNormalizer sets the pipeline run on every revalidation.
func WithNormalizer(r Runner) Option {
	return func(s *Service) {
		if r != nil {
			s.runner = r
		}
	}
}

// WithStore sets where the last good snapshot is kept.
func WithStore(st repository.SnapshotStore) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithRevalidateInterval sets the time between refreshes.
func WithRevalidateInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithClock sets the clock driving the revalidation ticker.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}
