package repository

import "github.com/jonboulle/clockwork"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithClock sets the clock used by Age.
func WithClock(c clockwork.Clock) Option {
	return func(s *MemoryStore) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithPublishMetrics toggles reporting snapshot size and timestamp to the
// metrics registry on Replace. Enabled by default.
func WithPublishMetrics(enabled bool) Option {
	return func(s *MemoryStore) {
		s.publish = enabled
	}
}
