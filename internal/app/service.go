// Package service keeps the normalized vaccination snapshot fresh and
// serves it to the HTTP adapters.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/okian/vaxtrack/internal/adapters/repository"
	"github.com/okian/vaxtrack/internal/domain/model"
	"github.com/okian/vaxtrack/pkg/logger"
	"github.com/okian/vaxtrack/pkg/metrics"
)

// DefaultRevalidateInterval is how long a snapshot is served before the
// feed is read again.
const DefaultRevalidateInterval = 5 * time.Minute

// Runner produces a fresh snapshot. *normalize.Normalizer satisfies it.
type Runner interface {
	Run(ctx context.Context) (model.Snapshot, error)
}

// Service runs the normalizer once at start and then on every
// revalidation tick. A failed run keeps the previous snapshot.
type Service struct {
	mu sync.RWMutex

	runner   Runner
	store    repository.SnapshotStore
	interval time.Duration
	clock    clockwork.Clock

	// refreshMu serializes runs.
	refreshMu sync.Mutex

	// State
	started     bool
	stopCh      chan struct{}
	done        chan struct{}
	runs        int
	failures    int
	lastRefresh time.Time
	lastErr     error

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		interval: DefaultRevalidateInterval,
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore(repository.WithClock(s.clock))
	}
	return s
}

// Start performs the initial refresh and starts the revalidation loop.
// A failed initial refresh is logged, not returned: the service keeps
// running and reports not ready until a later run succeeds.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.runner == nil {
		s.mu.Unlock()
		return ErrNoNormalizer
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.started = true
	s.stopCh = make(chan struct{})
	s.done = make(chan struct{})
	stopCh, done := s.stopCh, s.done
	s.mu.Unlock()

	s.logger.Info(ctx, "starting vaccination service...",
		logger.Duration("revalidate_interval", s.interval),
	)

	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn(ctx, "initial refresh failed, serving without data", logger.Error(err))
	}

	ticker := s.clock.NewTicker(s.interval)
	go s.loop(ctx, ticker, stopCh, done)

	s.logger.Info(ctx, "vaccination service started")
	return nil
}

func (s *Service) loop(ctx context.Context, ticker clockwork.Ticker, stopCh, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.Chan():
			// Errors are logged and recorded by Refresh.
			_ = s.Refresh(ctx)
		}
	}
}

// Stop ends the revalidation loop and waits for an in-flight run.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	close(s.stopCh)
	done := s.done
	s.mu.Unlock()

	<-done
	s.logger.Info(context.Background(), "vaccination service stopped")
}

// Refresh runs the normalizer once. On success the snapshot is replaced;
// on failure the previous snapshot stays and the error, wrapping
// model.ErrFeedUnavailable, is returned.
func (s *Service) Refresh(ctx context.Context) error {
	if s.runner == nil {
		return ErrNoNormalizer
	}
	log := s.log()

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	start := s.clock.Now()
	snap, err := s.runner.Run(ctx)
	elapsed := s.clock.Since(start)
	metrics.RecordRefresh(err == nil, elapsed.Seconds())

	s.mu.Lock()
	s.runs++
	s.lastRefresh = s.clock.Now()
	s.lastErr = err
	if err != nil {
		s.failures++
	}
	s.mu.Unlock()

	if err != nil {
		log.Warn(ctx, "refresh failed, keeping previous snapshot",
			logger.Error(err),
			logger.Duration("elapsed", elapsed),
		)
		return err
	}

	s.store.Replace(ctx, snap)
	log.Info(ctx, "snapshot refreshed",
		logger.Int("locations", snap.Len()),
		logger.String("metric", string(snap.Metric)),
		logger.Duration("elapsed", elapsed),
	)
	return nil
}

// Snapshot returns the current snapshot, false before the first
// successful run.
func (s *Service) Snapshot(ctx context.Context) (model.Snapshot, bool) {
	return s.store.Current(ctx)
}

// RevalidateInterval returns the time between refreshes.
func (s *Service) RevalidateInterval() time.Duration { return s.interval }

// CheckReadiness reports ErrNotReady until a snapshot exists.
func (s *Service) CheckReadiness(ctx context.Context) error {
	if _, ok := s.store.Current(ctx); !ok {
		s.mu.RLock()
		lastErr := s.lastErr
		s.mu.RUnlock()
		if lastErr != nil {
			return fmt.Errorf("%w: %w", ErrNotReady, lastErr)
		}
		return ErrNotReady
	}
	return nil
}

// Stats describes the revalidation loop and the snapshot it serves.
type Stats struct {
	Started            bool         `json:"started"`
	RevalidateInterval string       `json:"revalidate_interval"`
	RefreshRuns        int          `json:"refresh_runs"`
	RefreshFailures    int          `json:"refresh_failures"`
	LastRefresh        *time.Time   `json:"last_refresh,omitempty"`
	LastError          string       `json:"last_error,omitempty"`
	Locations          int          `json:"locations"`
	Metric             model.Metric `json:"metric,omitempty"`
	FetchedAt          *time.Time   `json:"fetched_at,omitempty"`
	SnapshotAgeSeconds int64        `json:"snapshot_age_seconds"`
	// Stale is set once the served snapshot is older than the
	// revalidation interval, i.e. at least one tick failed to replace it.
	Stale bool `json:"stale"`
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() Stats {
	ctx := context.Background()

	s.mu.RLock()
	stats := Stats{
		Started:            s.started,
		RevalidateInterval: s.interval.String(),
		RefreshRuns:        s.runs,
		RefreshFailures:    s.failures,
	}
	if !s.lastRefresh.IsZero() {
		t := s.lastRefresh.UTC()
		stats.LastRefresh = &t
	}
	if s.lastErr != nil {
		stats.LastError = s.lastErr.Error()
	}
	s.mu.RUnlock()

	if snap, ok := s.store.Current(ctx); ok {
		age := s.store.Age(ctx)
		fetched := snap.FetchedAt.UTC()
		stats.Locations = snap.Len()
		stats.Metric = snap.Metric
		stats.FetchedAt = &fetched
		stats.SnapshotAgeSeconds = int64(age.Seconds())
		stats.Stale = age > s.interval
	}
	return stats
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.logger == nil {
		return logger.Nop()
	}
	return s.logger
}
