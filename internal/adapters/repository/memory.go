package repository

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/okian/vaxtrack/internal/domain/model"
	"github.com/okian/vaxtrack/pkg/metrics"
)

// MemoryStore keeps the snapshot in memory. Safe for concurrent use; a
// single writer and any number of readers is the expected pattern.
type MemoryStore struct {
	mu      sync.RWMutex
	snap    model.Snapshot
	has     bool
	clock   clockwork.Clock
	publish bool
}

var _ SnapshotStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		clock:   clockwork.NewRealClock(),
		publish: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current implements SnapshotStore.
func (s *MemoryStore) Current(_ context.Context) (model.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.has {
		return model.Snapshot{}, false
	}
	return s.snap.Clone(), true
}

// Replace implements SnapshotStore. The store keeps its own copy of
// snap's summaries.
func (s *MemoryStore) Replace(_ context.Context, snap model.Snapshot) {
	snap = snap.Clone()

	s.mu.Lock()
	s.snap = snap
	s.has = true
	s.mu.Unlock()

	if s.publish {
		metrics.UpdateSnapshot(snap.Len(), snap.FetchedAt.Unix())
	}
}

// Age implements SnapshotStore.
func (s *MemoryStore) Age(_ context.Context) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.has {
		return 0
	}
	return s.clock.Since(s.snap.FetchedAt)
}
