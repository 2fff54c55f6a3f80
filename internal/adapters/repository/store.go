// Package repository holds the last good normalized snapshot.
package repository

import (
	"context"
	"time"

	"github.com/okian/vaxtrack/internal/domain/model"
)

// SnapshotStore provides read/write access to the current snapshot.
type SnapshotStore interface {
	// Current returns a copy of the current snapshot. It reports false
	// until the first Replace.
	Current(ctx context.Context) (model.Snapshot, bool)

	// Replace swaps the current snapshot for snap.
	Replace(ctx context.Context, snap model.Snapshot)

	// Age returns the time since the current snapshot was fetched, zero
	// when there is none.
	Age(ctx context.Context) time.Duration
}
