package feed

import (
	"errors"

	"github.com/okian/vaxtrack/internal/domain/model"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrFeedUnavailable is model.ErrFeedUnavailable, re-exported so
	// callers of this package can match it without importing model.
	ErrFeedUnavailable = model.ErrFeedUnavailable
	ErrMissingColumn   = errors.New("required column missing")
)
