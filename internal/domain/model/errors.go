package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrUnknownMetric = errors.New("unknown metric")

	// ErrFeedUnavailable means the whole feed could not be retrieved or
	// parsed. It fails one normalization run; the next run may succeed.
	ErrFeedUnavailable = errors.New("vaccination feed unavailable")
)
