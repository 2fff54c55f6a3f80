package selection

import "errors"

// Sentinel kinds for selection errors.
var (
	// ErrUnknownLocation is reported by Validate for locations that are
	// not in the summaries.
	ErrUnknownLocation = errors.New("unknown location")
)
