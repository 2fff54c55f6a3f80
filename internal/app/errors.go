package service

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrNoNormalizer = errors.New("no normalizer configured")
	ErrNotReady     = errors.New("no snapshot available yet")
)
