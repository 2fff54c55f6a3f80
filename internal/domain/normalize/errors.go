package normalize

import "github.com/okian/vaxtrack/internal/domain/model"

// ErrFeedUnavailable is returned by Run when the feed cannot be used as a
// whole. It is the same value as model.ErrFeedUnavailable.
var ErrFeedUnavailable = model.ErrFeedUnavailable
