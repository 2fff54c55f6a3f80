package selection

// Validation decides whether a location absent from the summaries may be
// adopted as the selection.
type Validation int

const (
	// Strict adopts only locations present in the summaries.
	Strict Validation = iota
	// Loose adopts any non-empty location.
	Loose
)

// ParseValidation maps a config value to a Validation. Unknown values
// fall back to Strict.
func ParseValidation(s string) Validation {
	if s == "loose" {
		return Loose
	}
	return Strict
}

// Option applies a configuration option to the Controller.
type Option func(*Controller)

// WithValidation sets the unknown-location policy.
func WithValidation(v Validation) Option {
	return func(c *Controller) {
		c.validation = v
	}
}

// WithDefaultLocation sets the initial selection.
func WithDefaultLocation(location string) Option {
	return func(c *Controller) {
		if location != "" {
			c.selected = location
		}
	}
}

// WithURLSync attaches the effect that mirrors selections into the URL.
func WithURLSync(s URLSync) Option {
	return func(c *Controller) {
		c.sync = s
	}
}

// WithUnknownLocationHook is called whenever a selection is ignored.
// origin is OriginPicker or OriginURL.
func WithUnknownLocationHook(fn func(origin, location string)) Option {
	return func(c *Controller) {
		c.onUnknown = fn
	}
}
