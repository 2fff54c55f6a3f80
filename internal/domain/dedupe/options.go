package dedupe

type options struct {
	capacity int
}

// Option applies a configuration option to the Deduper.
type Option func(*options)

// WithCapacity pre-sizes the key set. Values <= 0 are ignored.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}
