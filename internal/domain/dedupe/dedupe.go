// Package dedupe tracks which keys have already been emitted so that a
// stream keeps only the first occurrence of each key.
package dedupe

// Deduper records seen keys. Keys are compared exactly. A Deduper
// belongs to one pass over a stream and is not safe for concurrent use.
type Deduper struct {
	seen map[string]struct{}
}

// New creates an empty Deduper.
func New(opts ...Option) *Deduper {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Deduper{seen: make(map[string]struct{}, o.capacity)}
}

// SeenAndRecord reports whether key was already recorded and records it
// if not.
func (d *Deduper) SeenAndRecord(key string) bool {
	if _, ok := d.seen[key]; ok {
		return true
	}
	d.seen[key] = struct{}{}
	return false
}
