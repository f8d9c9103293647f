// Package observed tracks whether a polled value changed between two reads.
package observed

// Observed holds the last two values assigned to it. The zero value is ready
// to use and reports no update until a value different from T's zero value is set.
type Observed[T comparable] struct {
	previous T
	current  T
	forced   bool
	stale    bool
}

// New returns an Observed seeded with initial as both previous and current value.
func New[T comparable](initial T) Observed[T] {
	return Observed[T]{previous: initial, current: initial}
}

// Set records v as the current value
func (o *Observed[T]) Set(v T) {
	o.previous = o.current
	o.current = v
	o.forced = o.stale
	o.stale = false
}

// IsUpdated reports whether the most recent Set changed the value.
func (o *Observed[T]) IsUpdated() bool {
	return o.forced || o.current != o.previous
}

// Get returns the current value without touching the update flag.
func (o *Observed[T]) Get() T {
	return o.current
}

// Invalidate makes the next Set report an update even if the value is unchanged.
func (o *Observed[T]) Invalidate() {
	o.stale = true
}
