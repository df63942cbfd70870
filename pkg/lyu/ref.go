package lyu

import "sync"

// valueKey is the single property a Ref exposes to the Registry.
const valueKey = "value"

// Ref is a single reactive cell.
//
// Get subscribes the running effect and Set re-runs subscribers when the
// value changes. Writing back the value that is already held does nothing,
// which keeps an effect that writes what it just read from looping.
type Ref[T any] struct {
	id uint64
	rt *Runtime

	mu    sync.RWMutex
	value T

	// equal decides whether a write is a change. nil means defaultEquals.
	equal func(T, T) bool
}

// RefIn creates a Ref bound to rt.
func RefIn[T any](rt *Runtime, initial T) *Ref[T] {
	return &Ref[T]{
		id:    nextID(),
		rt:    rt,
		value: initial,
	}
}

// NewRef creates a Ref on the default runtime.
//
//	count := lyu.NewRef(0)
//	count.Set(count.Peek() + 1)
func NewRef[T any](initial T) *Ref[T] {
	return RefIn(Default(), initial)
}

// TargetID implements Target.
func (r *Ref[T]) TargetID() uint64 {
	return r.id
}

// Get returns the value and subscribes the running effect.
func (r *Ref[T]) Get() T {
	r.mu.RLock()
	value := r.value
	r.mu.RUnlock()

	r.rt.track(r, valueKey)
	return value
}

// Peek returns the value without subscribing.
func (r *Ref[T]) Peek() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// Set stores value and triggers subscribers if it differs from the current
// value.
func (r *Ref[T]) Set(value T) {
	r.mu.Lock()
	changed := !r.equals(r.value, value)
	if changed {
		r.value = value
	}
	r.mu.Unlock()

	if changed {
		r.rt.trigger(r, valueKey)
	}
}

// Update replaces the value with fn(current). fn runs under the Ref's lock
// and must not touch this Ref.
func (r *Ref[T]) Update(fn func(T) T) {
	r.mu.Lock()
	newValue := fn(r.value)
	changed := !r.equals(r.value, newValue)
	if changed {
		r.value = newValue
	}
	r.mu.Unlock()

	if changed {
		r.rt.trigger(r, valueKey)
	}
}

// WithEquals sets the function used to decide whether a write is a change.
func (r *Ref[T]) WithEquals(fn func(T, T) bool) *Ref[T] {
	r.equal = fn
	return r
}

func (r *Ref[T]) equals(a, b T) bool {
	if r.equal != nil {
		return r.equal(a, b)
	}
	return defaultEquals(a, b)
}
