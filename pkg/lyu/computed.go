package lyu

// ComputedIn returns a Ref kept equal to getter() by an effect bound to rt.
//
// getter runs once immediately, which sets the initial value and the initial
// dependencies, and then eagerly every time something it read changes. The
// result is itself a Ref, so computed values can be chained: a change at the
// bottom of a chain propagates to the top before the write returns.
//
// The returned Ref is writable, but a manual write is overwritten by the next
// recomputation.
func ComputedIn[T any](rt *Runtime, getter func() T) *Ref[T] {
	var zero T
	result := RefIn(rt, zero)
	rt.Effect(func() {
		result.Set(getter())
	})
	return result
}

// Computed returns a derived Ref on the default runtime.
//
//	salePrice := lyu.Computed(func() float64 {
//	    return price.Get() * 0.9
//	})
func Computed[T any](getter func() T) *Ref[T] {
	return ComputedIn(Default(), getter)
}
