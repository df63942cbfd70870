package lyu

import "reflect"

// strictEqual reports whether a and b are the same value.
//
// Comparable values use ==. Maps, slices, channels and pointers compare by
// identity, so writing a freshly built slice with equal contents still counts
// as a change. Funcs are never equal. Anything else that is not comparable
// (e.g. structs holding slices) falls back to reflect.DeepEqual.
func strictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Func:
		return false
	case reflect.Slice:
		return va.Len() == vb.Len() && va.Pointer() == vb.Pointer()
	case reflect.Map, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	}

	if va.Comparable() && vb.Comparable() {
		return va.Equal(vb)
	}
	return reflect.DeepEqual(a, b)
}

// defaultEquals is the equality used by Ref[T] without WithEquals.
func defaultEquals[T any](a, b T) bool {
	return strictEqual(any(a), any(b))
}
