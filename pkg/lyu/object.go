package lyu

import (
	"reflect"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"weak"
)

// Accessor is a computed property stored in an Object. Reading the property
// calls Get with the wrapping Object as receiver, so reactive reads inside
// Get are tracked like any other read. Writing calls Set; an Accessor without
// Set is read-only.
type Accessor struct {
	Get func(o *Object) any
	Set func(o *Object, value any) error
}

// Object is a reactive wrapper around a map[string]any.
//
// Reads through Get subscribe the running effect to that property and writes
// through Set re-run the effects subscribed to it when the value changed.
// Reactivity belongs to the wrapper rather than to individual properties, so
// keys added after Reactive was called are just as reactive as the initial
// ones.
type Object struct {
	id uint64
	rt *Runtime

	mu     sync.RWMutex
	target map[string]any
	proto  map[string]any

	frozen atomic.Bool
}

// ObjectOption configures an Object.
type ObjectOption func(*Object)

// WithPrototype adds an inherited property layer. Keys missing from the
// target are looked up in proto; writes always land on the target.
func WithPrototype(proto map[string]any) ObjectOption {
	return func(o *Object) {
		o.proto = proto
	}
}

// Reactive wraps target. The map is used in place, not copied; writes made to
// it directly bypass tracking. A nil target starts an empty object.
//
// Reactivity is keyed by the map's identity: wrapping a map that already has
// a live wrapper in this runtime returns that wrapper, with opts applied to
// it, so every handle on one map shares the same subscriptions.
func (r *Runtime) Reactive(target map[string]any, opts ...ObjectOption) *Object {
	if target == nil {
		target = make(map[string]any)
	}
	addr := uintptr(reflect.ValueOf(target).UnsafePointer())

	r.objectsMu.Lock()
	defer r.objectsMu.Unlock()

	if o := r.objects[addr].Value(); o != nil {
		o.mu.Lock()
		for _, opt := range opts {
			opt(o)
		}
		o.mu.Unlock()
		return o
	}

	o := &Object{
		id:     nextID(),
		rt:     r,
		target: target,
	}
	for _, opt := range opts {
		opt(o)
	}

	wp := weak.Make(o)
	r.objects[addr] = wp
	runtime.AddCleanup(o, r.forgetObject, objectRef{addr: addr, ptr: wp})
	return o
}

// objectRef identifies one entry of the runtime's object table.
type objectRef struct {
	addr uintptr
	ptr  weak.Pointer[Object]
}

// forgetObject drops the table entry of a collected wrapper, unless the map
// has been wrapped again since.
func (r *Runtime) forgetObject(ref objectRef) {
	r.objectsMu.Lock()
	defer r.objectsMu.Unlock()
	if r.objects[ref.addr] == ref.ptr {
		delete(r.objects, ref.addr)
	}
}

// Reactive wraps target on the default runtime.
func Reactive(target map[string]any, opts ...ObjectOption) *Object {
	return Default().Reactive(target, opts...)
}

// TargetID implements Target.
func (o *Object) TargetID() uint64 {
	return o.id
}

// lookup finds key in the target, then in the prototype.
func (o *Object) lookup(key string) (any, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if v, ok := o.target[key]; ok {
		return v, true
	}
	if o.proto != nil {
		if v, ok := o.proto[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// read resolves key to its value, evaluating accessors.
func (o *Object) read(key string) any {
	v, _ := o.lookup(key)
	if acc, ok := v.(*Accessor); ok {
		if acc.Get == nil {
			return nil
		}
		return acc.Get(o)
	}
	return v
}

// Get returns the value of key (nil if absent) and subscribes the running
// effect to it.
func (o *Object) Get(key string) any {
	v := o.read(key)
	o.rt.track(o, key)
	return v
}

// Set writes key. Effects subscribed to key re-run when the write succeeded
// and the new value differs from the old one.
//
// Set fails with ErrFrozen on a frozen object and with ErrReadOnly on an
// Accessor without a setter. A failed write triggers nothing.
func (o *Object) Set(key string, value any) error {
	old := o.read(key)

	raw, _ := o.lookup(key)
	if acc, ok := raw.(*Accessor); ok {
		if acc.Set == nil {
			return ErrReadOnly
		}
		if err := acc.Set(o, value); err != nil {
			return err
		}
	} else {
		if o.frozen.Load() {
			return ErrFrozen
		}
		o.mu.Lock()
		o.target[key] = value
		o.mu.Unlock()
	}

	if !strictEqual(old, value) {
		o.rt.trigger(o, key)
	}
	return nil
}

// Has reports whether key is an own or inherited property. Not tracked.
func (o *Object) Has(key string) bool {
	_, ok := o.lookup(key)
	return ok
}

// Keys returns the sorted own and inherited property names. Not tracked.
func (o *Object) Keys() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()

	seen := make(map[string]struct{}, len(o.target)+len(o.proto))
	keys := make([]string, 0, len(o.target)+len(o.proto))
	for _, m := range []map[string]any{o.target, o.proto} {
		for k := range m {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of own and inherited properties.
func (o *Object) Len() int {
	return len(o.Keys())
}

// Delete removes an own property. Subscribers are not notified.
func (o *Object) Delete(key string) error {
	if o.frozen.Load() {
		return ErrFrozen
	}
	o.mu.Lock()
	delete(o.target, key)
	o.mu.Unlock()
	return nil
}

// Freeze makes every data property read-only. Accessor setters still run.
func (o *Object) Freeze() {
	o.frozen.Store(true)
}

// Frozen reports whether Freeze has been called.
func (o *Object) Frozen() bool {
	return o.frozen.Load()
}

// Raw returns the wrapped map.
func (o *Object) Raw() map[string]any {
	return o.target
}

// GetAs reads key through o.Get and asserts it to T.
// ok is false when the key is absent or holds another type.
func GetAs[T any](o *Object, key string) (T, bool) {
	v, ok := o.Get(key).(T)
	return v, ok
}
