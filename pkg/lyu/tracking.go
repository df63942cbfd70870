package lyu

import "runtime"

// trackingContext holds the reactive state for one goroutine.
type trackingContext struct {
	// active is the effect currently running on this goroutine.
	// nil means reads do not create subscriptions.
	active *Effect
}

// getGoroutineID returns an identifier for the current goroutine, parsed from
// the "goroutine <id> " header of the runtime stack.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// activeEffect returns the effect running on the calling goroutine, or nil.
func (r *Runtime) activeEffect() *Effect {
	if ctx, ok := r.contexts.Load(getGoroutineID()); ok {
		return ctx.(*trackingContext).active
	}
	return nil
}

// setActiveEffect installs e as the running effect for the calling goroutine
// and returns the previous one so it can be restored.
// Restoring nil drops the goroutine's context entirely, since goroutine IDs
// are not reused while the goroutine is alive and the entry would only leak.
func (r *Runtime) setActiveEffect(e *Effect) *Effect {
	gid := getGoroutineID()

	var old *Effect
	if ctx, ok := r.contexts.Load(gid); ok {
		old = ctx.(*trackingContext).active
	}

	if e == nil {
		r.contexts.Delete(gid)
	} else {
		r.contexts.Store(gid, &trackingContext{active: e})
	}
	return old
}

// Untracked runs fn with dependency tracking disabled on the calling
// goroutine. Reads inside fn do not subscribe the surrounding effect.
func (r *Runtime) Untracked(fn func()) {
	old := r.setActiveEffect(nil)
	defer r.setActiveEffect(old)
	fn()
}

// Untracked runs fn on the default runtime without tracking reads.
//
// Example:
//
//	lyu.CreateEffect(func() {
//	    fmt.Println(a.Get())            // tracked
//	    lyu.Untracked(func() {
//	        fmt.Println(b.Get())        // not tracked
//	    })
//	})
func Untracked(fn func()) {
	Default().Untracked(fn)
}
