package lyu

import (
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// Effect is a function that re-runs whenever reactive state it read during
// its previous run changes.
//
// Each run starts by dropping the subscriptions of the previous run, so the
// dependency set always matches what the last run actually read.
//
// An effect created while another effect is running is owned by it: the
// child is stopped when the parent re-runs or stops, so re-creating children
// on every run does not accumulate them.
type Effect struct {
	id uint64
	rt *Runtime
	fn func()

	// sources are the (target, key) pairs read during the last run.
	// children are the effects created during the last run.
	sources   []source
	children  []*Effect
	sourcesMu sync.Mutex

	runs    atomic.Uint64
	stopped atomic.Bool
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Runs returns how many times the effect body has started.
func (e *Effect) Runs() uint64 {
	return e.runs.Load()
}

// Stopped reports whether Stop has been called.
func (e *Effect) Stopped() bool {
	return e.stopped.Load()
}

// Stop unsubscribes the effect from everything it read. It never runs again.
func (e *Effect) Stop() {
	if e.stopped.Swap(true) {
		return
	}
	e.disposeChildren()
	e.clearSources()
	e.rt.logger.Debug("lyu: effect stopped", "effect", e.id, "runs", e.runs.Load())
}

// run executes the effect body with e as the active effect.
// The previous active effect is restored on every exit path, so nested
// effects and panicking bodies leave the caller's tracking intact.
func (e *Effect) run() {
	if e.stopped.Load() {
		return
	}

	e.disposeChildren()
	e.clearSources()
	e.runs.Add(1)
	e.rt.metrics.effectRan()

	old := e.rt.setActiveEffect(e)
	defer e.rt.setActiveEffect(old)

	e.fn()
}

// addSource records a subscription made during the current run.
func (e *Effect) addSource(src source) {
	e.sourcesMu.Lock()
	e.sources = append(e.sources, src)
	e.sourcesMu.Unlock()
}

// addChild records an effect created during the current run.
func (e *Effect) addChild(child *Effect) {
	e.sourcesMu.Lock()
	e.children = append(e.children, child)
	e.sourcesMu.Unlock()
}

// disposeChildren stops every effect created during the last run.
func (e *Effect) disposeChildren() {
	e.sourcesMu.Lock()
	children := e.children
	e.children = nil
	e.sourcesMu.Unlock()

	for _, child := range children {
		child.Stop()
	}
}

// clearSources unsubscribes from every source of the last run.
func (e *Effect) clearSources() {
	e.sourcesMu.Lock()
	sources := e.sources
	e.sources = nil
	e.sourcesMu.Unlock()

	for _, src := range sources {
		if e.rt.registry.unsubscribe(src.target, src.key, e) {
			e.rt.metrics.subscriptionRemoved()
		}
	}
}

// Effect runs fn now and again whenever reactive state it read changes.
// A panic in fn propagates to the caller; tracking is restored first.
// When called from inside a running effect, the new effect is owned by it
// and is stopped when that effect re-runs or stops.
//
// Example:
//
//	product := rt.Reactive(map[string]any{"quantity": 2, "price": 5})
//	var total int
//	rt.Effect(func() {
//	    total = product.Get("quantity").(int) * product.Get("price").(int)
//	})
func (r *Runtime) Effect(fn func()) *Effect {
	e := &Effect{
		id: nextID(),
		rt: r,
		fn: fn,
	}
	if parent := r.activeEffect(); parent != nil {
		parent.addChild(e)
	}
	r.metrics.effectCreated()
	e.run()
	return e
}

// CreateEffect runs fn on the default runtime. See Runtime.Effect.
func CreateEffect(fn func()) *Effect {
	return Default().Effect(fn)
}

// track subscribes the active effect, if any, to (t, key).
func (r *Runtime) track(t Target, key string) {
	e := r.activeEffect()
	if e == nil || e.stopped.Load() {
		return
	}
	id := t.TargetID()
	if r.registry.subscribe(id, key, e) {
		e.addSource(source{target: id, key: key})
		r.metrics.subscriptionAdded()
	}
}

// trigger re-runs every effect subscribed to (t, key), synchronously and in
// subscription order. Panics are collected according to the failure policy
// and re-raised as a *TriggerError once the fan-out is done.
func (r *Runtime) trigger(t Target, key string) {
	id := t.TargetID()
	subs := r.registry.subscribers(id, key)
	if len(subs) == 0 {
		return
	}

	r.metrics.triggered(len(subs))
	span := r.startTriggerSpan(id, key, len(subs))
	defer span.End()

	r.logger.Debug("lyu: trigger", "target", id, "key", key, "subscribers", len(subs))

	var failures []*EffectPanic
	for _, e := range subs {
		p := r.runTriggered(e)
		if p == nil {
			continue
		}
		r.metrics.effectFailed()
		r.logger.Error("lyu: effect panicked during trigger",
			"effect", p.EffectID, "target", id, "key", key, "panic", p.Value)
		failures = append(failures, p)
		if r.policy == FailFast {
			break
		}
	}

	if len(failures) == 0 {
		return
	}
	err := &TriggerError{TargetID: id, Key: key, Failures: failures}
	recordTriggerError(span, err)
	panic(err)
}

// runTriggered runs e and converts a panic into an *EffectPanic.
func (r *Runtime) runTriggered(e *Effect) (failure *EffectPanic) {
	defer func() {
		if v := recover(); v != nil {
			failure = &EffectPanic{EffectID: e.id, Value: v, Stack: debug.Stack()}
		}
	}()
	e.run()
	return nil
}
