// Package lyu provides a minimal fine-grained reactivity engine.
//
// Effects are functions that re-run automatically when reactive state they
// read changes. Dependencies are discovered at runtime: every read made while
// an effect is running subscribes that effect to the (target, property) pair
// that was read, and every write that changes a value re-runs the subscribers
// of that pair synchronously, before the write returns.
//
// # Core Types
//
// Object wraps a map[string]any:
//
//	product := lyu.Reactive(map[string]any{"quantity": 2, "price": 5})
//	product.Get("price")      // Read (subscribes the running effect)
//	product.Set("price", 4)   // Write (re-runs subscribers if changed)
//
// Ref[T] is a single reactive cell:
//
//	salePrice := lyu.NewRef(0.0)
//	salePrice.Set(4.5)
//	salePrice.Get()
//
// Computed returns a Ref kept in sync with a getter:
//
//	total := lyu.Computed(func() float64 {
//	    return salePrice.Get() * float64(product.Get("quantity").(int))
//	})
//
// CreateEffect installs a side effect and runs it once immediately:
//
//	lyu.CreateEffect(func() {
//	    fmt.Println("total:", total.Get())
//	})
//
// # Semantics
//
// There is no batching and no laziness: a write re-runs every subscriber of
// the written property right away, and computed values recompute eagerly.
// Writing the value that is already stored is a no-op. Each effect run drops
// the subscriptions of the previous run, so a branch that stops being read
// stops re-running the effect. Effects may be created inside other effects;
// the outer effect resumes tracking when the inner one returns, and owns the
// inner one: it is stopped when the outer effect re-runs or stops.
//
// Subscriptions belong to the wrapped map, not to the handle: calling
// Reactive again on the same map returns the same Object.
//
// A panic in an effect re-run by a write is recovered, logged and reported by
// re-panicking the write with a *TriggerError once the fan-out is over (or at
// the first failure under FailFast).
//
// # Thread Safety
//
// The Registry and all primitives are safe for concurrent use. The tracking
// context is per-goroutine: reads made on a goroutine spawned from an effect
// body are not tracked by that effect.
package lyu
