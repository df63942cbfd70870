package lyu

import (
	"sort"
	"sync"
)

// Target is anything the Registry can key subscriptions by.
// Objects and Refs are targets; the ID is stable for the target's lifetime.
type Target interface {
	TargetID() uint64
}

// source identifies one (target, key) pair an effect is subscribed to.
type source struct {
	target uint64
	key    string
}

// dep is the subscriber set for a single (target, key) pair.
// Effects are kept in insertion order and never appear twice.
type dep struct {
	effects []*Effect
}

// Registry is the side-table mapping target identity to property name to the
// set of effects subscribed to that property.
//
// Entries are created lazily by reads inside an effect. When the last
// subscriber of a property is removed the property entry is dropped, and a
// target with no remaining properties is dropped with it.
type Registry struct {
	mu      sync.RWMutex
	targets map[uint64]map[string]*dep
}

func newRegistry() *Registry {
	return &Registry{targets: make(map[uint64]map[string]*dep)}
}

// subscribe adds e to the subscriber set of (target, key).
// Returns false if e was already subscribed.
func (g *Registry) subscribe(target uint64, key string, e *Effect) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	deps, ok := g.targets[target]
	if !ok {
		deps = make(map[string]*dep)
		g.targets[target] = deps
	}
	d, ok := deps[key]
	if !ok {
		d = &dep{}
		deps[key] = d
	}

	for _, existing := range d.effects {
		if existing.id == e.id {
			return false
		}
	}
	d.effects = append(d.effects, e)
	return true
}

// unsubscribe removes e from the subscriber set of (target, key).
// Returns false if e was not subscribed.
func (g *Registry) unsubscribe(target uint64, key string, e *Effect) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	deps, ok := g.targets[target]
	if !ok {
		return false
	}
	d, ok := deps[key]
	if !ok {
		return false
	}

	for i, existing := range d.effects {
		if existing.id != e.id {
			continue
		}
		// Keep insertion order for the remaining subscribers.
		d.effects = append(d.effects[:i], d.effects[i+1:]...)
		if len(d.effects) == 0 {
			delete(deps, key)
			if len(deps) == 0 {
				delete(g.targets, target)
			}
		}
		return true
	}
	return false
}

// subscribers returns a snapshot of the subscriber set of (target, key).
// The snapshot lets callers run effects without holding the lock, while those
// effects subscribe and unsubscribe themselves.
func (g *Registry) subscribers(target uint64, key string) []*Effect {
	g.mu.RLock()
	defer g.mu.RUnlock()

	d, ok := g.targets[target][key]
	if !ok || len(d.effects) == 0 {
		return nil
	}
	subs := make([]*Effect, len(d.effects))
	copy(subs, d.effects)
	return subs
}

// Subscribers returns the number of effects subscribed to (t, key).
func (g *Registry) Subscribers(t Target, key string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if d, ok := g.targets[t.TargetID()][key]; ok {
		return len(d.effects)
	}
	return 0
}

// Targets returns the number of targets with at least one subscription.
func (g *Registry) Targets() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.targets)
}

// Keys returns the sorted property names of t that have subscribers.
func (g *Registry) Keys(t Target) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	deps := g.targets[t.TargetID()]
	keys := make([]string, 0, len(deps))
	for k := range deps {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
