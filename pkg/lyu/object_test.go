package lyu

import (
	"errors"
	"reflect"
	"runtime"
	"testing"
	"time"
)

func TestObjectEndToEnd(t *testing.T) {
	rt := newTestRuntime(t)
	product := rt.Reactive(map[string]any{"quantity": 2, "price": 5})

	total := 0
	rt.Effect(func() {
		total = product.Get("quantity").(int) * product.Get("price").(int)
	})
	if total != 10 {
		t.Fatalf("expected total 10, got %d", total)
	}

	steps := []struct {
		key   string
		value int
		want  int
	}{
		{"quantity", 2, 10},
		{"price", 5, 10},
		{"quantity", 3, 15},
		{"price", 4, 12},
	}
	for _, s := range steps {
		if err := product.Set(s.key, s.value); err != nil {
			t.Fatalf("Set(%s): %v", s.key, err)
		}
		if total != s.want {
			t.Errorf("after %s=%d: expected total %d, got %d", s.key, s.value, s.want, total)
		}
	}
}

func TestObjectSameValueDoesNotTrigger(t *testing.T) {
	rt := newTestRuntime(t)
	o := rt.Reactive(map[string]any{"a": 1})
	runs := 0
	rt.Effect(func() {
		runs++
		o.Get("a")
	})

	_ = o.Set("a", 1)
	if runs != 1 {
		t.Errorf("same-value write should not re-run, got %d runs", runs)
	}
	_ = o.Set("a", 1.0)
	if runs != 2 {
		t.Errorf("a value of another type is a change, got %d runs", runs)
	}
}

func TestObjectNewPropertyIsReactive(t *testing.T) {
	rt := newTestRuntime(t)
	product := rt.Reactive(map[string]any{"quantity": 2, "price": 5})
	_ = product.Set("name", "shoes")

	message := ComputedIn(rt, func() string {
		return "Buy some " + product.Get("name").(string)
	})
	if got := message.Get(); got != "Buy some shoes" {
		t.Errorf("expected %q, got %q", "Buy some shoes", got)
	}

	_ = product.Set("name", "clothes")
	if got := message.Get(); got != "Buy some clothes" {
		t.Errorf("expected %q, got %q", "Buy some clothes", got)
	}
}

func TestObjectMissingKeyIsTracked(t *testing.T) {
	rt := newTestRuntime(t)
	o := rt.Reactive(nil)
	var seen any
	rt.Effect(func() {
		seen = o.Get("later")
	})
	if seen != nil {
		t.Fatalf("missing key should read as nil, got %v", seen)
	}

	_ = o.Set("later", "here")
	if seen != "here" {
		t.Errorf("adding a read-but-missing key should re-run, got %v", seen)
	}
}

func TestObjectFrozen(t *testing.T) {
	rt := newTestRuntime(t)
	o := rt.Reactive(map[string]any{"price": 5})
	runs := 0
	rt.Effect(func() {
		runs++
		o.Get("price")
	})

	o.Freeze()
	if err := o.Set("price", 9); !errors.Is(err, ErrFrozen) {
		t.Errorf("expected ErrFrozen, got %v", err)
	}
	if err := o.Delete("price"); !errors.Is(err, ErrFrozen) {
		t.Errorf("expected ErrFrozen on delete, got %v", err)
	}
	if runs != 1 {
		t.Errorf("failed write should not trigger, got %d runs", runs)
	}
	if o.Raw()["price"] != 5 {
		t.Error("failed write should not change the value")
	}
	if !o.Frozen() {
		t.Error("Frozen should report true")
	}
}

func TestObjectAccessor(t *testing.T) {
	rt := newTestRuntime(t)
	person := rt.Reactive(map[string]any{
		"first": "Ada",
		"last":  "Lovelace",
		"full": &Accessor{
			Get: func(o *Object) any {
				return o.Get("first").(string) + " " + o.Get("last").(string)
			},
		},
	})

	var full string
	rt.Effect(func() {
		full = person.Get("full").(string)
	})
	if full != "Ada Lovelace" {
		t.Fatalf("expected %q, got %q", "Ada Lovelace", full)
	}

	_ = person.Set("last", "Byron")
	if full != "Ada Byron" {
		t.Errorf("reads inside an accessor should be tracked, got %q", full)
	}

	if err := person.Set("full", "x"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
}

func TestObjectAccessorSetter(t *testing.T) {
	rt := newTestRuntime(t)
	temp := rt.Reactive(map[string]any{"c": 0.0})
	temp.Raw()["f"] = &Accessor{
		Get: func(o *Object) any {
			return o.Get("c").(float64)*9/5 + 32
		},
		Set: func(o *Object, v any) error {
			return o.Set("c", (v.(float64)-32)*5/9)
		},
	}
	temp.Freeze()

	var f float64
	rt.Effect(func() {
		f = temp.Get("f").(float64)
	})

	if err := temp.Set("f", 212.0); !errors.Is(err, ErrFrozen) {
		// The setter writes the data property "c", which is frozen.
		t.Errorf("expected ErrFrozen from the setter, got %v", err)
	}
	if f != 32 {
		t.Errorf("failed setter should not trigger, got %v", f)
	}
}

func TestObjectAccessorSetterWrites(t *testing.T) {
	rt := newTestRuntime(t)
	temp := rt.Reactive(map[string]any{"c": 0.0})
	temp.Raw()["f"] = &Accessor{
		Get: func(o *Object) any {
			return o.Get("c").(float64)*9/5 + 32
		},
		Set: func(o *Object, v any) error {
			return o.Set("c", (v.(float64)-32)*5/9)
		},
	}

	var f float64
	rt.Effect(func() {
		f = temp.Get("f").(float64)
	})

	if err := temp.Set("f", 212.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c := temp.Raw()["c"]; c != 100.0 {
		t.Errorf("setter should write c=100, got %v", c)
	}
	if f != 212 {
		t.Errorf("expected f=212, got %v", f)
	}
}

func TestObjectPrototype(t *testing.T) {
	rt := newTestRuntime(t)
	proto := map[string]any{
		"kind": "product",
		"label": &Accessor{
			Get: func(o *Object) any {
				return o.Get("kind").(string) + ":" + o.Get("name").(string)
			},
		},
	}
	o := rt.Reactive(map[string]any{"name": "shoes"}, WithPrototype(proto))

	var label string
	rt.Effect(func() {
		label = o.Get("label").(string)
	})
	if label != "product:shoes" {
		t.Fatalf("expected inherited accessor value, got %q", label)
	}

	_ = o.Set("name", "hats")
	if label != "product:hats" {
		t.Errorf("expected %q, got %q", "product:hats", label)
	}

	_ = o.Set("kind", "item")
	if label != "item:hats" {
		t.Errorf("own property should shadow the inherited one, got %q", label)
	}
	if proto["kind"] != "product" {
		t.Error("writes should land on the target, not the prototype")
	}
}

func TestObjectFallThroughOperations(t *testing.T) {
	rt := newTestRuntime(t)
	o := rt.Reactive(map[string]any{"b": 1, "a": 2}, WithPrototype(map[string]any{"a": 0, "z": 9}))

	if keys := o.Keys(); !reflect.DeepEqual(keys, []string{"a", "b", "z"}) {
		t.Errorf("expected keys [a b z], got %v", keys)
	}
	if o.Len() != 3 {
		t.Errorf("expected len 3, got %d", o.Len())
	}
	if !o.Has("z") || o.Has("missing") {
		t.Error("Has should see own and inherited keys only")
	}

	runs := 0
	rt.Effect(func() {
		runs++
		o.Get("b")
	})
	if err := o.Delete("b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runs != 1 {
		t.Errorf("delete should not trigger, got %d runs", runs)
	}
	if o.Has("b") {
		t.Error("b should be deleted")
	}
}

func TestGetAs(t *testing.T) {
	rt := newTestRuntime(t)
	o := rt.Reactive(map[string]any{"n": 3, "s": "x"})

	if n, ok := GetAs[int](o, "n"); !ok || n != 3 {
		t.Errorf("GetAs[int] = %v, %v", n, ok)
	}
	if _, ok := GetAs[int](o, "s"); ok {
		t.Error("GetAs should fail on a type mismatch")
	}
	if _, ok := GetAs[string](o, "missing"); ok {
		t.Error("GetAs should fail on a missing key")
	}
}

func TestObjectSameMapSharesSubscriptions(t *testing.T) {
	rt := newTestRuntime(t)
	m := map[string]any{"x": 1}
	a := rt.Reactive(m)
	b := rt.Reactive(m)

	if a != b {
		t.Fatal("wrapping the same map twice should return the same object")
	}

	runs := 0
	rt.Effect(func() {
		runs++
		a.Get("x")
	})

	if err := b.Set("x", 2); err != nil {
		t.Fatal(err)
	}
	if runs != 2 {
		t.Errorf("a write through the second handle should re-run the effect, got %d runs", runs)
	}

	other := rt.Reactive(map[string]any{"x": 1})
	if other == a || other.TargetID() == a.TargetID() {
		t.Error("distinct maps must have distinct identities")
	}
}

func TestObjectRewrapAppliesOptions(t *testing.T) {
	rt := newTestRuntime(t)
	m := map[string]any{}
	o := rt.Reactive(m)

	rt.Reactive(m, WithPrototype(map[string]any{"color": "red"}))

	if got := o.Get("color"); got != "red" {
		t.Errorf("expected the prototype on the existing object, got %v", got)
	}
}

func TestObjectSameMapAcrossRuntimes(t *testing.T) {
	m := map[string]any{"x": 1}
	a := newTestRuntime(t).Reactive(m)
	b := newTestRuntime(t).Reactive(m)

	if a == b {
		t.Error("runtimes must not share wrappers")
	}
}

func TestObjectTableForgetsCollectedWrappers(t *testing.T) {
	rt := newTestRuntime(t)
	m := map[string]any{"x": 1}

	func() {
		_ = rt.Reactive(m)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for {
		runtime.GC()
		rt.objectsMu.Lock()
		n := len(rt.objects)
		rt.objectsMu.Unlock()
		if n == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("object table still holds %d entries", n)
		}
		time.Sleep(10 * time.Millisecond)
	}

	// A fresh wrapper is created once the old one is gone.
	if o := rt.Reactive(m); o.Get("x") != 1 {
		t.Errorf("unexpected value %v", o.Get("x"))
	}
}
