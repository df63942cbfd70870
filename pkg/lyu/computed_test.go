package lyu

import "testing"

func TestComputedInitialValue(t *testing.T) {
	rt := newTestRuntime(t)
	calls := 0
	c := ComputedIn(rt, func() int {
		calls++
		return 42
	})

	if c.Peek() != 42 {
		t.Errorf("expected 42, got %d", c.Peek())
	}
	if calls != 1 {
		t.Errorf("getter should run once at creation, got %d", calls)
	}
}

func TestComputedIsEager(t *testing.T) {
	rt := newTestRuntime(t)
	n := RefIn(rt, 1)
	calls := 0
	ComputedIn(rt, func() int {
		calls++
		return n.Get() * 2
	})

	n.Set(2)
	n.Set(3)
	if calls != 3 {
		t.Errorf("getter should run on every change without being read, got %d", calls)
	}
}

func TestComputedChain(t *testing.T) {
	rt := newTestRuntime(t)
	p := rt.Reactive(map[string]any{"a": 2.0, "b": 5.0})
	s := ComputedIn(rt, func() float64 {
		return p.Get("a").(float64) * 0.9
	})
	total := ComputedIn(rt, func() float64 {
		return s.Get() * p.Get("b").(float64)
	})

	_ = p.Set("b", 5.0)
	_ = p.Set("a", 2.0)
	if s.Get() != 1.8 {
		t.Errorf("expected s=1.8, got %v", s.Get())
	}
	if total.Get() != 9 {
		t.Errorf("expected t=9, got %v", total.Get())
	}

	_ = p.Set("b", 4.0)
	if total.Get() != 7.2 {
		t.Errorf("expected t=7.2, got %v", total.Get())
	}

	_ = p.Set("a", 3.0)
	if total.Get() != s.Get()*4 {
		t.Errorf("change at the bottom of the chain should reach the top, got %v", total.Get())
	}
}

func TestComputedManualWriteIsOverwritten(t *testing.T) {
	rt := newTestRuntime(t)
	n := RefIn(rt, 1)
	c := ComputedIn(rt, func() int {
		return n.Get() + 1
	})

	c.Set(100)
	if c.Peek() != 100 {
		t.Fatalf("manual write should be stored, got %d", c.Peek())
	}
	n.Set(5)
	if c.Peek() != 6 {
		t.Errorf("recompute should overwrite a manual write, got %d", c.Peek())
	}
}
