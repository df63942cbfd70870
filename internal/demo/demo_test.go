package demo

import (
	"bytes"
	stderrors "errors"
	"io"
	"log/slog"
	"testing"

	"github.com/lyu-dev/lyu/internal/errors"
	"github.com/lyu-dev/lyu/pkg/lyu"
)

func newRuntime() *lyu.Runtime {
	return lyu.NewRuntime(lyu.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

const transcript = `=== Test reactive ===
total is: 2 * 5 = 10
total is: 3 * 5 = 15
total is: 3 * 4 = 12
=== Test ref ===
discounted total is: 2 * 5 * 0.9 = 9
discounted total is: 3 * 5 * 0.9 = 13.5
discounted total is: 3 * 4 * 0.9 = 10.8
=== Test computed ===
computed total is: 2 * 5 * 0.9 = 9
computed total is: 3 * 5 * 0.9 = 13.5
computed total is: 3 * 4 * 0.9 = 10.8
=== Test new property ===
Buy some shoes
Buy some clothes
`

func TestRun(t *testing.T) {
	var buf bytes.Buffer
	if err := Run(&buf, newRuntime()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if buf.String() != transcript {
		t.Errorf("transcript mismatch\ngot:\n%s\nwant:\n%s", buf.String(), transcript)
	}
}

func TestRunLeavesSubscriptions(t *testing.T) {
	rt := newRuntime()
	d := New(io.Discard, rt)
	if err := d.Run(); err != nil {
		t.Fatal(err)
	}

	// reactive total, ref sale price, computed sale price
	if got := rt.Registry().Subscribers(d.Product(), "price"); got != 3 {
		t.Errorf("price subscribers = %d, want 3", got)
	}
	if got := rt.Registry().Subscribers(d.Product(), "name"); got != 1 {
		t.Errorf("name subscribers = %d, want 1", got)
	}
}

func TestSections(t *testing.T) {
	want := []string{"Test reactive", "Test ref", "Test computed", "Test new property"}
	got := Sections()
	if len(got) != len(want) {
		t.Fatalf("expected %d sections, got %d", len(want), len(got))
	}
	for i, s := range got {
		if s.Title != want[i] {
			t.Errorf("section %d = %q, want %q", i, s.Title, want[i])
		}
	}
}

func TestGuardConvertsTriggerFailure(t *testing.T) {
	d := New(io.Discard, newRuntime())

	err := d.guard(func(d *Demo) error {
		d.rt.Effect(func() {
			if d.num("price") < 0 {
				panic("negative price")
			}
		})
		return d.product.Set("price", -1.0)
	})

	var le *errors.LyuError
	if !stderrors.As(err, &le) || le.Code != "L010" {
		t.Fatalf("expected L010, got %v", err)
	}
	var te *lyu.TriggerError
	if !stderrors.As(err, &te) || te.Key != "price" {
		t.Errorf("expected the trigger error to be wrapped, got %v", err)
	}
	if got := d.num("price"); got != -1 {
		t.Errorf("the write itself should have completed, price = %v", got)
	}
}

func TestGuardRepanicsOtherValues(t *testing.T) {
	d := New(io.Discard, newRuntime())

	defer func() {
		if v := recover(); v != "unrelated" {
			t.Errorf("expected the original panic, got %v", v)
		}
	}()
	_ = d.guard(func(*Demo) error { panic("unrelated") })
	t.Fatal("guard should re-panic")
}

func TestGuardPassesErrors(t *testing.T) {
	d := New(io.Discard, newRuntime())
	d.product.Freeze()

	err := d.guard(func(d *Demo) error { return d.set("price", 1.0) })
	if !stderrors.Is(err, lyu.ErrFrozen) {
		t.Errorf("expected ErrFrozen, got %v", err)
	}
}
