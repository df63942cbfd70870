// Package demo runs the shopping-cart walkthrough of the reactive runtime:
// a plain reactive total, a discount kept in a ref by effects, the same
// discount as computed values, and a property added after creation.
//
// All sections share one product, so each starts from the state the
// previous one left behind.
package demo

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/lyu-dev/lyu/internal/errors"
	"github.com/lyu-dev/lyu/pkg/lyu"
)

// Discount is the sale multiplier applied to the price.
const Discount = 0.9

// Section is one titled step of the walkthrough.
type Section struct {
	Title string
	run   func(d *Demo) error
}

// Sections returns the walkthrough steps in order.
func Sections() []Section {
	return []Section{
		{Title: "Test reactive", run: (*Demo).reactiveTotal},
		{Title: "Test ref", run: (*Demo).refDiscount},
		{Title: "Test computed", run: (*Demo).computedDiscount},
		{Title: "Test new property", run: (*Demo).newProperty},
	}
}

// Demo holds the state shared by the sections.
type Demo struct {
	w       io.Writer
	rt      *lyu.Runtime
	product *lyu.Object
}

// New creates a demo writing its transcript to w. A nil runtime uses
// lyu.Default().
func New(w io.Writer, rt *lyu.Runtime) *Demo {
	if rt == nil {
		rt = lyu.Default()
	}
	return &Demo{
		w:  w,
		rt: rt,
		product: rt.Reactive(map[string]any{
			"quantity": 2.0,
			"price":    5.0,
		}),
	}
}

// Run executes every section in order.
func Run(w io.Writer, rt *lyu.Runtime) error {
	return New(w, rt).Run()
}

// Run executes every section in order and stops at the first failure.
func (d *Demo) Run() error {
	for _, s := range Sections() {
		fmt.Fprintf(d.w, "=== %s ===\n", s.Title)
		if err := d.guard(s.run); err != nil {
			return err
		}
	}
	return nil
}

// Product returns the shared reactive product.
func (d *Demo) Product() *lyu.Object {
	return d.product
}

// guard converts a trigger failure raised by a write into an error.
func (d *Demo) guard(fn func(*Demo) error) (err error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		te, ok := v.(*lyu.TriggerError)
		if !ok {
			panic(v)
		}
		err = errors.New("L010").
			WithDetail(fmt.Sprintf("%d effect(s) failed while re-running for %q", len(te.Failures), te.Key)).
			Wrap(te)
	}()
	return fn(d)
}

func (d *Demo) num(key string) float64 {
	v, _ := lyu.GetAs[float64](d.product, key)
	return v
}

// set applies writes in order.
func (d *Demo) set(kv ...any) error {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			return stderrors.New("demo: key must be a string")
		}
		if err := d.product.Set(key, kv[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// steps performs the three writes every pricing section prints after:
// reset to 2 * 5, raise the quantity to 3, drop the price to 4.
func (d *Demo) steps(print func()) error {
	for _, kv := range [][]any{
		{"quantity", 2.0, "price", 5.0},
		{"quantity", 3.0},
		{"price", 4.0},
	} {
		if err := d.set(kv...); err != nil {
			return err
		}
		print()
	}
	return nil
}

func (d *Demo) reactiveTotal() error {
	total := 0.0
	d.rt.Effect(func() {
		total = d.num("quantity") * d.num("price")
	})

	return d.steps(func() {
		fmt.Fprintf(d.w, "total is: %v * %v = %v\n", d.num("quantity"), d.num("price"), total)
	})
}

func (d *Demo) refDiscount() error {
	salePrice := lyu.RefIn(d.rt, 0.0)
	discountedTotal := 0.0

	d.rt.Effect(func() {
		salePrice.Set(d.num("price") * Discount)
	})
	d.rt.Effect(func() {
		discountedTotal = salePrice.Get() * d.num("quantity")
	})

	return d.steps(func() {
		fmt.Fprintf(d.w, "discounted total is: %v * %v * %v = %v\n",
			d.num("quantity"), d.num("price"), Discount, discountedTotal)
	})
}

func (d *Demo) computedDiscount() error {
	salePrice := lyu.ComputedIn(d.rt, func() float64 {
		return d.num("price") * Discount
	})
	total := lyu.ComputedIn(d.rt, func() float64 {
		return salePrice.Get() * d.num("quantity")
	})

	return d.steps(func() {
		fmt.Fprintf(d.w, "computed total is: %v * %v * %v = %v\n",
			d.num("quantity"), d.num("price"), Discount, total.Peek())
	})
}

func (d *Demo) newProperty() error {
	if err := d.set("name", "shoes"); err != nil {
		return err
	}

	message := lyu.ComputedIn(d.rt, func() string {
		name, _ := lyu.GetAs[string](d.product, "name")
		return "Buy some " + name
	})
	fmt.Fprintln(d.w, message.Peek())

	if err := d.set("name", "clothes"); err != nil {
		return err
	}
	fmt.Fprintln(d.w, message.Peek())
	return nil
}
