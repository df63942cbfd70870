package lyu

import (
	"errors"
	"fmt"
	"strings"
)

// ErrFrozen is returned when writing or deleting a data property of a frozen
// Object. The write does not happen and nothing is triggered.
var ErrFrozen = errors.New("lyu: object is frozen")

// ErrReadOnly is returned when writing a property backed by an Accessor
// without a setter.
var ErrReadOnly = errors.New("lyu: property is read-only")

// EffectPanic records a panic recovered from an effect while it was being
// re-run by a trigger.
type EffectPanic struct {
	// EffectID identifies the effect that panicked.
	EffectID uint64

	// Value is the value passed to panic.
	Value any

	// Stack is the goroutine stack captured at recovery.
	Stack []byte
}

// Error implements the error interface.
func (p *EffectPanic) Error() string {
	return fmt.Sprintf("lyu: effect %d panicked: %v", p.EffectID, p.Value)
}

// Unwrap returns the panic value when it is an error.
func (p *EffectPanic) Unwrap() error {
	if err, ok := p.Value.(error); ok {
		return err
	}
	return nil
}

// TriggerError is the panic value raised by a write whose trigger fan-out had
// one or more failing subscribers.
//
// With FailContinue every subscriber was attempted and Failures holds all of
// the panics. With FailFast Failures holds the first one and the remaining
// subscribers were skipped.
type TriggerError struct {
	TargetID uint64
	Key      string
	Failures []*EffectPanic
}

// Error implements the error interface.
func (e *TriggerError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "lyu: %d effect(s) failed on trigger of %q (target %d)", len(e.Failures), e.Key, e.TargetID)
	for _, f := range e.Failures {
		b.WriteString("; ")
		b.WriteString(f.Error())
	}
	return b.String()
}

// Unwrap exposes every failure to errors.Is and errors.As.
func (e *TriggerError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// FailurePolicy decides what a trigger fan-out does after a subscriber panics.
type FailurePolicy int

const (
	// FailContinue runs every remaining subscriber and then panics with a
	// TriggerError holding all failures.
	FailContinue FailurePolicy = iota

	// FailFast stops the fan-out at the first failure.
	FailFast
)

// String returns the configuration name of the policy.
func (p FailurePolicy) String() string {
	switch p {
	case FailContinue:
		return "continue"
	case FailFast:
		return "fast"
	default:
		return fmt.Sprintf("FailurePolicy(%d)", int(p))
	}
}

// ParseFailurePolicy parses "continue" or "fast".
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "continue":
		return FailContinue, nil
	case "fast":
		return FailFast, nil
	default:
		return 0, fmt.Errorf("lyu: unknown failure policy %q", s)
	}
}
