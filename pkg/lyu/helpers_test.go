package lyu

import (
	"io"
	"log/slog"
	"testing"
)

// newTestRuntime returns a runtime that discards log output.
func newTestRuntime(t *testing.T, opts ...Option) *Runtime {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRuntime(append([]Option{WithLogger(logger)}, opts...)...)
}

// catchPanic runs fn and returns the recovered panic value, if any.
func catchPanic(fn func()) (v any) {
	defer func() {
		v = recover()
	}()
	fn()
	return nil
}
