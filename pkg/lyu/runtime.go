package lyu

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"weak"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// defaultTracerName is the instrumentation name used when no tracer is given.
const defaultTracerName = "github.com/lyu-dev/lyu"

// Runtime holds the state shared by every reactive primitive created from it:
// the Registry, the per-goroutine tracking contexts and the instrumentation.
//
// Primitives created from different runtimes never see each other's
// subscriptions. Most programs use the process-wide Default runtime through
// the package-level functions.
type Runtime struct {
	registry *Registry

	// contexts maps goroutine ID to *trackingContext.
	contexts sync.Map

	// objects maps the address of a wrapped map to its live *Object.
	objectsMu sync.Mutex
	objects   map[uintptr]weak.Pointer[Object]

	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
	policy  FailurePolicy
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger. If nil, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithMetrics attaches Prometheus metrics to the runtime.
func WithMetrics(m *Metrics) Option {
	return func(r *Runtime) {
		r.metrics = m
	}
}

// WithTracer sets the tracer used for trigger spans.
// Default: the global OpenTelemetry tracer provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Runtime) {
		r.tracer = tracer
	}
}

// WithFailurePolicy sets how a trigger fan-out handles panicking effects.
// Default: FailContinue.
func WithFailurePolicy(p FailurePolicy) Option {
	return func(r *Runtime) {
		r.policy = p
	}
}

// NewRuntime creates an isolated runtime.
func NewRuntime(opts ...Option) *Runtime {
	r := &Runtime{
		registry: newRegistry(),
		objects:  make(map[uintptr]weak.Pointer[Object]),
		policy:   FailContinue,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.tracer == nil {
		r.tracer = otel.Tracer(defaultTracerName)
	}
	return r
}

// Registry returns the runtime's subscription table.
func (r *Runtime) Registry() *Registry {
	return r.registry
}

// FailurePolicy returns the configured fan-out failure policy.
func (r *Runtime) FailurePolicy() FailurePolicy {
	return r.policy
}

var defaultRuntime atomic.Pointer[Runtime]

// Default returns the process-wide runtime used by the package-level
// functions, creating it on first use.
func Default() *Runtime {
	if r := defaultRuntime.Load(); r != nil {
		return r
	}
	defaultRuntime.CompareAndSwap(nil, NewRuntime())
	return defaultRuntime.Load()
}

// SetDefault replaces the process-wide runtime and returns the previous one.
// Passing nil resets it; a fresh runtime is created on next use.
//
// Primitives already created keep the runtime they were created with.
func SetDefault(r *Runtime) *Runtime {
	return defaultRuntime.Swap(r)
}
