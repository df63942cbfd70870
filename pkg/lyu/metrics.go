package lyu

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus metrics of a Runtime.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "lyu").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for trigger fan-out size.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures MetricsConfig.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the fan-out histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "lyu",
		Buckets:   []float64{1, 2, 4, 8, 16, 32, 64, 128},
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors updated by a Runtime.
// A nil *Metrics is valid and records nothing.
//
// Metrics collected:
//   - lyu_effects_created_total: effects installed
//   - lyu_effect_runs_total: effect body executions, including the first
//   - lyu_effect_failures_total: effects that panicked during a trigger
//   - lyu_triggers_total: writes that reached at least one subscriber
//   - lyu_trigger_fanout: subscribers per trigger
//   - lyu_subscriptions: live (target, key, effect) subscriptions
type Metrics struct {
	effectsCreated prometheus.Counter
	effectRuns     prometheus.Counter
	effectFailures prometheus.Counter
	triggers       prometheus.Counter
	fanout         prometheus.Histogram
	subscriptions  prometheus.Gauge
}

// NewMetrics creates and registers the runtime collectors.
// Registering twice against the same registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		effectsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effects_created_total",
			Help:        "Total number of effects installed",
			ConstLabels: config.ConstLabels,
		}),
		effectRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_runs_total",
			Help:        "Total number of effect body executions",
			ConstLabels: config.ConstLabels,
		}),
		effectFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_failures_total",
			Help:        "Total number of effects that panicked while re-running",
			ConstLabels: config.ConstLabels,
		}),
		triggers: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "triggers_total",
			Help:        "Total number of writes that re-ran at least one effect",
			ConstLabels: config.ConstLabels,
		}),
		fanout: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "trigger_fanout",
			Help:        "Number of effects re-run per trigger",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
		subscriptions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "subscriptions",
			Help:        "Number of live effect subscriptions",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) effectCreated() {
	if m != nil {
		m.effectsCreated.Inc()
	}
}

func (m *Metrics) effectRan() {
	if m != nil {
		m.effectRuns.Inc()
	}
}

func (m *Metrics) effectFailed() {
	if m != nil {
		m.effectFailures.Inc()
	}
}

func (m *Metrics) triggered(subscribers int) {
	if m != nil {
		m.triggers.Inc()
		m.fanout.Observe(float64(subscribers))
	}
}

func (m *Metrics) subscriptionAdded() {
	if m != nil {
		m.subscriptions.Inc()
	}
}

func (m *Metrics) subscriptionRemoved() {
	if m != nil {
		m.subscriptions.Dec()
	}
}
