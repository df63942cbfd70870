package config

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"

	"github.com/lyu-dev/lyu/internal/errors"
	"github.com/lyu-dev/lyu/pkg/lyu"
)

// FailurePolicy parses Runtime.FailurePolicy.
func (c *Config) FailurePolicy() (lyu.FailurePolicy, error) {
	p, err := lyu.ParseFailurePolicy(c.Runtime.FailurePolicy)
	if err != nil {
		return 0, errors.New("L003").
			WithDetail("runtime.failurePolicy must be \"continue\" or \"fast\", got \"" + c.Runtime.FailurePolicy + "\"").
			Wrap(err)
	}
	return p, nil
}

// RuntimeOptions converts the configuration into runtime options.
// Metrics are registered on reg only when enabled; the returned *lyu.Metrics
// is nil otherwise.
func (c *Config) RuntimeOptions(logger *slog.Logger, reg prometheus.Registerer) ([]lyu.Option, *lyu.Metrics, error) {
	policy, err := c.FailurePolicy()
	if err != nil {
		return nil, nil, err
	}

	opts := []lyu.Option{
		lyu.WithLogger(logger),
		lyu.WithFailurePolicy(policy),
		lyu.WithTracer(otel.Tracer(c.Tracing.TracerName)),
	}

	var metrics *lyu.Metrics
	if c.Metrics.Enabled {
		metrics = lyu.NewMetrics(
			lyu.WithNamespace(c.Metrics.Namespace),
			lyu.WithRegistry(reg),
		)
		opts = append(opts, lyu.WithMetrics(metrics))
	}

	return opts, metrics, nil
}
