package main

import (
	"context"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/lyu-dev/lyu/internal/config"
	"github.com/lyu-dev/lyu/internal/demo"
	"github.com/lyu-dev/lyu/internal/errors"
	"github.com/lyu-dev/lyu/internal/logging"
	"github.com/lyu-dev/lyu/internal/telemetry"
	"github.com/lyu-dev/lyu/pkg/lyu"
)

type demoOptions struct {
	configDir   string
	metricsAddr string
	logLevel    string
	failFast    bool
}

func demoCmd() *cobra.Command {
	var opts demoOptions

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the shopping-cart walkthrough",
		Long: `Run the shopping-cart walkthrough against a fresh runtime.

The walkthrough shows a reactive total, a discount kept in a ref,
the same discount as computed values, and a property added after
the object was created.

When metrics are enabled the runtime's Prometheus metrics stay
available on /metrics until the command is interrupted.

Examples:
  lyu demo
  lyu demo --metrics-addr=:9090
  LYU_LOG_LEVEL=debug lyu demo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runDemo(ctx, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&opts.configDir, "config", "c", ".", "Directory containing lyu.json")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve metrics on this address (enables metrics)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level (default from lyu.json)")
	cmd.Flags().BoolVar(&opts.failFast, "fail-fast", false, "Stop a trigger at the first failing effect")

	return cmd
}

func runDemo(ctx context.Context, opts demoOptions, stdout, stderr io.Writer) error {
	cfg, err := config.Resolve(opts.configDir)
	if err != nil {
		return err
	}

	// Apply command-line overrides
	if opts.metricsAddr != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = opts.metricsAddr
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.failFast {
		cfg.Runtime.FailurePolicy = lyu.FailFast.String()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log, stderr)
	if err != nil {
		return err
	}
	defer logger.Close()

	shutdown, err := telemetry.Setup(ctx, cfg.Tracing, "lyu")
	if err != nil {
		return errors.New("L022").
			WithDetail("Endpoint: " + cfg.Tracing.Endpoint).
			Wrap(err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("flush traces", "error", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	rtOpts, _, err := cfg.RuntimeOptions(logger.Logger, reg)
	if err != nil {
		return err
	}
	rt := lyu.NewRuntime(rtOpts...)

	printBanner(stdout)
	info(stdout, "demo")
	io.WriteString(stdout, "\n")

	if err := demo.Run(stdout, rt); err != nil {
		return err
	}
	io.WriteString(stdout, "\n")
	success(stdout, "Walkthrough complete (%d targets tracked)", rt.Registry().Targets())

	if !cfg.Metrics.Enabled {
		return nil
	}

	ln, err := net.Listen("tcp", cfg.Metrics.Addr)
	if err != nil {
		return errors.New("L020").
			WithDetail("Cannot listen on " + cfg.Metrics.Addr).
			Wrap(err)
	}
	info(stdout, "Metrics on http://%s/metrics (Ctrl+C to stop)", ln.Addr())
	return serveMetrics(ctx, ln, newMetricsRouter(reg), logger.Logger)
}
