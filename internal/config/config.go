package config

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/lyu-dev/lyu/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "lyu.json"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "LYU_"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default stderr log format.
	DefaultLogFormat = "text"

	// DefaultFailurePolicy is the default trigger fan-out failure policy.
	DefaultFailurePolicy = "continue"

	// DefaultMetricsAddr is the default metrics listen address.
	DefaultMetricsAddr = ":9090"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "lyu"

	// DefaultTracerName is the default OpenTelemetry tracer name.
	DefaultTracerName = "lyu"
)

// Config represents the complete lyu.json configuration.
type Config struct {
	// Log configures the command's logger.
	Log LogConfig `json:"log" envPrefix:"LOG_"`

	// Runtime configures the reactive runtime.
	Runtime RuntimeConfig `json:"runtime" envPrefix:"RUNTIME_"`

	// Metrics configures Prometheus metrics.
	Metrics MetricsConfig `json:"metrics" envPrefix:"METRICS_"`

	// Tracing configures OpenTelemetry tracing.
	Tracing TracingConfig `json:"tracing" envPrefix:"TRACING_"`

	// configPath is the path this config was loaded from.
	configPath string
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" env:"LEVEL"`

	// Format is the stderr format: text or json.
	Format string `json:"format,omitempty" env:"FORMAT"`

	// File, when set, also receives every record as JSON.
	File string `json:"file,omitempty" env:"FILE"`
}

// RuntimeConfig configures the reactive runtime.
type RuntimeConfig struct {
	// FailurePolicy is "continue" or "fast".
	FailurePolicy string `json:"failurePolicy,omitempty" env:"FAILURE_POLICY"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled turns runtime metrics on.
	Enabled bool `json:"enabled" env:"ENABLED"`

	// Addr is the listen address of the /metrics endpoint.
	Addr string `json:"addr,omitempty" env:"ADDR"`

	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty" env:"NAMESPACE"`
}

// TracingConfig configures tracing.
type TracingConfig struct {
	// TracerName is the instrumentation name passed to the global provider.
	TracerName string `json:"tracerName,omitempty" env:"TRACER_NAME"`

	// Endpoint is an OTLP/HTTP collector URL. Empty disables export.
	Endpoint string `json:"endpoint,omitempty" env:"ENDPOINT"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Runtime: RuntimeConfig{
			FailurePolicy: DefaultFailurePolicy,
		},
		Metrics: MetricsConfig{
			Addr:      DefaultMetricsAddr,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
		},
	}
}

// Load reads lyu.json from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("L006").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or rely on defaults and LYU_* variables")
		}
		return nil, errors.New("L001").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		le := errors.New("L002").Wrap(err)
		if line, col, ok := jsonErrorPosition(data, err); ok {
			le.WithLocation(path, line, col)
		}
		return nil, le.WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Resolve builds the effective configuration for dir: lyu.json when present,
// defaults otherwise, then LYU_* overrides, then validation.
func Resolve(dir string) (*Config, error) {
	cfg := New()
	if Exists(dir) {
		loaded, err := Load(dir)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from LYU_* environment variables.
// Unset variables leave the field unchanged.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(nil)
}

// applyEnv reads overrides from environ, or the process environment if nil.
func (c *Config) applyEnv(environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(c, opts); err != nil {
		return errors.New("L004").Wrap(err)
	}
	c.applyDefaults()
	return nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("L005").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("L005").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Runtime.FailurePolicy == "" {
		c.Runtime.FailurePolicy = DefaultFailurePolicy
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = DefaultMetricsAddr
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return errors.New("L003").
			WithDetail("log.format must be \"text\" or \"json\", got \"" + c.Log.Format + "\"")
	}
	if _, err := c.FailurePolicy(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses Log.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, errors.New("L003").
			WithDetail("log.level must be one of debug, info, warn, error, got \"" + c.Log.Level + "\"").
			Wrap(err)
	}
	return level, nil
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// jsonErrorPosition converts the byte offset of a decoding error into a
// 1-based line and column.
func jsonErrorPosition(data []byte, err error) (line, col int, ok bool) {
	var offset int64
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case stderrors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case stderrors.As(err, &typeErr):
		offset = typeErr.Offset
	default:
		return 0, 0, false
	}
	if offset <= 0 || offset > int64(len(data)) {
		return 0, 0, false
	}

	before := data[:offset]
	line = bytes.Count(before, []byte{'\n'}) + 1
	col = int(offset) - (bytes.LastIndexByte(before, '\n') + 1)
	return line, col, true
}
