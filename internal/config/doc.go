// Package config provides configuration loading for the lyu command.
//
// The configuration is stored in lyu.json. Every field can be overridden by
// an LYU_* environment variable, which wins over the file.
//
// # Configuration File Structure
//
//	{
//	  "log": {
//	    "level": "info",
//	    "format": "text",
//	    "file": "lyu.log"
//	  },
//	  "runtime": {
//	    "failurePolicy": "continue"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "addr": ":9090",
//	    "namespace": "lyu"
//	  },
//	  "tracing": {
//	    "tracerName": "lyu"
//	  }
//	}
//
// # Environment Overrides
//
//	LYU_LOG_LEVEL, LYU_LOG_FORMAT, LYU_LOG_FILE
//	LYU_RUNTIME_FAILURE_POLICY
//	LYU_METRICS_ENABLED, LYU_METRICS_ADDR, LYU_METRICS_NAMESPACE
//	LYU_TRACING_TRACER_NAME
//
// # Usage
//
//	cfg, err := config.Resolve(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	opts, err := cfg.RuntimeOptions(logger, prometheus.DefaultRegisterer)
package config
