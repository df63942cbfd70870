package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Configuration (L001-L009)
	"L001": {
		Category: CategoryConfig,
		Message:  "Configuration file not readable",
		Detail:   "lyu.json exists but could not be read.",
		DocURL:   "https://lyu.dev/docs/errors/L001",
	},
	"L002": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "lyu.json is not valid JSON or does not match the configuration schema.",
		DocURL:   "https://lyu.dev/docs/errors/L002",
	},
	"L003": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is outside its allowed set.",
		DocURL:   "https://lyu.dev/docs/errors/L003",
	},
	"L004": {
		Category: CategoryConfig,
		Message:  "Invalid environment override",
		Detail:   "An LYU_* environment variable could not be parsed into its configuration field.",
		DocURL:   "https://lyu.dev/docs/errors/L004",
	},
	"L005": {
		Category: CategoryConfig,
		Message:  "Configuration file not writable",
		Detail:   "lyu.json could not be written.",
		DocURL:   "https://lyu.dev/docs/errors/L005",
	},
	"L006": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No lyu.json was found at the given path.",
		DocURL:   "https://lyu.dev/docs/errors/L006",
	},

	// Runtime (L010-L019)
	"L010": {
		Category: CategoryRuntime,
		Message:  "Effect failed during trigger",
		Detail:   "One or more effects panicked while being re-run by a write. The write itself completed.",
		DocURL:   "https://lyu.dev/docs/errors/L010",
	},

	// CLI (L020-L029)
	"L020": {
		Category: CategoryCLI,
		Message:  "Metrics server failed",
		Detail:   "The HTTP server exposing Prometheus metrics stopped with an error.",
		DocURL:   "https://lyu.dev/docs/errors/L020",
	},
	"L021": {
		Category: CategoryCLI,
		Message:  "Log file not writable",
		Detail:   "The file configured for JSON logs could not be opened for appending.",
		DocURL:   "https://lyu.dev/docs/errors/L021",
	},
	"L022": {
		Category: CategoryCLI,
		Message:  "Tracing setup failed",
		Detail:   "The OTLP trace exporter could not be created for the configured endpoint.",
		DocURL:   "https://lyu.dev/docs/errors/L022",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
