package logger

const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config holds the settings used to build the zap logger.
type Config struct {
	// Level is one of debug, info, warning or error.
	// Unknown values fall back to info.
	Level string `yaml:"level" mapstructure:"level" envconfig:"ZAP_LOGGER_LEVEL"`

	// ServiceName is attached to every entry as the "service" field.
	ServiceName string `yaml:"service_name" mapstructure:"service_name" envconfig:"LOGGER_SERVICE_NAME"`

	// EnableTracing adds trace_id and span_id to entries written through
	// the *WithContext methods.
	EnableTracing bool `yaml:"enable_tracing" mapstructure:"enable_tracing" envconfig:"LOGGER_ENABLE_TRACING"`

	// Encoding is "json" (default) or "console".
	Encoding string `yaml:"encoding" mapstructure:"encoding" envconfig:"LOGGER_ENCODING"`
}
