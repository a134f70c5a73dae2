package tracer

import "time"

// OTLP export protocols.
const (
	ProtocolHTTP = "http"
	ProtocolGRPC = "grpc"
)

// Config defines the tracing setup.
type Config struct {
	// Enabled installs an SDK tracer provider. When false, spans are no-ops.
	Enabled bool `yaml:"enabled" mapstructure:"enabled" envconfig:"TRACER_ENABLED"`

	// ServiceName is recorded as the service.name resource attribute.
	ServiceName string `yaml:"service_name" mapstructure:"service_name" envconfig:"TRACER_SERVICE_NAME" default:"testdatagen"`

	// Endpoint is the OTLP collector address (host:port). Spans are
	// recorded but not exported when empty.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" envconfig:"TRACER_ENDPOINT"`

	// Protocol selects the OTLP transport, "http" or "grpc".
	Protocol string `yaml:"protocol" mapstructure:"protocol" envconfig:"TRACER_PROTOCOL" default:"http"`

	// Insecure disables TLS towards the collector.
	Insecure bool `yaml:"insecure" mapstructure:"insecure" envconfig:"TRACER_INSECURE"`

	// SamplingRate is the fraction of traces kept, 0 to 1.
	SamplingRate float64 `yaml:"sampling_rate" mapstructure:"sampling_rate" envconfig:"TRACER_SAMPLING_RATE" default:"1"`

	// ExportTimeout bounds one export request.
	ExportTimeout time.Duration `yaml:"export_timeout" mapstructure:"export_timeout" envconfig:"TRACER_EXPORT_TIMEOUT" default:"10s"`
}
