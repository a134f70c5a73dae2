package metrics

// Config defines the Prometheus endpoint.
type Config struct {
	// Address is where /metrics is served, e.g. ":9090".
	Address string `yaml:"address" mapstructure:"address" envconfig:"METRICS_ADDRESS" default:":9090"`

	// EnableDefaultCollectors registers Go runtime, process and build info collectors.
	EnableDefaultCollectors bool `yaml:"enable_default_collectors" mapstructure:"enable_default_collectors" envconfig:"METRICS_ENABLE_DEFAULT_COLLECTORS" default:"true"`

	// Namespace prefixes every metric name.
	Namespace string `yaml:"namespace" mapstructure:"namespace" envconfig:"METRICS_NAMESPACE" default:"testdatagen"`

	// ServiceName is added to every metric as the "service" label.
	ServiceName string `yaml:"service_name" mapstructure:"service_name" envconfig:"METRICS_SERVICE_NAME" default:"testdatagen"`

	// Serve starts the HTTP endpoint with the application. One-shot CLI
	// commands leave it off.
	Serve bool `yaml:"serve" mapstructure:"serve" envconfig:"METRICS_SERVE"`
}
