package schema_registry

import "time"

// DefaultTimeout bounds each registry request when Config.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// Config holds configuration for the schema registry client.
type Config struct {
	// URL is the schema registry endpoint, e.g. "http://localhost:8081".
	URL string `yaml:"url" mapstructure:"url" envconfig:"SCHEMA_REGISTRY_URL"`

	// Username and Password enable basic auth when Username is set.
	Username string `yaml:"username" mapstructure:"username" envconfig:"SCHEMA_REGISTRY_USERNAME"`
	Password string `yaml:"password" mapstructure:"password" envconfig:"SCHEMA_REGISTRY_PASSWORD"`

	// Timeout for HTTP requests.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" envconfig:"SCHEMA_REGISTRY_TIMEOUT" default:"10s"`

	// SubjectStrategy is one of "topic", "record" or "topic_record".
	SubjectStrategy string `yaml:"subject_strategy" mapstructure:"subject_strategy" envconfig:"SCHEMA_REGISTRY_SUBJECT_STRATEGY" default:"topic"`

	// AutoRegister registers schemas on first use. When false the
	// serializer looks up the latest registered version instead.
	AutoRegister bool `yaml:"auto_register" mapstructure:"auto_register" envconfig:"SCHEMA_REGISTRY_AUTO_REGISTER" default:"true"`
}
