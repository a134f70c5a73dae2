package validator

import "time"

const (
	// DefaultComplexityThreshold is the cyclomatic complexity above which
	// the strict level warns.
	DefaultComplexityThreshold = 10

	// DefaultProbeTimeout bounds each paranoid-level probe call.
	DefaultProbeTimeout = time.Second
)

// Config defines the validator defaults.
type Config struct {
	// Level is one of "basic", "standard", "strict" or "paranoid".
	Level string `yaml:"level" mapstructure:"level" envconfig:"VALIDATOR_LEVEL" default:"standard"`

	// AllowDangerous downgrades dangerous findings from errors to nothing.
	AllowDangerous bool `yaml:"allow_dangerous" mapstructure:"allow_dangerous" envconfig:"VALIDATOR_ALLOW_DANGEROUS"`

	ComplexityThreshold int           `yaml:"complexity_threshold" mapstructure:"complexity_threshold" envconfig:"VALIDATOR_COMPLEXITY_THRESHOLD" default:"10"`
	ProbeTimeout        time.Duration `yaml:"probe_timeout" mapstructure:"probe_timeout" envconfig:"VALIDATOR_PROBE_TIMEOUT" default:"1s"`
}
