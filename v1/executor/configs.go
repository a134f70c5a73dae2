package executor

import "time"

// DefaultTimeout applies when neither the call nor the configuration sets one.
const DefaultTimeout = 30 * time.Second

// Config defines the executor's default posture.
type Config struct {
	// SecurityLevel is one of "unrestricted", "safe" or "sandbox".
	SecurityLevel string `yaml:"security_level" mapstructure:"security_level" envconfig:"EXECUTOR_SECURITY_LEVEL" default:"safe"`

	// Timeout bounds every call made at the safe and sandbox levels.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" envconfig:"EXECUTOR_TIMEOUT" default:"30s"`
}
