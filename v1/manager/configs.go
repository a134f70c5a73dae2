package manager

// Config defines how the manager admits functions.
type Config struct {
	// ValidationLevel applies to RegisterFunction. Empty uses the
	// validator's configured level.
	ValidationLevel string `yaml:"validation_level" mapstructure:"validation_level" envconfig:"MANAGER_VALIDATION_LEVEL"`

	// SkipValidation registers functions without validating them first.
	SkipValidation bool `yaml:"skip_validation" mapstructure:"skip_validation" envconfig:"MANAGER_SKIP_VALIDATION"`
}
