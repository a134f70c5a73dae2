package mapping

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidConfig is matched by *ConfigError.
	ErrInvalidConfig = errors.New("mapping: invalid configuration")

	// ErrInvalidCondition is returned for condition expressions outside the
	// supported forms.
	ErrInvalidCondition = errors.New("mapping: invalid condition")

	// ErrInvalidRule is returned for unknown or malformed validation rules.
	ErrInvalidRule = errors.New("mapping: invalid validation rule")

	// ErrRuleViolation is returned when a value fails a validation rule.
	ErrRuleViolation = errors.New("mapping: validation rule violated")
)

// ConfigError lists every problem found in a configuration. A configuration
// with problems is never used, not even in part.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	if len(e.Problems) == 1 {
		return "mapping: invalid configuration: " + e.Problems[0]
	}
	return fmt.Sprintf("mapping: invalid configuration (%d problems): %s",
		len(e.Problems), strings.Join(e.Problems, "; "))
}

// Is lets errors.Is(err, ErrInvalidConfig) match.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// IsConfigError reports whether err is an invalid configuration.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}
