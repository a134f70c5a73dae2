package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is wrapped by every validation failure returned by Load.
var ErrInvalid = errors.New("config: invalid configuration")

// ValidationError lists every problem found in a configuration.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalid, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// IsInvalid reports whether err is a configuration validation failure.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}
