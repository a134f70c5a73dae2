package manager

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Aleph-Alpha/testdatagen/v1/validator"
)

var (
	// ErrValidationFailed is returned when a function fails validation at registration.
	ErrValidationFailed = errors.New("manager: function validation failed")

	// ErrRegistrationRejected is returned when the registry refuses a function.
	ErrRegistrationRejected = errors.New("manager: registration rejected")
)

// ValidationError carries the result that made RegisterFunction refuse a function.
type ValidationError struct {
	Function string
	Result   validator.ValidationResult
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("manager: function %q failed %s validation: %s",
		e.Function, e.Result.Level, strings.Join(e.Result.Errors, "; "))
}

// Is matches ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// IsValidationFailed reports whether err is a registration validation failure.
func IsValidationFailed(err error) bool {
	return errors.Is(err, ErrValidationFailed)
}
