package transformer

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTargetSchema is returned when Transform has no message type to build.
	ErrNoTargetSchema = errors.New("transformer: no target schema")

	// ErrRequiredField is returned when a required mapping resolves to nothing.
	ErrRequiredField = errors.New("transformer: required field missing")

	// ErrUnknownFunction is returned when a mapping names a function the
	// registry does not know.
	ErrUnknownFunction = errors.New("transformer: unknown function")

	// ErrFunctionFailed is returned when a function of a required mapping fails.
	ErrFunctionFailed = errors.New("transformer: function failed")

	// ErrFieldValidation is returned when a value breaks a validation rule.
	ErrFieldValidation = errors.New("transformer: field validation failed")

	// ErrInvalidFieldType is returned when a required value cannot be stored
	// in its field.
	ErrInvalidFieldType = errors.New("transformer: invalid value for field type")
)

// TransformError describes a failed transformation. Kind is one of the
// package sentinels and is matched by errors.Is; Cause is the underlying
// error, if any.
type TransformError struct {
	Operation string
	Field     string
	Message   string
	Kind      error
	Cause     error
}

func (e *TransformError) Error() string {
	msg := "transformer: " + e.Operation
	if e.Field != "" {
		msg += fmt.Sprintf(" field %q", e.Field)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *TransformError) Unwrap() error {
	return e.Cause
}

// Is matches the error's Kind.
func (e *TransformError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

// IsRequiredField reports whether err is a missing required field.
func IsRequiredField(err error) bool {
	return errors.Is(err, ErrRequiredField)
}

// IsUnknownFunction reports whether err names an unregistered function.
func IsUnknownFunction(err error) bool {
	return errors.Is(err, ErrUnknownFunction)
}
