package schema

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownField is returned when a message has no field with the given name.
	ErrUnknownField = errors.New("schema: unknown field")

	// ErrFieldShape is returned when an operation does not fit the field,
	// e.g. Append on a singular field.
	ErrFieldShape = errors.New("schema: operation does not match field shape")

	// ErrConversion is matched by *ConversionError.
	ErrConversion = errors.New("schema: value conversion failed")

	// ErrMessageNotFound is returned by Catalog lookups.
	ErrMessageNotFound = errors.New("schema: message not found")
)

// ConversionError reports a value that cannot be stored in a field.
type ConversionError struct {
	Field  string
	Target string
	Value  interface{}
	Reason string
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("schema: cannot store %T in field %q (%s)", e.Value, e.Field, e.Target)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// Is lets errors.Is(err, ErrConversion) match.
func (e *ConversionError) Is(target error) bool {
	return target == ErrConversion
}

// IsConversionError reports whether err is a failed value conversion.
func IsConversionError(err error) bool {
	return errors.Is(err, ErrConversion)
}

// IsUnknownField reports whether err names a field the message does not have.
func IsUnknownField(err error) bool {
	return errors.Is(err, ErrUnknownField)
}
