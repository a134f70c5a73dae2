package callable

import (
	"errors"
	"fmt"
)

var (
	// ErrNotCallable is returned when the value handed over is not a func.
	ErrNotCallable = errors.New("callable: value is not a function")

	// ErrArgumentCount is returned when too few or too many arguments are supplied.
	ErrArgumentCount = errors.New("callable: wrong number of arguments")

	// ErrArgumentType is returned when an argument cannot be converted to the parameter type.
	ErrArgumentType = errors.New("callable: argument type mismatch")

	// ErrCallContext is returned when a context-requiring function lacks a map[string]any parameter.
	ErrCallContext = errors.New("callable: function does not accept a call context")

	// ErrPanic is matched by PanicError.
	ErrPanic = errors.New("callable: function panicked")
)

// PanicError carries the value recovered from a panicking function.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("callable: function panicked: %v", e.Value)
}

// Is lets errors.Is(err, ErrPanic) match.
func (e *PanicError) Is(target error) bool {
	return target == ErrPanic
}

// IsPanic reports whether err came from a recovered panic.
func IsPanic(err error) bool {
	return errors.Is(err, ErrPanic)
}
