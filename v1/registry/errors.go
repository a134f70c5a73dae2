package registry

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFunctionNotFound is matched by *FunctionNotFoundError.
	ErrFunctionNotFound = errors.New("registry: function not found")

	// ErrExecutionFailed is matched by *ExecutionError.
	ErrExecutionFailed = errors.New("registry: function execution failed")
)

// FunctionNotFoundError is returned when a name resolves neither to a
// function nor to an alias. Available lists every registered full name.
type FunctionNotFoundError struct {
	Name      string
	Available []string
}

func (e *FunctionNotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("registry: function %q not found; no functions are registered", e.Name)
	}
	return fmt.Sprintf("registry: function %q not found; available functions: %s",
		e.Name, strings.Join(e.Available, ", "))
}

// Is lets errors.Is(err, ErrFunctionNotFound) match.
func (e *FunctionNotFoundError) Is(target error) bool {
	return target == ErrFunctionNotFound
}

// ExecutionError wraps any failure raised by a registered function.
type ExecutionError struct {
	Function string
	ArgCount int
	Cause    error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("registry: executing %q with %d argument(s) failed: %v", e.Function, e.ArgCount, e.Cause)
}

// Unwrap returns the error raised by the function.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, ErrExecutionFailed) match.
func (e *ExecutionError) Is(target error) bool {
	return target == ErrExecutionFailed
}

// IsFunctionNotFound reports whether err is a lookup failure.
func IsFunctionNotFound(err error) bool {
	return errors.Is(err, ErrFunctionNotFound)
}

// IsExecutionFailed reports whether err wraps a failing function call.
func IsExecutionFailed(err error) bool {
	return errors.Is(err, ErrExecutionFailed)
}
