package executor

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTimeout is matched by *TimeoutError.
	ErrTimeout = errors.New("executor: execution timed out")

	// ErrInvalidSecurityLevel is returned for unknown security level names.
	ErrInvalidSecurityLevel = errors.New("executor: invalid security level")
)

// TimeoutError reports a call abandoned after Timeout.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("executor: execution timed out after %s", e.Timeout)
}

// Is lets errors.Is(err, ErrTimeout) match.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// IsTimeout reports whether err is a timeout raised by the executor.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
