package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Aleph-Alpha/testdatagen/v1/callable"
	"github.com/Aleph-Alpha/testdatagen/v1/capability"
	"github.com/Aleph-Alpha/testdatagen/v1/logger"
)

// Logger defines the logging contract the executor depends on.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
}

// SecurityLevel selects how a call is isolated.
type SecurityLevel int

const (
	// Unrestricted calls the function on the caller's goroutine. A timeout is
	// only enforced when the call supplies one.
	Unrestricted SecurityLevel = iota

	// Safe runs the function on a worker goroutine raced against a timer.
	Safe

	// Sandbox is Safe with every dangerous capability removed from the
	// grants the function sees.
	Sandbox
)

func (l SecurityLevel) String() string {
	switch l {
	case Unrestricted:
		return "unrestricted"
	case Safe:
		return "safe"
	case Sandbox:
		return "sandbox"
	default:
		return fmt.Sprintf("SecurityLevel(%d)", int(l))
	}
}

// ParseSecurityLevel converts a level name, case-insensitively.
func ParseSecurityLevel(s string) (SecurityLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unrestricted":
		return Unrestricted, nil
	case "", "safe":
		return Safe, nil
	case "sandbox":
		return Sandbox, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSecurityLevel, s)
}

// Options tune one call.
type Options struct {
	// Timeout overrides the executor default. Zero means the default at the
	// safe and sandbox levels and no timeout at the unrestricted level.
	Timeout time.Duration

	// RequiresContext injects CallContext as the function's
	// map[string]interface{} parameter.
	RequiresContext bool
	CallContext     map[string]interface{}

	// Grants are the capabilities handed to the function through its
	// context.Context. Nil keeps whatever the caller's context carries.
	Grants capability.Set
}

// ExecutionResult is the outcome of one call.
type ExecutionResult struct {
	Success  bool
	Value    interface{}
	Err      error
	Duration time.Duration
}

// Executor invokes functions under a security level with a wall-clock bound.
type Executor struct {
	level   SecurityLevel
	timeout time.Duration
	logger  Logger
}

// New creates an Executor from cfg. A nil logger discards output.
func New(cfg Config, log Logger) (*Executor, error) {
	level, err := ParseSecurityLevel(cfg.SecurityLevel)
	if err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Executor{level: level, timeout: timeout, logger: log}, nil
}

// Level is the configured security level.
func (e *Executor) Level() SecurityLevel {
	return e.level
}

// Timeout is the configured default timeout.
func (e *Executor) Timeout() time.Duration {
	return e.timeout
}

// Execute calls fn at the configured security level.
func (e *Executor) Execute(ctx context.Context, fn interface{}, opts Options, args ...interface{}) ExecutionResult {
	return e.ExecuteAt(ctx, e.level, fn, opts, args...)
}

// ExecuteAt calls fn at level. It never panics: every failure, including a
// timeout, is reported in ExecutionResult.Err.
//
// When a timeout fires the function is abandoned, not stopped. Its context
// is cancelled, but a function that ignores its context keeps running in
// the background until it returns on its own.
func (e *Executor) ExecuteAt(ctx context.Context, level SecurityLevel, fn interface{}, opts Options, args ...interface{}) ExecutionResult {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	callCtx := ctx
	switch {
	case level == Sandbox:
		grants := opts.Grants
		if grants == nil {
			grants = capability.FromContext(ctx)
		}
		callCtx = capability.WithGrants(ctx, grants.Restricted())
	case opts.Grants != nil:
		callCtx = capability.WithGrants(ctx, opts.Grants)
	}

	call := callable.Call{RequiresCallContext: opts.RequiresContext, CallContext: opts.CallContext}

	timeout := opts.Timeout
	if timeout <= 0 && level != Unrestricted {
		timeout = e.timeout
	}

	var (
		value interface{}
		err   error
	)
	if timeout <= 0 {
		value, err = callable.Invoke(callCtx, fn, call, args...)
	} else {
		value, err = e.race(callCtx, timeout, fn, call, args)
	}

	res := ExecutionResult{
		Success:  err == nil,
		Value:    value,
		Err:      err,
		Duration: time.Since(start),
	}
	if err != nil {
		e.logger.Debug("Function execution failed", err, map[string]interface{}{
			"security_level": level.String(),
			"duration_ms":    res.Duration.Milliseconds(),
			"args":           len(args),
		})
	}
	return res
}

type outcome struct {
	value interface{}
	err   error
}

func (e *Executor) race(ctx context.Context, timeout time.Duration, fn interface{}, call callable.Call, args []interface{}) (interface{}, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Buffered so an abandoned worker can still deliver and exit.
	done := make(chan outcome, 1)
	go func() {
		v, err := callable.Invoke(ctx, fn, call, args...)
		done <- outcome{value: v, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case out := <-done:
		return out.value, out.err
	case <-timer.C:
		e.logger.Warn("Function execution timed out; worker detached", nil, map[string]interface{}{
			"timeout": timeout.String(),
		})
		return nil, &TimeoutError{Timeout: timeout}
	case <-ctx.Done():
		return nil, fmt.Errorf("executor: execution cancelled: %w", ctx.Err())
	}
}
