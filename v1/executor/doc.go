// Package executor runs registered functions under a security level and a
// wall-clock timeout, turning every outcome into an ExecutionResult.
//
// Levels:
//
//   - Unrestricted: direct call on the caller's goroutine.
//   - Safe: the call runs on a worker goroutine raced against a timer.
//   - Sandbox: Safe, and the capability grants visible to the function
//     through its context.Context are stripped of filesystem, network,
//     process and environment access.
//
// A timed-out worker is detached rather than killed: Go cannot stop a
// goroutine from outside. Its context is cancelled, so functions that
// watch ctx.Done() return promptly; others run to completion in the
// background and their result is discarded.
//
// Example:
//
//	exec, _ := executor.New(executor.Config{SecurityLevel: "sandbox", Timeout: time.Second}, log)
//	res := exec.Execute(ctx, fn, executor.Options{}, "input")
//	if !res.Success {
//	    log.Warn("call failed", res.Err, nil)
//	}
package executor
