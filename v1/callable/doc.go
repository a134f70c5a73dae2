// Package callable inspects and invokes arbitrary Go func values through
// reflection. It is the layer the registry, the validator and the executor
// share, so every function is called with the same conventions.
//
// Calling convention:
//   - an optional leading context.Context parameter receives the call's
//     context (deadline, capability grants);
//   - when the function is registered as requiring context, the next
//     parameter must be map[string]interface{} and receives the call
//     context data;
//   - remaining parameters are user arguments, the last may be variadic;
//   - results may end with an error, which is returned as the call error.
//
// # Inspecting a function
//
//	sig, err := callable.Inspect(strings.ToUpper, false)
//	if err != nil {
//		return err // ErrNotCallable or ErrCallContext
//	}
//	sig.NumParams()      // 1
//	sig.RequiredParams() // 1
//	sig.String()         // "func(string) string"
//
// # Invoking a function
//
//	out, err := callable.Invoke(ctx, func(n int8) int8 { return n * 2 }, callable.Call{}, 21)
//
// Arguments are converted to the parameter types. Numeric conversions are
// range checked: Invoke(ctx, func(uint8) uint8, ..., -1) fails with
// ErrArgumentType instead of wrapping to 255, and a float argument must be
// integral to reach an integer parameter. Strings and byte slices convert
// into each other; nil is accepted for interface, pointer, map, slice, func
// and chan parameters.
//
// # Errors
//
//   - ErrArgumentCount: too few or too many user arguments
//   - ErrArgumentType: an argument cannot be converted, or does not fit
//   - *PanicError (matches ErrPanic): the function panicked; the recovered
//     value and stack are kept
//
// A trailing error result is returned unchanged.
//
// # Thread Safety
//
// Inspect and Invoke hold no state and may be called concurrently. Whether
// the invoked function is safe to call concurrently is up to the function.
package callable
