package callable

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"runtime/debug"
)

// Call carries the optional injected values for one invocation.
type Call struct {
	// RequiresCallContext makes Invoke pass CallContext as the
	// map[string]interface{} parameter.
	RequiresCallContext bool

	// CallContext is the data injected into context-requiring functions.
	// A nil map is replaced with an empty one.
	CallContext map[string]interface{}
}

// Invoke calls fn with args converted to its parameter types. Panics are
// recovered into *PanicError and a trailing error result is returned as err.
// The first non-error result is returned as the value.
func Invoke(ctx context.Context, fn interface{}, call Call, args ...interface{}) (result interface{}, err error) {
	sig, err := Inspect(fn, call.RequiresCallContext)
	if err != nil {
		return nil, err
	}
	if !sig.Accepts(len(args)) {
		return nil, fmt.Errorf("%w: %s called with %d argument(s)", ErrArgumentCount, sig, len(args))
	}
	if ctx == nil {
		ctx = context.Background()
	}

	in := make([]reflect.Value, 0, len(args)+2)
	if sig.AcceptsContext {
		in = append(in, reflect.ValueOf(&ctx).Elem())
	}
	if sig.AcceptsCallContext {
		callCtx := call.CallContext
		if callCtx == nil {
			callCtx = map[string]interface{}{}
		}
		in = append(in, reflect.ValueOf(callCtx))
	}
	for i, arg := range args {
		v, convErr := convertArg(arg, paramType(sig, i))
		if convErr != nil {
			return nil, fmt.Errorf("argument %d: %w", i, convErr)
		}
		in = append(in, v)
	}

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()

	out := reflect.ValueOf(fn).Call(in)
	return unpackResults(sig, out)
}

func paramType(sig Signature, i int) reflect.Type {
	last := len(sig.ParamTypes) - 1
	if sig.Variadic && i >= last {
		return sig.ParamTypes[last].Elem()
	}
	return sig.ParamTypes[i]
}

func unpackResults(sig Signature, out []reflect.Value) (interface{}, error) {
	if sig.ReturnsError {
		errVal := out[len(out)-1]
		if !errVal.IsNil() {
			return nil, errVal.Interface().(error)
		}
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0].Interface(), nil
}

func convertArg(arg interface{}, typ reflect.Type) (reflect.Value, error) {
	if arg == nil {
		switch typ.Kind() {
		case reflect.Interface, reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(typ), nil
		}
		return reflect.Value{}, fmt.Errorf("%w: nil cannot be used as %s", ErrArgumentType, typ)
	}

	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(typ) {
		return v, nil
	}

	switch {
	case isNumeric(v.Kind()) && isNumeric(typ.Kind()):
		return convertNumber(v, typ)
	case v.Kind() == typ.Kind() && v.Type().ConvertibleTo(typ):
		return v.Convert(typ), nil
	case v.Kind() == reflect.String && typ.Kind() == reflect.Slice && typ.Elem().Kind() == reflect.Uint8:
		return v.Convert(typ), nil
	case typ.Kind() == reflect.String && v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8:
		return v.Convert(typ), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: %s is not assignable to %s", ErrArgumentType, v.Type(), typ)
}

// convertNumber converts between numeric kinds, failing instead of
// wrapping or truncating when the value does not fit typ.
func convertNumber(v reflect.Value, typ reflect.Type) (reflect.Value, error) {
	out := reflect.New(typ).Elem()
	overflow := func() (reflect.Value, error) {
		return reflect.Value{}, fmt.Errorf("%w: %v overflows %s", ErrArgumentType, v.Interface(), typ)
	}

	switch {
	case isFloat(v.Kind()):
		f := v.Float()
		switch {
		case isFloat(typ.Kind()):
			if !math.IsInf(f, 0) && out.OverflowFloat(f) {
				return overflow()
			}
			out.SetFloat(f)
		case math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f):
			return reflect.Value{}, fmt.Errorf("%w: %v is not integral", ErrArgumentType, v.Interface())
		case isUnsigned(typ.Kind()):
			if f < 0 || f >= math.MaxUint64 || out.OverflowUint(uint64(f)) {
				return overflow()
			}
			out.SetUint(uint64(f))
		default:
			if f < math.MinInt64 || f >= math.MaxInt64 || out.OverflowInt(int64(f)) {
				return overflow()
			}
			out.SetInt(int64(f))
		}

	case isUnsigned(v.Kind()):
		u := v.Uint()
		switch {
		case isFloat(typ.Kind()):
			out.SetFloat(float64(u))
		case isUnsigned(typ.Kind()):
			if out.OverflowUint(u) {
				return overflow()
			}
			out.SetUint(u)
		default:
			if u > math.MaxInt64 || out.OverflowInt(int64(u)) {
				return overflow()
			}
			out.SetInt(int64(u))
		}

	default:
		i := v.Int()
		switch {
		case isFloat(typ.Kind()):
			out.SetFloat(float64(i))
		case isUnsigned(typ.Kind()):
			if i < 0 || out.OverflowUint(uint64(i)) {
				return overflow()
			}
			out.SetUint(uint64(i))
		default:
			if out.OverflowInt(i) {
				return overflow()
			}
			out.SetInt(i)
		}
	}
	return out, nil
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}
