package callable

import (
	"context"
	"fmt"
	"reflect"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
	callCtxType = reflect.TypeOf(map[string]interface{}{})
)

// Signature describes a function's user-visible shape.
type Signature struct {
	// ParamTypes are the user parameters; injected context parameters are excluded.
	// For a variadic function the last entry is the slice type.
	ParamTypes []reflect.Type

	// ResultTypes are the non-error results.
	ResultTypes []reflect.Type

	Variadic           bool
	AcceptsContext     bool
	AcceptsCallContext bool
	ReturnsError       bool
}

// NumParams is the number of user parameters.
func (s Signature) NumParams() int {
	return len(s.ParamTypes)
}

// RequiredParams is the number of user parameters a caller must supply.
func (s Signature) RequiredParams() int {
	if s.Variadic {
		return len(s.ParamTypes) - 1
	}
	return len(s.ParamTypes)
}

// HasResult reports whether the function produces a value besides an error.
func (s Signature) HasResult() bool {
	return len(s.ResultTypes) > 0
}

// Accepts reports whether n user arguments satisfy the signature.
func (s Signature) Accepts(n int) bool {
	if n < s.RequiredParams() {
		return false
	}
	return s.Variadic || n <= len(s.ParamTypes)
}

// String renders the signature the way a Go declaration would read.
func (s Signature) String() string {
	params := ""
	for i, p := range s.ParamTypes {
		if i > 0 {
			params += ", "
		}
		if s.Variadic && i == len(s.ParamTypes)-1 {
			params += "..." + p.Elem().String()
			continue
		}
		params += p.String()
	}
	results := ""
	for i, r := range s.ResultTypes {
		if i > 0 {
			results += ", "
		}
		results += r.String()
	}
	if s.ReturnsError {
		if results != "" {
			results += ", "
		}
		results += "error"
	}
	if len(s.ResultTypes)+boolToInt(s.ReturnsError) > 1 {
		results = "(" + results + ")"
	}
	if results != "" {
		results = " " + results
	}
	return fmt.Sprintf("func(%s)%s", params, results)
}

// Inspect derives the Signature of fn. When requiresCallContext is true the
// parameter following an optional context.Context must be map[string]interface{}.
func Inspect(fn interface{}, requiresCallContext bool) (Signature, error) {
	if fn == nil {
		return Signature{}, ErrNotCallable
	}
	t := reflect.TypeOf(fn)
	if t.Kind() != reflect.Func {
		return Signature{}, fmt.Errorf("%w: got %s", ErrNotCallable, t.Kind())
	}

	sig := Signature{Variadic: t.IsVariadic()}
	i := 0
	if t.NumIn() > 0 && t.In(0) == contextType {
		sig.AcceptsContext = true
		i++
	}
	if requiresCallContext {
		if i >= t.NumIn() || t.In(i) != callCtxType {
			return Signature{}, ErrCallContext
		}
		sig.AcceptsCallContext = true
		i++
	}
	for ; i < t.NumIn(); i++ {
		sig.ParamTypes = append(sig.ParamTypes, t.In(i))
	}

	for o := 0; o < t.NumOut(); o++ {
		out := t.Out(o)
		if o == t.NumOut()-1 && out == errorType {
			sig.ReturnsError = true
			continue
		}
		sig.ResultTypes = append(sig.ResultTypes, out)
	}
	return sig, nil
}

// IsCallable reports whether fn is a non-nil func value.
func IsCallable(fn interface{}) bool {
	if fn == nil {
		return false
	}
	v := reflect.ValueOf(fn)
	return v.Kind() == reflect.Func && !v.IsNil()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
