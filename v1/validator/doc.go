// Package validator decides whether a function is well-formed and safe
// enough to be registered and executed.
//
// Validation levels are cumulative:
//
//   - Basic: the value is a function; it has a description or doc comment;
//     it takes at least one required parameter.
//   - Standard: parameters and the first result have concrete types, and
//     match the input and output types the caller expects.
//   - Strict: the function's source is located through the runtime symbol
//     table and parsed with go/parser. Calls to panic, recover, print and
//     println, selectors on packages such as os, net, syscall, unsafe or
//     reflect, and go statements are errors unless dangerous code is
//     allowed; so are declared filesystem, network, process or environment
//     capabilities. Cyclomatic complexity above the threshold is a warning.
//   - Paranoid: the function is called, sandboxed and with a timeout, once
//     for each probe input (nil, 0, 1, -1, "", "test", empty slice, empty
//     map, true, false). Failing every probe is a warning.
//
// Only errors affect ValidationResult.Valid. When the source file cannot
// be read (binaries built with -trimpath, compiler-generated wrappers) the
// strict level reports a warning and relies on declared capabilities.
//
// Example:
//
//	v, _ := validator.New(validator.Config{Level: "strict"}, exec, log)
//	res := v.Validate(ctx, fn, validator.Strict, validator.Options{Name: "slugify"})
//	if !res.Valid {
//	    return fmt.Errorf("refusing slugify: %s", strings.Join(res.Errors, "; "))
//	}
package validator
