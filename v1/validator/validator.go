package validator

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/Aleph-Alpha/testdatagen/v1/callable"
	"github.com/Aleph-Alpha/testdatagen/v1/capability"
	"github.com/Aleph-Alpha/testdatagen/v1/executor"
	"github.com/Aleph-Alpha/testdatagen/v1/logger"
	"github.com/Aleph-Alpha/testdatagen/v1/registry"
)

// Logger defines the logging contract the validator depends on.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
}

// Options describe the function under validation beyond its value.
type Options struct {
	// Name identifies the function in the cache and in log output.
	Name string

	// Description is the function's documentation. When empty, the doc
	// comment of its declaration is used if the source can be read.
	Description string

	// ExpectedInputs and ExpectedOutput are compared against the
	// function's parameter and result types at the standard level.
	ExpectedInputs []reflect.Type
	ExpectedOutput reflect.Type

	// RequiresContext marks the function as taking a call-context map.
	RequiresContext bool

	// Capabilities the function declares it needs.
	Capabilities capability.Set

	// AllowDangerous suppresses dangerous-code and dangerous-capability errors.
	AllowDangerous bool
}

type cacheKey struct {
	name           string
	level          Level
	ptr            uintptr
	allowDangerous bool
}

// Validator checks functions before they are trusted. Results are cached
// per function name, level, code pointer and AllowDangerous.
type Validator struct {
	level               Level
	allowDangerous      bool
	complexityThreshold int
	probeTimeout        time.Duration

	exec    *executor.Executor
	sources *sourceCache
	logger  Logger

	mu    sync.RWMutex
	cache map[cacheKey]ValidationResult
}

// New creates a Validator. Probes run through exec at the sandbox level;
// a nil exec gets a private one. A nil logger discards output.
func New(cfg Config, exec *executor.Executor, log Logger) (*Validator, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNop()
	}
	if exec == nil {
		if exec, err = executor.New(executor.Config{SecurityLevel: "sandbox"}, nil); err != nil {
			return nil, err
		}
	}
	v := &Validator{
		level:               level,
		allowDangerous:      cfg.AllowDangerous,
		complexityThreshold: cfg.ComplexityThreshold,
		probeTimeout:        cfg.ProbeTimeout,
		exec:                exec,
		sources:             newSourceCache(),
		logger:              log,
		cache:               make(map[cacheKey]ValidationResult),
	}
	if v.complexityThreshold <= 0 {
		v.complexityThreshold = DefaultComplexityThreshold
	}
	if v.probeTimeout <= 0 {
		v.probeTimeout = DefaultProbeTimeout
	}
	return v, nil
}

// Level is the configured default level.
func (v *Validator) Level() Level {
	return v.level
}

// AllowDangerous is the configured default for Options.AllowDangerous.
func (v *Validator) AllowDangerous() bool {
	return v.allowDangerous
}

// Validate checks fn at level. Validation never modifies fn; at the
// paranoid level fn is called with probe inputs.
func (v *Validator) Validate(ctx context.Context, fn interface{}, level Level, opts Options) ValidationResult {
	var key cacheKey
	cacheable := opts.Name != "" && callable.IsCallable(fn)
	if cacheable {
		key = cacheKey{
			name:           opts.Name,
			level:          level,
			ptr:            reflect.ValueOf(fn).Pointer(),
			allowDangerous: opts.AllowDangerous,
		}
		v.mu.RLock()
		cached, ok := v.cache[key]
		v.mu.RUnlock()
		if ok {
			return cached.clone()
		}
	}

	res := newResult(level)
	v.run(ctx, fn, level, opts, res)
	out := res.finish()

	if cacheable {
		v.mu.Lock()
		v.cache[key] = out.clone()
		v.mu.Unlock()
	}

	v.logger.Debug("Function validated", nil, map[string]interface{}{
		"function": opts.Name,
		"level":    level.String(),
		"valid":    out.Valid,
		"errors":   len(out.Errors),
		"warnings": len(out.Warnings),
	})
	return out
}

// ValidateRegistered validates a registry entry with its own metadata.
func (v *Validator) ValidateRegistered(ctx context.Context, fn *registry.RegisteredFunction, level Level, allowDangerous bool) ValidationResult {
	return v.Validate(ctx, fn.Func, level, Options{
		Name:            fn.FullName(),
		Description:     fn.Description,
		ExpectedInputs:  fn.InputTypes,
		ExpectedOutput:  fn.OutputType,
		RequiresContext: fn.RequiresContext,
		Capabilities:    fn.Capabilities,
		AllowDangerous:  allowDangerous,
	})
}

// ClearCache drops every cached result and parsed source file.
func (v *Validator) ClearCache() {
	v.mu.Lock()
	v.cache = make(map[cacheKey]ValidationResult)
	v.mu.Unlock()
	v.sources.clear()
}

// CacheSize is the number of cached results.
func (v *Validator) CacheSize() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.cache)
}

func (v *Validator) run(ctx context.Context, fn interface{}, level Level, opts Options, res *ValidationResult) {
	sig, ok := v.checkBasic(fn, opts, res)
	if !ok || level < Standard {
		return
	}
	v.checkStandard(sig, opts, res)
	if level < Strict {
		return
	}
	v.checkStrict(fn, opts, res)
	if level < Paranoid {
		return
	}
	v.checkParanoid(ctx, fn, sig, opts, res)
}

func (v *Validator) checkBasic(fn interface{}, opts Options, res *ValidationResult) (callable.Signature, bool) {
	if !callable.IsCallable(fn) {
		res.addError(fmt.Sprintf("value of type %T is not a function", fn))
		return callable.Signature{}, false
	}
	sig, err := callable.Inspect(fn, opts.RequiresContext)
	if err != nil {
		res.addError(err.Error())
		return callable.Signature{}, false
	}

	res.Metadata["signature"] = sig.String()
	res.Metadata["param_count"] = sig.NumParams()
	res.Metadata["required_params"] = sig.RequiredParams()
	res.Metadata["has_return"] = sig.HasResult()
	res.Metadata["accepts_context"] = sig.AcceptsContext

	description := strings.TrimSpace(opts.Description)
	if description == "" {
		if src, err := v.sources.locate(fn); err == nil {
			description = src.doc()
		}
	}
	if description == "" {
		res.addWarning("function has no description or doc comment (docstring)")
		res.suggest("describe what the function does so it can be found with SearchFunctions")
	}

	if sig.RequiredParams() == 0 {
		res.addWarning("function has no required parameters; mapping functions usually take the source value")
	}
	return sig, true
}

func (v *Validator) checkStandard(sig callable.Signature, opts Options, res *ValidationResult) {
	annotated := 0
	for _, t := range sig.ParamTypes {
		if !isEmptyInterface(t) {
			annotated++
		}
	}
	res.Metadata["annotated_params"] = annotated

	if sig.NumParams() > 0 && annotated == 0 {
		res.addWarning("no parameter has a concrete type; every parameter is interface{}")
		res.suggest("use concrete parameter types so arguments are converted before the call")
	}

	switch {
	case !sig.HasResult():
		res.addWarning("function returns no value")
	case isEmptyInterface(sig.ResultTypes[0]):
		res.addWarning("return type is unannotated (interface{})")
	}

	if len(opts.ExpectedInputs) > 0 {
		if len(opts.ExpectedInputs) != sig.NumParams() {
			res.addWarning(fmt.Sprintf("expected %d input type(s), function takes %d parameter(s)",
				len(opts.ExpectedInputs), sig.NumParams()))
		}
		for i, want := range opts.ExpectedInputs {
			if i >= sig.NumParams() || want == nil {
				break
			}
			if got := sig.ParamTypes[i]; !typesAgree(want, got) {
				res.addWarning(fmt.Sprintf("parameter %d: expected %s, function takes %s", i, want, got))
			}
		}
	}
	if opts.ExpectedOutput != nil && sig.HasResult() {
		if got := sig.ResultTypes[0]; !typesAgree(opts.ExpectedOutput, got) {
			res.addWarning(fmt.Sprintf("result: expected %s, function returns %s", opts.ExpectedOutput, got))
		}
	}
}

func (v *Validator) checkStrict(fn interface{}, opts Options, res *ValidationResult) {
	for _, c := range opts.Capabilities.List() {
		if !capability.IsKnown(c) {
			res.addWarning(fmt.Sprintf("unknown capability %q", c))
		}
	}
	if dangerous := opts.Capabilities.Dangerous(); len(dangerous) > 0 && !opts.AllowDangerous {
		for _, c := range dangerous {
			res.addError(fmt.Sprintf("function declares dangerous capability %q", c))
		}
	}

	src, err := v.sources.locate(fn)
	if err != nil {
		res.addWarning("source analysis skipped: " + err.Error())
		return
	}
	res.Metadata["source"] = fmt.Sprintf("%s:%d", src.path, src.line)

	rep := analyze(src)
	res.Metadata["imports"] = rep.imports
	res.Metadata["complexity"] = rep.complexity

	if !opts.AllowDangerous {
		for _, call := range rep.dangerousCalls {
			res.addError("calls dangerous builtin " + call)
		}
		for _, ref := range rep.dangerousAccess {
			res.addError("uses dangerous package " + ref)
		}
		if rep.goroutines > 0 {
			res.addError(fmt.Sprintf("starts %d goroutine(s)", rep.goroutines))
		}
	}
	if len(rep.dangerousAccess) > 0 && len(opts.Capabilities.Dangerous()) == 0 {
		res.suggest("declare the capabilities the function needs and obtain them with capability.Require")
	}

	if rep.complexity > v.complexityThreshold {
		res.addWarning(fmt.Sprintf("cyclomatic complexity %d exceeds %d", rep.complexity, v.complexityThreshold))
		res.suggest("split the function into smaller helpers")
	}
}

func isEmptyInterface(t reflect.Type) bool {
	return t.Kind() == reflect.Interface && t.NumMethod() == 0
}

func typesAgree(want, got reflect.Type) bool {
	if want == got {
		return true
	}
	if got.Kind() == reflect.Interface {
		return want.Implements(got)
	}
	return false
}
