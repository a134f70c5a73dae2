package manager

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"google.golang.org/protobuf/proto"

	"github.com/Aleph-Alpha/testdatagen/v1/executor"
	"github.com/Aleph-Alpha/testdatagen/v1/faker"
	"github.com/Aleph-Alpha/testdatagen/v1/logger"
	"github.com/Aleph-Alpha/testdatagen/v1/mapping"
	"github.com/Aleph-Alpha/testdatagen/v1/metrics"
	"github.com/Aleph-Alpha/testdatagen/v1/registry"
	"github.com/Aleph-Alpha/testdatagen/v1/schema"
	"github.com/Aleph-Alpha/testdatagen/v1/tracer"
	"github.com/Aleph-Alpha/testdatagen/v1/transformer"
	"github.com/Aleph-Alpha/testdatagen/v1/validator"
)

// Logger defines the logging contract the manager depends on.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
}

// Dependencies are the components a Manager composes. Registry, Validator
// and Executor are required.
type Dependencies struct {
	Registry  *registry.Registry
	Validator *validator.Validator
	Executor  *executor.Executor

	// Transformer is used as is when set. Otherwise one is built from
	// Mapping and Target with function calls routed through the executor.
	Transformer *transformer.Transformer
	Mapping     *mapping.Config
	Target      schema.MessageSchema

	// Faker, when set, has its generators registered on New.
	Faker *faker.Generator

	// Recorder is shared with a transformer built elsewhere. Nil creates one.
	Recorder *Recorder

	Metrics metrics.MetricsCollector
	Tracer  *tracer.Tracer
	Logger  Logger
}

// Call is one entry of ExecuteBatch.
type Call struct {
	Function    string
	Args        []interface{}
	CallContext map[string]interface{}
}

// TransformResult is one entry of TransformBatch.
type TransformResult struct {
	Message proto.Message
	Err     error
}

// Statistics is a point-in-time summary of the manager.
type Statistics struct {
	Registry            registry.Stats `json:"registry" yaml:"registry"`
	Executions          int64          `json:"executions" yaml:"executions"`
	Failures            int64          `json:"failures" yaml:"failures"`
	AverageDuration     time.Duration  `json:"average_duration" yaml:"average_duration"`
	Transforms          int64          `json:"transforms" yaml:"transforms"`
	TransformFailures   int64          `json:"transform_failures" yaml:"transform_failures"`
	ValidationCacheSize int            `json:"validation_cache_size" yaml:"validation_cache_size"`
	FakerFunctions      []string       `json:"faker_functions,omitempty" yaml:"faker_functions,omitempty"`
}

// Manager is the single entry point for registering, validating and calling
// transformation functions and for transforming records into messages.
// It is safe for concurrent use.
type Manager struct {
	registry    *registry.Registry
	validator   *validator.Validator
	executor    *executor.Executor
	transformer *transformer.Transformer
	recorder    *Recorder
	metrics     metrics.MetricsCollector
	tracer      *tracer.Tracer
	logger      Logger

	level          validator.Level
	skipValidation bool
	fakerNames     []string

	transforms        atomic.Int64
	transformFailures atomic.Int64
}

// New creates a Manager from cfg and deps.
func New(cfg Config, deps Dependencies) (*Manager, error) {
	if deps.Registry == nil || deps.Validator == nil || deps.Executor == nil {
		return nil, errors.New("manager: registry, validator and executor are required")
	}

	level := deps.Validator.Level()
	if cfg.ValidationLevel != "" {
		l, err := validator.ParseLevel(cfg.ValidationLevel)
		if err != nil {
			return nil, err
		}
		level = l
	}

	log := deps.Logger
	if log == nil {
		log = logger.NewNop()
	}
	rec := deps.Recorder
	if rec == nil {
		rec = NewRecorder(deps.Executor, deps.Metrics)
	}

	m := &Manager{
		registry:       deps.Registry,
		validator:      deps.Validator,
		executor:       deps.Executor,
		transformer:    deps.Transformer,
		recorder:       rec,
		metrics:        deps.Metrics,
		tracer:         deps.Tracer,
		logger:         log,
		level:          level,
		skipValidation: cfg.SkipValidation,
	}

	if m.transformer == nil {
		opts := []transformer.Option{transformer.WithInvoker(rec.Invoke), transformer.WithLogger(log)}
		if deps.Target != nil {
			opts = append(opts, transformer.WithTarget(deps.Target))
		}
		t, err := transformer.New(deps.Registry, deps.Mapping, opts...)
		if err != nil {
			return nil, err
		}
		m.transformer = t
	}

	if deps.Faker != nil {
		m.fakerNames = deps.Faker.Register(deps.Registry)
	}
	m.updateGauge()
	return m, nil
}

// Registry returns the underlying function registry.
func (m *Manager) Registry() *registry.Registry {
	return m.registry
}

// Transformer returns the transformer used by Transform.
func (m *Manager) Transformer() *transformer.Transformer {
	return m.transformer
}

// RegisterFunction validates fn at the configured level and registers it.
// Warnings are logged and returned; any validation error refuses the
// function with a *ValidationError and leaves the registry untouched.
func (m *Manager) RegisterFunction(ctx context.Context, name string, fn interface{}, description string, category registry.Category, opts ...registry.RegisterOption) (validator.ValidationResult, error) {
	ctx, span := m.tracer.StartSpan(ctx, "manager.RegisterFunction", map[string]interface{}{
		"function": name,
		"category": string(category),
	})
	defer span.End()

	// A scratch registry applies the same name, category and option rules
	// and yields the entry metadata the validator needs.
	scratch := registry.New(nil)
	if !scratch.Register(name, fn, description, category, opts...) {
		err := fmt.Errorf("%w: %q", ErrRegistrationRejected, name)
		tracer.RecordErrorOnSpan(span, err)
		return validator.ValidationResult{}, err
	}
	entry, _ := scratch.Resolve(scratch.Names()[0])

	var res validator.ValidationResult
	if !m.skipValidation {
		res = m.validator.ValidateRegistered(ctx, entry, m.level, m.validator.AllowDangerous())
		m.observeValidation(res)
		if !res.Valid {
			err := &ValidationError{Function: entry.FullName(), Result: res}
			tracer.RecordErrorOnSpan(span, err)
			m.logger.Warn("Function refused", err, map[string]interface{}{
				"function": entry.FullName(),
				"level":    m.level.String(),
			})
			return res, err
		}
		if len(res.Warnings) > 0 {
			m.logger.Debug("Function validated with warnings", nil, map[string]interface{}{
				"function": entry.FullName(),
				"warnings": res.Warnings,
			})
		}
	}

	if !m.registry.Register(name, fn, description, category, opts...) {
		err := fmt.Errorf("%w: %q", ErrRegistrationRejected, entry.FullName())
		tracer.RecordErrorOnSpan(span, err)
		return res, err
	}
	m.updateGauge()
	m.logger.Info("Function registered", nil, map[string]interface{}{
		"function": entry.FullName(),
		"category": string(category),
	})
	return res, nil
}

// UnregisterFunction removes name from the registry.
func (m *Manager) UnregisterFunction(name string) bool {
	ok := m.registry.Unregister(name)
	if ok {
		m.updateGauge()
	}
	return ok
}

// ValidateFunction validates the registered function name at level.
func (m *Manager) ValidateFunction(ctx context.Context, name string, level validator.Level) (validator.ValidationResult, error) {
	ctx, span := m.tracer.StartSpan(ctx, "manager.ValidateFunction", map[string]interface{}{
		"function": name,
		"level":    level.String(),
	})
	defer span.End()

	fn, err := m.registry.Resolve(name)
	if err != nil {
		tracer.RecordErrorOnSpan(span, err)
		return validator.ValidationResult{}, err
	}
	res := m.validator.ValidateRegistered(ctx, fn, level, m.validator.AllowDangerous())
	m.observeValidation(res)
	return res, nil
}

// ExecuteFunction calls name through the executor. It never panics; an
// unknown name or any failure of the call is reported in the result.
func (m *Manager) ExecuteFunction(ctx context.Context, name string, args ...interface{}) executor.ExecutionResult {
	return m.ExecuteFunctionWithContext(ctx, name, nil, args...)
}

// ExecuteFunctionWithContext is ExecuteFunction with a call context for
// context-requiring functions.
func (m *Manager) ExecuteFunctionWithContext(ctx context.Context, name string, callCtx map[string]interface{}, args ...interface{}) executor.ExecutionResult {
	ctx, span := m.tracer.StartSpan(ctx, "manager.ExecuteFunction", map[string]interface{}{
		"function": name,
		"args":     len(args),
	})
	defer span.End()

	fn, err := m.registry.Resolve(name)
	if err != nil {
		tracer.RecordErrorOnSpan(span, err)
		return executor.ExecutionResult{Err: err}
	}
	res := m.recorder.Run(ctx, fn, callCtx, args)
	if res.Err != nil {
		tracer.RecordErrorOnSpan(span, res.Err)
	}
	return res
}

// ExecuteBatch runs calls one after another and returns one result per
// call. Once ctx is done the remaining calls fail with its error.
func (m *Manager) ExecuteBatch(ctx context.Context, calls []Call) []executor.ExecutionResult {
	ctx, span := m.tracer.StartSpan(ctx, "manager.ExecuteBatch", map[string]interface{}{
		"calls": len(calls),
	})
	defer span.End()

	out := make([]executor.ExecutionResult, len(calls))
	for i, c := range calls {
		if err := ctx.Err(); err != nil {
			out[i] = executor.ExecutionResult{Err: err}
			continue
		}
		out[i] = m.ExecuteFunctionWithContext(ctx, c.Function, c.CallContext, c.Args...)
	}
	return out
}

// Transform builds a message of target (the transformer's default when nil) from data.
func (m *Manager) Transform(ctx context.Context, data map[string]interface{}, target schema.MessageSchema) (proto.Message, error) {
	name := targetName(target, m.transformer.Target())
	ctx, span := m.tracer.StartSpan(ctx, "manager.Transform", map[string]interface{}{
		"schema": name,
		"fields": len(data),
	})
	defer span.End()

	start := time.Now()
	msg, err := m.transformer.Transform(ctx, data, target)
	m.transforms.Add(1)
	if err != nil {
		m.transformFailures.Add(1)
		tracer.RecordErrorOnSpan(span, err)
	}
	if m.metrics != nil {
		m.metrics.ObserveTransform(name, err == nil, time.Since(start))
	}
	return msg, err
}

// TransformBatch transforms records one after another. A failing record
// does not stop the batch.
func (m *Manager) TransformBatch(ctx context.Context, records []map[string]interface{}, target schema.MessageSchema) []TransformResult {
	ctx, span := m.tracer.StartSpan(ctx, "manager.TransformBatch", map[string]interface{}{
		"records": len(records),
	})
	defer span.End()

	out := make([]TransformResult, len(records))
	failed := 0
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			out[i] = TransformResult{Err: err}
			failed++
			continue
		}
		msg, err := m.Transform(ctx, rec, target)
		out[i] = TransformResult{Message: msg, Err: err}
		if err != nil {
			failed++
		}
	}
	tracer.SetAttributes(span, map[string]interface{}{"failed": failed})
	return out
}

// Statistics summarises registry contents and call counters.
func (m *Manager) Statistics() Statistics {
	executions, failures, avg := m.recorder.snapshot()
	return Statistics{
		Registry:            m.registry.Stats(),
		Executions:          executions,
		Failures:            failures,
		AverageDuration:     avg,
		Transforms:          m.transforms.Load(),
		TransformFailures:   m.transformFailures.Load(),
		ValidationCacheSize: m.validator.CacheSize(),
		FakerFunctions:      append([]string(nil), m.fakerNames...),
	}
}

func (m *Manager) observeValidation(res validator.ValidationResult) {
	if m.metrics != nil {
		m.metrics.ObserveValidation(res.Level.String(), res.Valid)
	}
}

func (m *Manager) updateGauge() {
	if m.metrics != nil {
		m.metrics.SetRegisteredFunctions(m.registry.Len())
	}
}

func targetName(target, fallback schema.MessageSchema) string {
	switch {
	case target != nil:
		return target.FullName()
	case fallback != nil:
		return fallback.FullName()
	}
	return "unknown"
}
