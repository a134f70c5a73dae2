package transformer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"google.golang.org/protobuf/proto"

	"github.com/Aleph-Alpha/testdatagen/v1/logger"
	"github.com/Aleph-Alpha/testdatagen/v1/mapping"
	"github.com/Aleph-Alpha/testdatagen/v1/registry"
	"github.com/Aleph-Alpha/testdatagen/v1/schema"
)

// Logger defines the logging contract the transformer depends on.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
}

// Invoker calls a registered function. The default calls it directly;
// callers that need isolation route calls through an executor.
type Invoker func(ctx context.Context, fn *registry.RegisteredFunction, callCtx map[string]interface{}, args []interface{}) (interface{}, error)

func directInvoker(ctx context.Context, fn *registry.RegisteredFunction, callCtx map[string]interface{}, args []interface{}) (interface{}, error) {
	return fn.CallWithContext(ctx, callCtx, args...)
}

// Transformer builds protobuf messages from plain data using a mapping
// configuration and, for fields no mapping covers, same-named input keys.
//
// A Transformer holds no per-call state and may be used concurrently as
// long as the registry is not mutated during a call.
type Transformer struct {
	registry     *registry.Registry
	config       atomic.Pointer[mapping.Config]
	target       schema.MessageSchema
	autoOverride *bool
	invoke       Invoker
	callCtx      map[string]interface{}
	logger       Logger
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithTarget sets the message type used when Transform gets none.
func WithTarget(s schema.MessageSchema) Option {
	return func(t *Transformer) { t.target = s }
}

// WithAutoMapping overrides the document's auto_mapping setting.
func WithAutoMapping(enabled bool) Option {
	return func(t *Transformer) { t.autoOverride = &enabled }
}

// WithInvoker sets how registered functions are called.
func WithInvoker(inv Invoker) Option {
	return func(t *Transformer) {
		if inv != nil {
			t.invoke = inv
		}
	}
}

// WithCallContext sets base values injected into context-requiring functions.
func WithCallContext(values map[string]interface{}) Option {
	return func(t *Transformer) { t.callCtx = values }
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l Logger) Option {
	return func(t *Transformer) {
		if l != nil {
			t.logger = l
		}
	}
}

// New creates a Transformer over reg using cfg. A nil cfg maps nothing
// explicitly and relies on auto-mapping. cfg is validated again so
// programmatically built configurations get the same checks as parsed ones.
func New(reg *registry.Registry, cfg *mapping.Config, opts ...Option) (*Transformer, error) {
	if reg == nil {
		return nil, errors.New("transformer: registry is required")
	}
	t := &Transformer{
		registry: reg,
		invoke:   directInvoker,
		logger:   logger.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if err := t.SetConfig(cfg); err != nil {
		return nil, err
	}
	return t, nil
}

// Config returns the mapping configuration in use.
func (t *Transformer) Config() *mapping.Config {
	return t.config.Load()
}

// SetConfig validates cfg and swaps it in for subsequent calls; calls in
// flight finish with the configuration they started with. A nil cfg maps
// nothing explicitly.
func (t *Transformer) SetConfig(cfg *mapping.Config) error {
	if cfg == nil {
		cfg = &mapping.Config{AutoMapping: true}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	t.config.Store(cfg)
	return nil
}

func (t *Transformer) autoMapping(cfg *mapping.Config) bool {
	if t.autoOverride != nil {
		return *t.autoOverride
	}
	return cfg.AutoMapping
}

// Target returns the default target schema, nil if none was set.
func (t *Transformer) Target() schema.MessageSchema {
	return t.target
}

// Transform builds a message of target (or the default target when nil)
// from data and returns the protobuf message.
func (t *Transformer) Transform(ctx context.Context, data map[string]interface{}, target schema.MessageSchema) (proto.Message, error) {
	msg, err := t.TransformMessage(ctx, data, target)
	if err != nil {
		return nil, err
	}
	return msg.Proto(), nil
}

// TransformMessage is Transform returning the schema-level message.
//
// Mappings run in configuration order. A mapping whose target the schema
// lacks is skipped with a warning, a false condition skips it, and an
// absent value skips it unless the mapping is required. Fields left
// uncovered are then filled from same-named input keys when auto-mapping
// is on; failures there are logged at debug level and ignored.
func (t *Transformer) TransformMessage(ctx context.Context, data map[string]interface{}, target schema.MessageSchema) (schema.Message, error) {
	if target == nil {
		target = t.target
	}
	if target == nil {
		return nil, &TransformError{Operation: "resolve target", Kind: ErrNoTargetSchema}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	msg := target.New()
	if err := t.fill(ctx, msg, data); err != nil {
		return nil, err
	}
	return msg, nil
}

func (t *Transformer) fill(ctx context.Context, msg schema.Message, data map[string]interface{}) error {
	cfg := t.config.Load()
	auto := t.autoMapping(cfg)
	s := msg.Schema()
	covered := make(map[string]struct{}, len(cfg.Mappings))

	for i := range cfg.Mappings {
		m := &cfg.Mappings[i]
		f, ok := s.Field(m.Target)
		if !ok {
			t.logger.Warn("Mapped field not in schema; skipping", nil, map[string]interface{}{
				"field":  m.Target,
				"schema": s.FullName(),
			})
			continue
		}
		covered[f.Name] = struct{}{}

		if err := t.apply(ctx, msg, f, m, data, auto); err != nil {
			return err
		}
	}

	if auto {
		t.autoMap(ctx, msg, data, covered)
	}
	return nil
}

func (t *Transformer) apply(ctx context.Context, msg schema.Message, f schema.Field, m *mapping.FieldMapping, data map[string]interface{}, auto bool) error {
	if gate := m.Gate(); gate != nil && !gate.Eval(data) {
		t.logger.Debug("Mapping condition not met; skipping", nil, map[string]interface{}{
			"field":     m.Target,
			"condition": gate.String(),
		})
		return nil
	}

	call := t.callContext(msg, m, data)

	value, err := t.resolve(ctx, m, data, call)
	if err != nil {
		return err
	}
	if !value.IsPresent() {
		if m.Required {
			return &TransformError{
				Operation: "resolve",
				Field:     m.Target,
				Message:   fmt.Sprintf("no value at source %q and no default", m.Source),
				Kind:      ErrRequiredField,
			}
		}
		return nil
	}

	if m.Function != "" && (m.Kind == mapping.KindDirect || m.Kind == mapping.KindNested || m.Kind == mapping.KindRepeated) {
		if m.Kind == mapping.KindRepeated {
			value, err = t.applyEach(ctx, m, value, call)
		} else {
			value, err = t.callFunction(ctx, m, m.Function, value, m.Args, call)
		}
		if err != nil {
			return t.soften(m, err)
		}
		if !value.IsPresent() {
			return t.soften(m, &TransformError{
				Operation: "apply function",
				Field:     m.Target,
				Message:   fmt.Sprintf("%s returned no value", m.Function),
				Kind:      ErrRequiredField,
			})
		}
	}

	v := value.Value()
	for _, rule := range m.Rules() {
		if err := rule.Check(v); err != nil {
			return &TransformError{Operation: "validate", Field: m.Target, Kind: ErrFieldValidation, Cause: err}
		}
	}

	if err := t.write(ctx, msg, f, v, m.Nested, auto); err != nil {
		var nestedErr *TransformError
		if errors.As(err, &nestedErr) {
			return err
		}
		return t.soften(m, &TransformError{Operation: "write", Field: m.Target, Kind: ErrInvalidFieldType, Cause: err})
	}
	return nil
}

// resolve produces the mapping's value before any per-kind function is
// applied, falling back to the default.
func (t *Transformer) resolve(ctx context.Context, m *mapping.FieldMapping, data map[string]interface{}, call map[string]interface{}) (mapping.Resolved, error) {
	fallback := mapping.Absent
	if m.HasDefault {
		fallback = mapping.Of(m.Default)
	}

	source := mapping.Absent
	if m.Source != "" {
		source = mapping.Lookup(data, m.Source)
	}

	switch m.Kind {
	case mapping.KindComputed:
		out, err := t.callFunction(ctx, m, m.Function, source, m.Args, call)
		if err != nil {
			if softErr := t.soften(m, err); softErr != nil {
				return mapping.Absent, softErr
			}
			return fallback, nil
		}
		return out.Or(fallback), nil

	case mapping.KindConditional:
		for i := range m.Conditions {
			b := &m.Conditions[i]
			if gate := b.Gate(); gate == nil || !gate.Eval(data) {
				continue
			}
			switch {
			case b.HasValue:
				return mapping.Of(b.Value).Or(fallback), nil
			case b.Function != "":
				out, err := t.callFunction(ctx, m, b.Function, source, b.Args, call)
				if err != nil {
					if softErr := t.soften(m, err); softErr != nil {
						return mapping.Absent, softErr
					}
					return fallback, nil
				}
				return out.Or(fallback), nil
			default:
				return source.Or(fallback), nil
			}
		}
		return fallback, nil
	}

	return source.Or(fallback), nil
}

// callFunction resolves name and calls it. The input value is passed first
// when present and the signature has room for it; otherwise only args are
// passed, which lets generators such as faker.name ignore their source.
func (t *Transformer) callFunction(ctx context.Context, m *mapping.FieldMapping, name string, input mapping.Resolved, args []interface{}, call map[string]interface{}) (mapping.Resolved, error) {
	fn, ok := t.registry.GetFunction(name)
	if !ok {
		return mapping.Absent, &TransformError{
			Operation: "apply function",
			Field:     m.Target,
			Message:   fmt.Sprintf("function %q is not registered; known functions: %s", name, strings.Join(t.registry.Names(), ", ")),
			Kind:      ErrUnknownFunction,
		}
	}

	callArgs := args
	if v, present := input.Get(); present && fn.Signature.Accepts(len(args)+1) {
		callArgs = append([]interface{}{v}, args...)
	}

	out, err := t.invoke(ctx, fn, call, callArgs)
	if err != nil {
		return mapping.Absent, &TransformError{
			Operation: "apply function",
			Field:     m.Target,
			Message:   fn.FullName(),
			Kind:      ErrFunctionFailed,
			Cause:     err,
		}
	}
	return mapping.Of(out), nil
}

// applyEach applies the mapping's function to every element of a list value.
func (t *Transformer) applyEach(ctx context.Context, m *mapping.FieldMapping, value mapping.Resolved, call map[string]interface{}) (mapping.Resolved, error) {
	items := toList(value.Value())
	out := make([]interface{}, 0, len(items))
	for _, item := range items {
		r, err := t.callFunction(ctx, m, m.Function, mapping.Of(item), m.Args, call)
		if err != nil {
			return mapping.Absent, err
		}
		if v, ok := r.Get(); ok {
			out = append(out, v)
		}
	}
	return mapping.Present(out), nil
}

// soften turns a failure of an optional mapping into a logged skip. Unknown
// functions are configuration errors and always fail.
func (t *Transformer) soften(m *mapping.FieldMapping, err error) error {
	if m.Required || errors.Is(err, ErrUnknownFunction) {
		return err
	}
	t.logger.Warn("Optional mapping failed; skipping field", err, map[string]interface{}{"field": m.Target})
	return nil
}

func (t *Transformer) callContext(msg schema.Message, m *mapping.FieldMapping, data map[string]interface{}) map[string]interface{} {
	call := make(map[string]interface{}, len(t.callCtx)+4)
	for k, v := range t.callCtx {
		call[k] = v
	}
	call["field"] = m.Target
	call["source"] = m.Source
	call["schema"] = msg.Schema().FullName()
	call["data"] = data
	return call
}

func (t *Transformer) autoMap(ctx context.Context, msg schema.Message, data map[string]interface{}, covered map[string]struct{}) {
	for _, f := range msg.Schema().Fields() {
		if _, done := covered[f.Name]; done {
			continue
		}
		v, ok := data[f.Name]
		if !ok && f.JSONName != "" {
			v, ok = data[f.JSONName]
		}
		if !ok || v == nil {
			continue
		}
		if err := t.write(ctx, msg, f, v, nil, true); err != nil {
			t.logger.Debug("Auto-mapping skipped field", err, map[string]interface{}{
				"field":  f.Name,
				"schema": msg.Schema().FullName(),
			})
		}
	}
}

// child returns a transformer for the nested mappings of a message field.
// It shares the registry, invoker and logger and has its own configuration.
// The nested mappings were validated with their parent document.
func (t *Transformer) child(nested []mapping.FieldMapping, auto bool) *Transformer {
	c := &Transformer{
		registry: t.registry,
		invoke:   t.invoke,
		callCtx:  t.callCtx,
		logger:   t.logger,
	}
	c.config.Store(&mapping.Config{Mappings: nested, AutoMapping: auto})
	return c
}
