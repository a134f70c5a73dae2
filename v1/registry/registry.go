package registry

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Aleph-Alpha/testdatagen/v1/callable"
	"github.com/Aleph-Alpha/testdatagen/v1/capability"
	"github.com/Aleph-Alpha/testdatagen/v1/logger"
)

// Logger defines the logging contract the registry depends on.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

type nameSet map[string]struct{}

// Registry is the directory of transformation functions. Every entry is
// reachable by its full name and by any of its aliases, and the category,
// tag and namespace indices always mirror the main table.
//
// Registry is safe for concurrent use.
type Registry struct {
	mu sync.RWMutex

	functions   map[string]*RegisteredFunction
	aliases     map[string]string
	byCategory  map[Category]nameSet
	byTag       map[string]nameSet
	byNamespace map[string]nameSet

	logger Logger
}

// New creates an empty registry. A nil logger discards output.
func New(log Logger) *Registry {
	if log == nil {
		log = logger.NewNop()
	}
	return &Registry{
		functions:   make(map[string]*RegisteredFunction),
		aliases:     make(map[string]string),
		byCategory:  make(map[Category]nameSet),
		byTag:       make(map[string]nameSet),
		byNamespace: make(map[string]nameSet),
		logger:      log,
	}
}

// Register adds fn under name. It returns false, after logging why, when the
// name or namespace is malformed, the category is unknown, fn is not a func
// (or lacks the call-context parameter it claims to need), or the full name
// is taken and WithOverwrite was not given.
//
// Example:
//
//	ok := reg.Register("upper", strings.ToUpper, "Upper-case a string",
//	    registry.CategoryString,
//	    registry.WithTags("case"),
//	    registry.WithAliases("to_upper"))
func (r *Registry) Register(name string, fn interface{}, description string, category Category, opts ...RegisterOption) bool {
	o := registerOptions{isSafe: true, version: DefaultVersion}
	for _, opt := range opts {
		opt(&o)
	}

	fields := map[string]interface{}{"function": name, "namespace": o.namespace}

	if !ValidName(name) {
		r.logger.Warn("Refusing to register function with invalid name", nil, fields)
		return false
	}
	if o.namespace != "" && !ValidName(o.namespace) {
		r.logger.Warn("Refusing to register function with invalid namespace", nil, fields)
		return false
	}
	if _, err := ParseCategory(string(category)); err != nil {
		r.logger.Warn("Refusing to register function with unknown category", err, fields)
		return false
	}
	if !callable.IsCallable(fn) {
		r.logger.Warn("Refusing to register non-callable value", nil, fields)
		return false
	}
	sig, err := callable.Inspect(fn, o.requiresContext)
	if err != nil {
		r.logger.Warn("Refusing to register function with unusable signature", err, fields)
		return false
	}

	full := fullName(o.namespace, name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.functions[full]; exists {
		if !o.overwrite {
			r.logger.Warn("Function already registered", nil, map[string]interface{}{"function": full})
			return false
		}
		r.removeLocked(full)
	}
	if target, isAlias := r.aliases[full]; isAlias {
		if !o.overwrite {
			r.logger.Warn("Name already used as an alias", nil, map[string]interface{}{"function": full, "alias_of": target})
			return false
		}
		r.dropAliasLocked(full)
	}

	tags := make(map[string]struct{}, len(o.tags))
	for _, t := range o.tags {
		if t = strings.TrimSpace(t); t != "" {
			tags[t] = struct{}{}
		}
	}

	entry := &RegisteredFunction{
		Name:            name,
		Namespace:       o.namespace,
		Func:            fn,
		Description:     description,
		Category:        category,
		InputTypes:      o.inputTypes,
		OutputType:      o.outputType,
		Tags:            tags,
		IsSafe:          o.isSafe,
		RequiresContext: o.requiresContext,
		Version:         o.version,
		Capabilities:    capability.NewSet(o.capabilities...),
		Signature:       sig,
	}

	r.functions[full] = entry
	index(r.byCategory, category, full)
	for t := range tags {
		index(r.byTag, t, full)
	}
	if o.namespace != "" {
		index(r.byNamespace, o.namespace, full)
	}

	for _, alias := range o.aliases {
		r.addAliasLocked(entry, alias, o.overwrite)
	}

	r.logger.Debug("Function registered", nil, map[string]interface{}{
		"function": full,
		"category": string(category),
		"aliases":  entry.Aliases,
	})
	return true
}

func (r *Registry) addAliasLocked(entry *RegisteredFunction, alias string, overwrite bool) {
	full := entry.FullName()
	fields := map[string]interface{}{"alias": alias, "function": full}

	if !ValidName(alias) {
		r.logger.Warn("Skipping invalid alias", nil, fields)
		return
	}
	if _, taken := r.functions[alias]; taken {
		r.logger.Warn("Skipping alias that shadows a registered function", nil, fields)
		return
	}
	if current, taken := r.aliases[alias]; taken && current != full {
		if !overwrite {
			r.logger.Warn("Skipping alias already pointing elsewhere", nil, fields)
			return
		}
		r.dropAliasLocked(alias)
	}
	r.aliases[alias] = full
	entry.Aliases = append(entry.Aliases, alias)
}

// Unregister removes name and every alias pointing to it. It returns false
// when name is not a registered full name.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.functions[name]; !ok {
		r.logger.Warn("Cannot unregister unknown function", nil, map[string]interface{}{"function": name})
		return false
	}
	r.removeLocked(name)
	r.logger.Debug("Function unregistered", nil, map[string]interface{}{"function": name})
	return true
}

func (r *Registry) removeLocked(full string) {
	entry := r.functions[full]
	delete(r.functions, full)

	unindex(r.byCategory, entry.Category, full)
	for t := range entry.Tags {
		unindex(r.byTag, t, full)
	}
	if entry.Namespace != "" {
		unindex(r.byNamespace, entry.Namespace, full)
	}
	for alias, target := range r.aliases {
		if target == full {
			delete(r.aliases, alias)
		}
	}
}

func (r *Registry) dropAliasLocked(alias string) {
	target, ok := r.aliases[alias]
	if !ok {
		return
	}
	delete(r.aliases, alias)
	if entry, ok := r.functions[target]; ok {
		kept := entry.Aliases[:0]
		for _, a := range entry.Aliases {
			if a != alias {
				kept = append(kept, a)
			}
		}
		entry.Aliases = kept
	}
}

// GetFunction resolves name as a full name first and then as an alias.
func (r *Registry) GetFunction(name string) (*RegisteredFunction, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookupLocked(name)
}

func (r *Registry) lookupLocked(name string) (*RegisteredFunction, bool) {
	if fn, ok := r.functions[name]; ok {
		return fn, true
	}
	if target, ok := r.aliases[name]; ok {
		fn, ok := r.functions[target]
		return fn, ok
	}
	return nil, false
}

// Resolve is GetFunction returning a *FunctionNotFoundError on a miss.
func (r *Registry) Resolve(name string) (*RegisteredFunction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if fn, ok := r.lookupLocked(name); ok {
		return fn, nil
	}
	return nil, &FunctionNotFoundError{Name: name, Available: r.namesLocked()}
}

// ExecuteFunction looks name up and calls it with args.
func (r *Registry) ExecuteFunction(ctx context.Context, name string, args ...interface{}) (interface{}, error) {
	return r.ExecuteFunctionWithContext(ctx, name, nil, args...)
}

// ExecuteFunctionWithContext looks name up and calls it with args, injecting
// callCtx when the function was registered WithRequiresContext. Failures of
// the call itself are returned as *ExecutionError.
func (r *Registry) ExecuteFunctionWithContext(ctx context.Context, name string, callCtx map[string]interface{}, args ...interface{}) (interface{}, error) {
	fn, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}

	result, err := fn.CallWithContext(ctx, callCtx, args...)
	if err != nil {
		r.logger.Debug("Function execution failed", err, map[string]interface{}{
			"function": fn.FullName(),
			"args":     len(args),
		})
		return nil, &ExecutionError{Function: fn.FullName(), ArgCount: len(args), Cause: err}
	}
	return result, nil
}

// ListFunctions returns the sorted full names matching every set field of filter.
func (r *Registry) ListFunctions(filter ListFilter) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	candidates := make(nameSet, len(r.functions))
	for name := range r.functions {
		candidates[name] = struct{}{}
	}
	if filter.Category != "" {
		candidates = intersect(candidates, r.byCategory[filter.Category])
	}
	if filter.Tag != "" {
		candidates = intersect(candidates, r.byTag[filter.Tag])
	}
	if filter.Namespace != "" {
		candidates = intersect(candidates, r.byNamespace[filter.Namespace])
	}

	out := make([]string, 0, len(candidates))
	for name := range candidates {
		if filter.SafeOnly && !r.functions[name].IsSafe {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// SearchFunctions matches query case-insensitively against names,
// descriptions and tags.
func (r *Registry) SearchFunctions(query string) []string {
	q := strings.ToLower(query)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for full, fn := range r.functions {
		if matches(fn, full, q) {
			out = append(out, full)
		}
	}
	sort.Strings(out)
	return out
}

func matches(fn *RegisteredFunction, full, q string) bool {
	if strings.Contains(strings.ToLower(full), q) || strings.Contains(strings.ToLower(fn.Description), q) {
		return true
	}
	for t := range fn.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// Names returns all registered full names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	out := make([]string, 0, len(r.functions))
	for name := range r.functions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Aliases returns a copy of the alias table.
func (r *Registry) Aliases() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.aliases))
	for a, t := range r.aliases {
		out[a] = t
	}
	return out
}

// Len is the number of registered functions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.functions)
}

// Stats summarises the registry contents.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Stats{
		Total:      len(r.functions),
		Aliases:    len(r.aliases),
		ByCategory: make(map[Category]int, len(r.byCategory)),
		Namespaces: make(map[string]int, len(r.byNamespace)),
		Tags:       len(r.byTag),
	}
	for _, fn := range r.functions {
		if fn.IsSafe {
			s.Safe++
		}
	}
	for c, names := range r.byCategory {
		s.ByCategory[c] = len(names)
	}
	for ns, names := range r.byNamespace {
		s.Namespaces[ns] = len(names)
	}
	return s
}

func index[K comparable](idx map[K]nameSet, key K, name string) {
	set, ok := idx[key]
	if !ok {
		set = make(nameSet)
		idx[key] = set
	}
	set[name] = struct{}{}
}

func unindex[K comparable](idx map[K]nameSet, key K, name string) {
	set, ok := idx[key]
	if !ok {
		return
	}
	delete(set, name)
	if len(set) == 0 {
		delete(idx, key)
	}
}

func intersect(a, b nameSet) nameSet {
	out := make(nameSet)
	for name := range a {
		if _, ok := b[name]; ok {
			out[name] = struct{}{}
		}
	}
	return out
}
