package registry

import (
	"reflect"

	"github.com/Aleph-Alpha/testdatagen/v1/capability"
)

type registerOptions struct {
	inputTypes      []reflect.Type
	outputType      reflect.Type
	tags            []string
	isSafe          bool
	namespace       string
	aliases         []string
	overwrite       bool
	requiresContext bool
	version         string
	capabilities    []capability.Capability
}

// RegisterOption customises a single Register call.
type RegisterOption func(*registerOptions)

// WithInputTypes declares the types the function expects, positionally.
func WithInputTypes(types ...reflect.Type) RegisterOption {
	return func(o *registerOptions) { o.inputTypes = types }
}

// WithOutputType declares the type the function produces.
func WithOutputType(t reflect.Type) RegisterOption {
	return func(o *registerOptions) { o.outputType = t }
}

// WithTags attaches search tags.
func WithTags(tags ...string) RegisterOption {
	return func(o *registerOptions) { o.tags = append(o.tags, tags...) }
}

// WithSafe sets the safety flag. Functions are safe unless told otherwise.
func WithSafe(safe bool) RegisterOption {
	return func(o *registerOptions) { o.isSafe = safe }
}

// WithNamespace registers the function as namespace.name.
func WithNamespace(namespace string) RegisterOption {
	return func(o *registerOptions) { o.namespace = namespace }
}

// WithAliases adds alternative lookup names.
func WithAliases(aliases ...string) RegisterOption {
	return func(o *registerOptions) { o.aliases = append(o.aliases, aliases...) }
}

// WithOverwrite replaces an existing entry with the same full name.
func WithOverwrite() RegisterOption {
	return func(o *registerOptions) { o.overwrite = true }
}

// WithRequiresContext marks the function as taking a map[string]interface{}
// call context after its optional context.Context parameter.
func WithRequiresContext() RegisterOption {
	return func(o *registerOptions) { o.requiresContext = true }
}

// WithVersion sets the function version string.
func WithVersion(version string) RegisterOption {
	return func(o *registerOptions) { o.version = version }
}

// WithCapabilities declares the capabilities the function needs at run time.
func WithCapabilities(caps ...capability.Capability) RegisterOption {
	return func(o *registerOptions) { o.capabilities = append(o.capabilities, caps...) }
}
