package registry

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"sort"

	"github.com/Aleph-Alpha/testdatagen/v1/callable"
	"github.com/Aleph-Alpha/testdatagen/v1/capability"
)

// Category groups registered functions by purpose.
type Category string

const (
	CategoryString     Category = "string"
	CategoryNumeric    Category = "numeric"
	CategoryDateTime   Category = "date_time"
	CategoryBoolean    Category = "boolean"
	CategoryCollection Category = "collection"
	CategoryFaker      Category = "faker"
	CategoryCustom     Category = "custom"
	CategoryValidation Category = "validation"
	CategoryFormatting Category = "formatting"
	CategoryProtobuf   Category = "protobuf"
)

var categories = []Category{
	CategoryString, CategoryNumeric, CategoryDateTime, CategoryBoolean, CategoryCollection,
	CategoryFaker, CategoryCustom, CategoryValidation, CategoryFormatting, CategoryProtobuf,
}

// Categories returns every known category.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// ParseCategory converts s to a Category.
func ParseCategory(s string) (Category, error) {
	for _, c := range categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("registry: unknown category %q", s)
}

// DefaultVersion is assigned when a registration does not set one.
const DefaultVersion = "1.0.0"

var namePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*$`)

// ValidName reports whether name can be used as a function name, namespace or alias.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// RegisteredFunction is a registry entry. Treat values returned by the
// registry as read-only.
type RegisteredFunction struct {
	Name            string
	Namespace       string
	Func            interface{}
	Description     string
	Category        Category
	InputTypes      []reflect.Type
	OutputType      reflect.Type
	Tags            map[string]struct{}
	IsSafe          bool
	RequiresContext bool
	Version         string
	Aliases         []string
	Capabilities    capability.Set
	Signature       callable.Signature
}

// FullName is namespace.name for namespaced functions and name otherwise.
func (f *RegisteredFunction) FullName() string {
	return fullName(f.Namespace, f.Name)
}

// TagList returns the tags sorted.
func (f *RegisteredFunction) TagList() []string {
	out := make([]string, 0, len(f.Tags))
	for t := range f.Tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Call invokes the function exactly like calling Func directly with args,
// threading ctx through when the function accepts one.
func (f *RegisteredFunction) Call(ctx context.Context, args ...interface{}) (interface{}, error) {
	return callable.Invoke(ctx, f.Func, callable.Call{RequiresCallContext: f.RequiresContext}, args...)
}

// CallWithContext is Call with the call context injected for context-requiring functions.
func (f *RegisteredFunction) CallWithContext(ctx context.Context, callCtx map[string]interface{}, args ...interface{}) (interface{}, error) {
	return callable.Invoke(ctx, f.Func, callable.Call{RequiresCallContext: f.RequiresContext, CallContext: callCtx}, args...)
}

func fullName(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}

// ListFilter narrows ListFunctions. Zero-valued fields do not filter.
type ListFilter struct {
	Category  Category
	Tag       string
	Namespace string
	SafeOnly  bool
}

// Stats is a point-in-time summary of the registry.
type Stats struct {
	Total      int              `json:"total" yaml:"total"`
	Safe       int              `json:"safe" yaml:"safe"`
	Aliases    int              `json:"aliases" yaml:"aliases"`
	ByCategory map[Category]int `json:"by_category" yaml:"by_category"`
	Namespaces map[string]int   `json:"namespaces" yaml:"namespaces"`
	Tags       int              `json:"tags" yaml:"tags"`
}
