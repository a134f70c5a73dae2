package mapping

// Kind is how a mapping derives its value.
type Kind string

const (
	// KindDirect copies a source value, optionally through a function.
	KindDirect Kind = "direct"

	// KindComputed calls a function, passing the source value when one is set.
	KindComputed Kind = "computed"

	// KindConditional picks the first branch whose condition holds.
	KindConditional Kind = "conditional"

	// KindNested builds a message field from a source object using the
	// mapping's nested mappings.
	KindNested Kind = "nested"

	// KindRepeated fills a repeated field from a source list, applying the
	// function and nested mappings to each element.
	KindRepeated Kind = "repeated"
)

var kinds = map[Kind]struct{}{
	KindDirect:      {},
	KindComputed:    {},
	KindConditional: {},
	KindNested:      {},
	KindRepeated:    {},
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := kinds[k]
	return ok
}

// Config is a parsed mapping document.
type Config struct {
	// TargetSchema optionally names the message the document maps onto.
	TargetSchema string

	// Mappings are applied in order.
	Mappings []FieldMapping

	// AutoMapping enables copying same-named input keys into fields no
	// mapping covers.
	AutoMapping bool
}

// FieldMapping describes how one target field gets its value.
type FieldMapping struct {
	Target string
	Source string
	Kind   Kind

	// Function names a registered function; Args are passed after the
	// source value.
	Function string
	Args     []interface{}

	Default    interface{}
	HasDefault bool
	Required   bool

	// Condition gates the whole mapping.
	Condition string

	// Validation rules applied to the final value.
	Validation []string

	// Conditions are the branches of a conditional mapping.
	Conditions []Branch

	// Nested mappings apply to the message built by nested and repeated mappings.
	Nested []FieldMapping

	cond  *Condition
	rules []Rule
}

// Gate returns the compiled Condition, or nil when the mapping has none.
// It is populated by Config.Validate.
func (m *FieldMapping) Gate() *Condition {
	return m.cond
}

// Rules returns the compiled validation rules. They are populated by
// Config.Validate.
func (m *FieldMapping) Rules() []Rule {
	return m.rules
}

// Branch is one arm of a conditional mapping. It yields either a static
// Value or the result of Function.
type Branch struct {
	When     string
	Value    interface{}
	HasValue bool
	Function string
	Args     []interface{}

	cond *Condition
}

// Gate returns the compiled condition of the branch.
func (b *Branch) Gate() *Condition {
	return b.cond
}

// Resolved is the outcome of resolving a value: either present with a
// value or absent.
type Resolved struct {
	value   interface{}
	present bool
}

// Absent is the Resolved value for "nothing to write".
var Absent = Resolved{}

// Present wraps a value, nil included.
func Present(v interface{}) Resolved {
	return Resolved{value: v, present: true}
}

// Of is Present for non-nil values and Absent for nil.
func Of(v interface{}) Resolved {
	if v == nil {
		return Absent
	}
	return Present(v)
}

// Get returns the value and whether it is present.
func (r Resolved) Get() (interface{}, bool) {
	return r.value, r.present
}

// IsPresent reports whether a value is present.
func (r Resolved) IsPresent() bool {
	return r.present
}

// Value returns the value, nil when absent.
func (r Resolved) Value() interface{} {
	return r.value
}

// Or returns r when present and fallback otherwise.
func (r Resolved) Or(fallback Resolved) Resolved {
	if r.present {
		return r
	}
	return fallback
}
