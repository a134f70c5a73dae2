package schema

import (
	"google.golang.org/protobuf/proto"
)

// Kind is the shape of a field's element type.
type Kind int

const (
	KindScalar Kind = iota
	KindEnum
	KindMessage
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindEnum:
		return "enum"
	case KindMessage:
		return "message"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// ScalarKind is the type of a scalar field, a map key or a map value.
type ScalarKind int

const (
	ScalarNone ScalarKind = iota
	ScalarBool
	ScalarInt32
	ScalarInt64
	ScalarUint32
	ScalarUint64
	ScalarFloat
	ScalarDouble
	ScalarString
	ScalarBytes
)

func (s ScalarKind) String() string {
	switch s {
	case ScalarBool:
		return "bool"
	case ScalarInt32:
		return "int32"
	case ScalarInt64:
		return "int64"
	case ScalarUint32:
		return "uint32"
	case ScalarUint64:
		return "uint64"
	case ScalarFloat:
		return "float"
	case ScalarDouble:
		return "double"
	case ScalarString:
		return "string"
	case ScalarBytes:
		return "bytes"
	default:
		return "none"
	}
}

// Field describes one field of a message schema.
type Field struct {
	Name     string
	JSONName string
	Number   int32
	Kind     Kind
	Repeated bool

	// Scalar is set for scalar fields.
	Scalar ScalarKind

	// Nested is set for message fields, and for map fields whose values are messages.
	Nested MessageSchema

	// EnumValues lists the value names of enum fields in declaration order.
	EnumValues []string

	// MapKey and MapValue describe map fields. MapValue is KindScalar,
	// KindEnum or KindMessage.
	MapKey   ScalarKind
	MapValue Kind
}

// MessageSchema is the reflected shape of a message type.
type MessageSchema interface {
	// FullName is the fully-qualified message name, e.g. "shop.v1.Order".
	FullName() string

	// Fields lists the fields in declaration order.
	Fields() []Field

	// Field finds a field by name, JSON name or, failing both, case-insensitively.
	Field(name string) (Field, bool)

	// New creates an empty message of this type.
	New() Message
}

// Message is a mutable message instance. Every setter converts its value
// to the field type and fails with a *ConversionError when it cannot.
type Message interface {
	Schema() MessageSchema

	// Set assigns a singular scalar, enum or message field.
	Set(field string, value interface{}) error

	// Append adds one element to a repeated field.
	Append(field string, value interface{}) error

	// SetMapEntry stores key/value in a map field.
	SetMapEntry(field string, key, value interface{}) error

	// NewNested creates an empty message of the field's element type.
	NewNested(field string) (Message, error)

	// SetNested assigns a message created by NewNested to a singular field.
	SetNested(field string, m Message) error

	// AppendNested adds a message created by NewNested to a repeated field.
	AppendNested(field string, m Message) error

	// Has reports whether a field is populated.
	Has(field string) bool

	// Clear resets a field to its zero value; lists and maps become empty.
	Clear(field string) error

	// Proto returns the underlying protobuf message.
	Proto() proto.Message
}
