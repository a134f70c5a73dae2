package schema

import (
	"fmt"
	"strings"
	"sync"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/dynamicpb"
)

// protoSchema adapts a protobuf message type.
type protoSchema struct {
	typ  protoreflect.MessageType
	desc protoreflect.MessageDescriptor

	once   sync.Once
	fields []Field
	byName map[string]int
}

// FromMessage returns the schema of m's type. Messages created through it
// have the same concrete Go type as m.
func FromMessage(m proto.Message) MessageSchema {
	return fromType(m.ProtoReflect().Type())
}

// FromDescriptor returns a schema for md. Generated types registered in the
// global registry are used when available; otherwise messages are dynamicpb.
func FromDescriptor(md protoreflect.MessageDescriptor) MessageSchema {
	if mt, err := protoregistry.GlobalTypes.FindMessageByName(md.FullName()); err == nil && mt.Descriptor() == md {
		return fromType(mt)
	}
	return fromType(dynamicpb.NewMessageType(md))
}

func fromType(mt protoreflect.MessageType) *protoSchema {
	return &protoSchema{typ: mt, desc: mt.Descriptor()}
}

func (s *protoSchema) FullName() string {
	return string(s.desc.FullName())
}

// Descriptor exposes the underlying protobuf descriptor.
func (s *protoSchema) Descriptor() protoreflect.MessageDescriptor {
	return s.desc
}

func (s *protoSchema) init() {
	s.once.Do(func() {
		fds := s.desc.Fields()
		s.fields = make([]Field, 0, fds.Len())
		s.byName = make(map[string]int, fds.Len()*2)
		for i := 0; i < fds.Len(); i++ {
			fd := fds.Get(i)
			s.fields = append(s.fields, describeField(fd))
			s.byName[string(fd.Name())] = i
			if _, taken := s.byName[fd.JSONName()]; !taken {
				s.byName[fd.JSONName()] = i
			}
		}
	})
}

func (s *protoSchema) Fields() []Field {
	s.init()
	return append([]Field(nil), s.fields...)
}

func (s *protoSchema) Field(name string) (Field, bool) {
	fd := s.lookup(name)
	if fd == nil {
		return Field{}, false
	}
	s.init()
	return s.fields[fd.Index()], true
}

func (s *protoSchema) lookup(name string) protoreflect.FieldDescriptor {
	s.init()
	if i, ok := s.byName[name]; ok {
		return s.desc.Fields().Get(i)
	}
	fds := s.desc.Fields()
	for i := 0; i < fds.Len(); i++ {
		fd := fds.Get(i)
		if strings.EqualFold(string(fd.Name()), name) || strings.EqualFold(fd.JSONName(), name) {
			return fd
		}
	}
	return nil
}

func (s *protoSchema) New() Message {
	return &protoMessage{m: s.typ.New(), schema: s}
}

func describeField(fd protoreflect.FieldDescriptor) Field {
	f := Field{
		Name:     string(fd.Name()),
		JSONName: fd.JSONName(),
		Number:   int32(fd.Number()),
		Repeated: fd.IsList(),
	}
	switch {
	case fd.IsMap():
		f.Kind = KindMap
		f.MapKey = scalarKind(fd.MapKey().Kind())
		val := fd.MapValue()
		switch val.Kind() {
		case protoreflect.MessageKind, protoreflect.GroupKind:
			f.MapValue = KindMessage
			f.Nested = FromDescriptor(val.Message())
		case protoreflect.EnumKind:
			f.MapValue = KindEnum
			f.EnumValues = enumNames(val.Enum())
		default:
			f.MapValue = KindScalar
			f.Scalar = scalarKind(val.Kind())
		}
	case fd.Kind() == protoreflect.MessageKind || fd.Kind() == protoreflect.GroupKind:
		f.Kind = KindMessage
		f.Nested = FromDescriptor(fd.Message())
	case fd.Kind() == protoreflect.EnumKind:
		f.Kind = KindEnum
		f.EnumValues = enumNames(fd.Enum())
	default:
		f.Kind = KindScalar
		f.Scalar = scalarKind(fd.Kind())
	}
	return f
}

func enumNames(ed protoreflect.EnumDescriptor) []string {
	vals := ed.Values()
	out := make([]string, vals.Len())
	for i := range out {
		out[i] = string(vals.Get(i).Name())
	}
	return out
}

func scalarKind(k protoreflect.Kind) ScalarKind {
	switch k {
	case protoreflect.BoolKind:
		return ScalarBool
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		return ScalarInt32
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return ScalarInt64
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return ScalarUint32
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return ScalarUint64
	case protoreflect.FloatKind:
		return ScalarFloat
	case protoreflect.DoubleKind:
		return ScalarDouble
	case protoreflect.StringKind:
		return ScalarString
	case protoreflect.BytesKind:
		return ScalarBytes
	default:
		return ScalarNone
	}
}

// protoMessage adapts a protoreflect.Message.
type protoMessage struct {
	m      protoreflect.Message
	schema *protoSchema
}

// Wrap adapts an existing protobuf message.
func Wrap(m proto.Message) Message {
	rm := m.ProtoReflect()
	return &protoMessage{m: rm, schema: fromType(rm.Type())}
}

func (p *protoMessage) Schema() MessageSchema {
	return p.schema
}

func (p *protoMessage) Proto() proto.Message {
	return p.m.Interface()
}

func (p *protoMessage) field(name string) (protoreflect.FieldDescriptor, error) {
	fd := p.schema.lookup(name)
	if fd == nil {
		return nil, fmt.Errorf("%w: %s has no field %q", ErrUnknownField, p.schema.FullName(), name)
	}
	return fd, nil
}

func (p *protoMessage) Has(name string) bool {
	fd := p.schema.lookup(name)
	return fd != nil && p.m.Has(fd)
}

func (p *protoMessage) Clear(name string) error {
	fd, err := p.field(name)
	if err != nil {
		return err
	}
	p.m.Clear(fd)
	return nil
}

func (p *protoMessage) Set(name string, value interface{}) error {
	fd, err := p.field(name)
	if err != nil {
		return err
	}
	if fd.IsList() || fd.IsMap() {
		return fmt.Errorf("%w: Set on repeated field %q", ErrFieldShape, name)
	}
	if fd.Message() != nil {
		msg, err := messageValue(fd, value, p.m.NewField(fd).Message())
		if err != nil {
			return err
		}
		p.m.Set(fd, protoreflect.ValueOfMessage(msg))
		return nil
	}
	v, err := scalarValue(fd, fd.Kind(), value)
	if err != nil {
		return err
	}
	p.m.Set(fd, v)
	return nil
}

func (p *protoMessage) Append(name string, value interface{}) error {
	fd, err := p.field(name)
	if err != nil {
		return err
	}
	if !fd.IsList() {
		return fmt.Errorf("%w: Append on non-repeated field %q", ErrFieldShape, name)
	}
	list := p.m.Mutable(fd).List()
	if fd.Message() != nil {
		msg, err := messageValue(fd, value, list.NewElement().Message())
		if err != nil {
			return err
		}
		list.Append(protoreflect.ValueOfMessage(msg))
		return nil
	}
	v, err := scalarValue(fd, fd.Kind(), value)
	if err != nil {
		return err
	}
	list.Append(v)
	return nil
}

func (p *protoMessage) SetMapEntry(name string, key, value interface{}) error {
	fd, err := p.field(name)
	if err != nil {
		return err
	}
	if !fd.IsMap() {
		return fmt.Errorf("%w: SetMapEntry on non-map field %q", ErrFieldShape, name)
	}
	k, err := scalarValue(fd, fd.MapKey().Kind(), key)
	if err != nil {
		return err
	}
	m := p.m.Mutable(fd).Map()
	valFD := fd.MapValue()
	if valFD.Message() != nil {
		msg, err := messageValue(fd, value, m.NewValue().Message())
		if err != nil {
			return err
		}
		m.Set(k.MapKey(), protoreflect.ValueOfMessage(msg))
		return nil
	}
	v, err := scalarValue(valFD, valFD.Kind(), value)
	if err != nil {
		return err
	}
	m.Set(k.MapKey(), v)
	return nil
}

func (p *protoMessage) NewNested(name string) (Message, error) {
	fd, err := p.field(name)
	if err != nil {
		return nil, err
	}
	var nested protoreflect.Message
	switch {
	case fd.IsMap():
		if fd.MapValue().Message() == nil {
			return nil, fmt.Errorf("%w: map field %q has scalar values", ErrFieldShape, name)
		}
		nested = p.m.NewField(fd).Map().NewValue().Message()
	case fd.Message() == nil:
		return nil, fmt.Errorf("%w: field %q is not a message", ErrFieldShape, name)
	case fd.IsList():
		nested = p.m.NewField(fd).List().NewElement().Message()
	default:
		nested = p.m.NewField(fd).Message()
	}
	return &protoMessage{m: nested, schema: fromType(nested.Type())}, nil
}

func (p *protoMessage) SetNested(name string, m Message) error {
	return p.Set(name, m.Proto())
}

func (p *protoMessage) AppendNested(name string, m Message) error {
	return p.Append(name, m.Proto())
}
