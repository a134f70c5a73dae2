package schema_registry

import (
	"fmt"
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// ProtoSchema renders fd as .proto source, the form the registry expects
// for PROTOBUF schemas. Options, comments and services are not rendered;
// type references are fully qualified.
func ProtoSchema(fd protoreflect.FileDescriptor) string {
	var b strings.Builder
	switch fd.Syntax() {
	case protoreflect.Proto2:
		b.WriteString("syntax = \"proto2\";\n")
	case protoreflect.Editions:
		b.WriteString("edition = \"2023\";\n")
	default:
		b.WriteString("syntax = \"proto3\";\n")
	}
	if pkg := fd.Package(); pkg != "" {
		fmt.Fprintf(&b, "package %s;\n", pkg)
	}

	imports := fd.Imports()
	if imports.Len() > 0 {
		b.WriteString("\n")
	}
	for i := 0; i < imports.Len(); i++ {
		imp := imports.Get(i)
		switch {
		case imp.IsPublic:
			fmt.Fprintf(&b, "import public %q;\n", imp.Path())
		case imp.IsWeak:
			fmt.Fprintf(&b, "import weak %q;\n", imp.Path())
		default:
			fmt.Fprintf(&b, "import %q;\n", imp.Path())
		}
	}

	p := &printer{b: &b, proto2: fd.Syntax() == protoreflect.Proto2}
	for i := 0; i < fd.Enums().Len(); i++ {
		b.WriteString("\n")
		p.enum(fd.Enums().Get(i), "")
	}
	for i := 0; i < fd.Messages().Len(); i++ {
		b.WriteString("\n")
		p.message(fd.Messages().Get(i), "")
	}
	return b.String()
}

type printer struct {
	b      *strings.Builder
	proto2 bool
}

func (p *printer) enum(ed protoreflect.EnumDescriptor, indent string) {
	fmt.Fprintf(p.b, "%senum %s {\n", indent, ed.Name())
	values := ed.Values()
	for i := 0; i < values.Len(); i++ {
		v := values.Get(i)
		fmt.Fprintf(p.b, "%s  %s = %d;\n", indent, v.Name(), v.Number())
	}
	fmt.Fprintf(p.b, "%s}\n", indent)
}

func (p *printer) message(md protoreflect.MessageDescriptor, indent string) {
	fmt.Fprintf(p.b, "%smessage %s {\n", indent, md.Name())
	inner := indent + "  "

	for i := 0; i < md.Enums().Len(); i++ {
		p.enum(md.Enums().Get(i), inner)
	}
	for i := 0; i < md.Messages().Len(); i++ {
		if nested := md.Messages().Get(i); !nested.IsMapEntry() {
			p.message(nested, inner)
		}
	}

	printed := map[protoreflect.FullName]bool{}
	fields := md.Fields()
	for i := 0; i < fields.Len(); i++ {
		f := fields.Get(i)
		oneof := f.ContainingOneof()
		if oneof == nil || oneof.IsSynthetic() {
			p.field(f, inner, true)
			continue
		}
		if printed[oneof.FullName()] {
			continue
		}
		printed[oneof.FullName()] = true
		fmt.Fprintf(p.b, "%soneof %s {\n", inner, oneof.Name())
		for j := 0; j < oneof.Fields().Len(); j++ {
			p.field(oneof.Fields().Get(j), inner+"  ", false)
		}
		fmt.Fprintf(p.b, "%s}\n", inner)
	}
	fmt.Fprintf(p.b, "%s}\n", indent)
}

func (p *printer) field(f protoreflect.FieldDescriptor, indent string, labelled bool) {
	label := ""
	if labelled && !f.IsMap() {
		switch {
		case f.IsList():
			label = "repeated "
		case p.proto2 && f.Cardinality() == protoreflect.Required:
			label = "required "
		case p.proto2 || f.HasOptionalKeyword():
			label = "optional "
		}
	}
	fmt.Fprintf(p.b, "%s%s%s %s = %d;\n", indent, label, typeName(f), f.Name(), f.Number())
}

func typeName(f protoreflect.FieldDescriptor) string {
	if f.IsMap() {
		return fmt.Sprintf("map<%s, %s>", typeName(f.MapKey()), typeName(f.MapValue()))
	}
	switch f.Kind() {
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return "." + string(f.Message().FullName())
	case protoreflect.EnumKind:
		return "." + string(f.Enum().FullName())
	}
	return f.Kind().String()
}
