// Package schematest builds protobuf descriptors at run time for tests
// that need realistic message schemas without generated code.
//
// The file testdata/v1/user.proto it describes is equivalent to:
//
//	syntax = "proto3";
//	package testdata.v1;
//
//	import "google/protobuf/duration.proto";
//	import "google/protobuf/timestamp.proto";
//
//	enum Status {
//	  STATUS_UNSPECIFIED = 0;
//	  STATUS_ACTIVE = 1;
//	  STATUS_DISABLED = 2;
//	}
//
//	message Address {
//	  string street = 1;
//	  string city = 2;
//	  string zip = 3;
//	}
//
//	message User {
//	  string full_name = 1;
//	  string email = 2;
//	  int32 age = 3;
//	  bool active = 4;
//	  Address address = 5;
//	  repeated string tags = 6;
//	  repeated Address previous_addresses = 7;
//	  Status status = 8;
//	  google.protobuf.Timestamp created_at = 9;
//	  map<string, string> labels = 10;
//	  double score = 11;
//	  bytes payload = 12;
//	  int64 id = 13;
//	  google.protobuf.Duration ttl = 14;
//	}
package schematest

import (
	"sync"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/Aleph-Alpha/testdatagen/v1/schema"
)

const (
	// FilePath is the path of the test file descriptor.
	FilePath = "testdata/v1/user.proto"

	UserName    = "testdata.v1.User"
	AddressName = "testdata.v1.Address"
)

var (
	once sync.Once
	file protoreflect.FileDescriptor
)

func field(name string, num int32, typ descriptorpb.FieldDescriptorProto_Type, label descriptorpb.FieldDescriptorProto_Label, typeName string) *descriptorpb.FieldDescriptorProto {
	f := &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(num),
		Type:   typ.Enum(),
		Label:  label.Enum(),
	}
	if typeName != "" {
		f.TypeName = proto.String(typeName)
	}
	return f
}

const (
	optional = descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL
	repeated = descriptorpb.FieldDescriptorProto_LABEL_REPEATED

	typeString  = descriptorpb.FieldDescriptorProto_TYPE_STRING
	typeInt32   = descriptorpb.FieldDescriptorProto_TYPE_INT32
	typeInt64   = descriptorpb.FieldDescriptorProto_TYPE_INT64
	typeBool    = descriptorpb.FieldDescriptorProto_TYPE_BOOL
	typeDouble  = descriptorpb.FieldDescriptorProto_TYPE_DOUBLE
	typeBytes   = descriptorpb.FieldDescriptorProto_TYPE_BYTES
	typeEnum    = descriptorpb.FieldDescriptorProto_TYPE_ENUM
	typeMessage = descriptorpb.FieldDescriptorProto_TYPE_MESSAGE
)

// FileProto returns the FileDescriptorProto of testdata/v1/user.proto.
func FileProto() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String(FilePath),
		Package: proto.String("testdata.v1"),
		Syntax:  proto.String("proto3"),
		Dependency: []string{
			"google/protobuf/duration.proto",
			"google/protobuf/timestamp.proto",
		},
		EnumType: []*descriptorpb.EnumDescriptorProto{{
			Name: proto.String("Status"),
			Value: []*descriptorpb.EnumValueDescriptorProto{
				{Name: proto.String("STATUS_UNSPECIFIED"), Number: proto.Int32(0)},
				{Name: proto.String("STATUS_ACTIVE"), Number: proto.Int32(1)},
				{Name: proto.String("STATUS_DISABLED"), Number: proto.Int32(2)},
			},
		}},
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("Address"),
				Field: []*descriptorpb.FieldDescriptorProto{
					field("street", 1, typeString, optional, ""),
					field("city", 2, typeString, optional, ""),
					field("zip", 3, typeString, optional, ""),
				},
			},
			{
				Name: proto.String("User"),
				Field: []*descriptorpb.FieldDescriptorProto{
					field("full_name", 1, typeString, optional, ""),
					field("email", 2, typeString, optional, ""),
					field("age", 3, typeInt32, optional, ""),
					field("active", 4, typeBool, optional, ""),
					field("address", 5, typeMessage, optional, ".testdata.v1.Address"),
					field("tags", 6, typeString, repeated, ""),
					field("previous_addresses", 7, typeMessage, repeated, ".testdata.v1.Address"),
					field("status", 8, typeEnum, optional, ".testdata.v1.Status"),
					field("created_at", 9, typeMessage, optional, ".google.protobuf.Timestamp"),
					field("labels", 10, typeMessage, repeated, ".testdata.v1.User.LabelsEntry"),
					field("score", 11, typeDouble, optional, ""),
					field("payload", 12, typeBytes, optional, ""),
					field("id", 13, typeInt64, optional, ""),
					field("ttl", 14, typeMessage, optional, ".google.protobuf.Duration"),
				},
				NestedType: []*descriptorpb.DescriptorProto{{
					Name: proto.String("LabelsEntry"),
					Field: []*descriptorpb.FieldDescriptorProto{
						field("key", 1, typeString, optional, ""),
						field("value", 2, typeString, optional, ""),
					},
					Options: &descriptorpb.MessageOptions{MapEntry: proto.Bool(true)},
				}},
			},
		},
	}
}

// File returns the built file descriptor. It panics if the descriptor is
// invalid, which is a bug in this package.
func File() protoreflect.FileDescriptor {
	once.Do(func() {
		// Link the well-known types so the resolver can find them.
		_ = timestamppb.File_google_protobuf_timestamp_proto
		_ = durationpb.File_google_protobuf_duration_proto

		fd, err := protodesc.NewFile(FileProto(), protoregistry.GlobalFiles)
		if err != nil {
			panic("schematest: " + err.Error())
		}
		file = fd
	})
	return file
}

// UserDescriptor is the descriptor of testdata.v1.User.
func UserDescriptor() protoreflect.MessageDescriptor {
	return File().Messages().ByName("User")
}

// AddressDescriptor is the descriptor of testdata.v1.Address.
func AddressDescriptor() protoreflect.MessageDescriptor {
	return File().Messages().ByName("Address")
}

// UserSchema returns a dynamicpb-backed schema of testdata.v1.User.
func UserSchema() schema.MessageSchema {
	return schema.FromDescriptor(UserDescriptor())
}

// AddressSchema returns a dynamicpb-backed schema of testdata.v1.Address.
func AddressSchema() schema.MessageSchema {
	return schema.FromDescriptor(AddressDescriptor())
}

// DescriptorSet returns a self-contained FileDescriptorSet holding the test
// file and its imports, as protoc --include_imports would write it.
func DescriptorSet() *descriptorpb.FileDescriptorSet {
	return &descriptorpb.FileDescriptorSet{
		File: []*descriptorpb.FileDescriptorProto{
			protodesc.ToFileDescriptorProto(durationpb.File_google_protobuf_duration_proto),
			protodesc.ToFileDescriptorProto(timestamppb.File_google_protobuf_timestamp_proto),
			FileProto(),
		},
	}
}

// Get reads a field of a reflected message by name. It returns nil for
// unknown fields.
func Get(m proto.Message, name string) interface{} {
	rm := m.ProtoReflect()
	fd := rm.Descriptor().Fields().ByName(protoreflect.Name(name))
	if fd == nil {
		return nil
	}
	return rm.Get(fd).Interface()
}

// Nested returns the message stored in a singular message field.
func Nested(m proto.Message, name string) proto.Message {
	rm := m.ProtoReflect()
	fd := rm.Descriptor().Fields().ByName(protoreflect.Name(name))
	if fd == nil || fd.Message() == nil {
		return nil
	}
	return rm.Get(fd).Message().Interface()
}
