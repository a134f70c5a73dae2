// Package schema describes protobuf message types through a small field
// descriptor abstraction, so the transformer can fill any message without
// depending on protoreflect directly.
//
// # Architecture
//
//   - MessageSchema: the reflected shape of a message type (full name,
//     fields in declaration order, lookup by name, JSON name or
//     case-insensitively)
//   - Field: name, JSON name, Kind (scalar, enum, message, map), whether it
//     is repeated, the scalar kind, enum values and the nested schema
//   - Message: a mutable instance with Set, Append, SetMapEntry, Clear and
//     the NewNested/SetNested/AppendNested trio for message fields
//   - Catalog: message types loaded from descriptor sets at runtime
//
// A protoreflect adapter backs all of them, so compiled Go types and
// dynamicpb messages built from descriptor sets behave the same.
//
// # Compiled Types
//
//	s := schema.FromMessage(&userv1.User{})
//	msg := s.New()
//	if err := msg.Set("full_name", "Ada Lovelace"); err != nil {
//		return err
//	}
//	user := msg.Proto().(*userv1.User)
//
// # Descriptor Sets
//
// Files written by protoc --descriptor_set_out (with --include_imports)
// are loaded into a Catalog and resolved by full name:
//
//	cat := schema.NewCatalog(log)
//	if _, err := cat.LoadFile("users.pb"); err != nil {
//		return err
//	}
//	s, err := cat.Lookup("acme.users.v1.User")
//
// Concurrent loads of the same file are de-duplicated.
//
// # Conversions
//
// Setters convert Go values to the field type and fail with a
// *ConversionError instead of truncating:
//
//   - integers are range checked for the field width; floats must be
//     integral to reach an integer field
//   - strings parse into numbers and booleans; numbers do not format into
//     strings
//   - enums take their value name or number
//   - google.protobuf.Timestamp takes time.Time, RFC 3339 strings or epoch
//     seconds; google.protobuf.Duration takes time.Duration, Go duration
//     strings or seconds
//   - any other message field takes a message of the same type
//
// # Thread Safety
//
// MessageSchema values and a loaded Catalog are safe for concurrent use.
// A Message is not; build each one on a single goroutine.
package schema
