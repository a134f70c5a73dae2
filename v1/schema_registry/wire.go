package schema_registry

import (
	"encoding/binary"
	"fmt"

	"google.golang.org/protobuf/reflect/protoreflect"
)

const magicByte = 0x0

// EncodeSchemaID encodes a schema ID in the Confluent wire format:
// a zero magic byte followed by the ID as 4 big-endian bytes.
func EncodeSchemaID(schemaID int) []byte {
	buf := make([]byte, 5)
	buf[0] = magicByte
	binary.BigEndian.PutUint32(buf[1:], uint32(schemaID))
	return buf
}

// DecodeSchemaID decodes the 5-byte header and returns the schema ID and
// the remaining payload.
func DecodeSchemaID(data []byte) (int, []byte, error) {
	if len(data) < 5 {
		return 0, nil, fmt.Errorf("%w: expected at least 5 bytes, got %d", ErrInvalidFrame, len(data))
	}
	if data[0] != magicByte {
		return 0, nil, fmt.Errorf("%w: magic byte 0x%x", ErrInvalidFrame, data[0])
	}
	return int(binary.BigEndian.Uint32(data[1:5])), data[5:], nil
}

// MessageIndexes locates md inside its file: the index of its top-level
// message followed by the index at each level of nesting.
func MessageIndexes(md protoreflect.MessageDescriptor) []int {
	var path []int
	var d protoreflect.Descriptor = md
	for {
		path = append([]int{d.Index()}, path...)
		parent, ok := d.Parent().(protoreflect.MessageDescriptor)
		if !ok {
			return path
		}
		d = parent
	}
}

// EncodeProtobuf frames a serialized protobuf payload: the schema ID
// header, the message indexes as zig-zag varints prefixed with their count,
// then the payload. The common [0] case is written as a single zero byte.
func EncodeProtobuf(schemaID int, indexes []int, payload []byte) []byte {
	buf := EncodeSchemaID(schemaID)
	if len(indexes) == 0 || (len(indexes) == 1 && indexes[0] == 0) {
		buf = append(buf, 0)
	} else {
		buf = binary.AppendVarint(buf, int64(len(indexes)))
		for _, i := range indexes {
			buf = binary.AppendVarint(buf, int64(i))
		}
	}
	return append(buf, payload...)
}

// DecodeProtobuf reverses EncodeProtobuf.
func DecodeProtobuf(data []byte) (schemaID int, indexes []int, payload []byte, err error) {
	schemaID, rest, err := DecodeSchemaID(data)
	if err != nil {
		return 0, nil, nil, err
	}
	n, read := binary.Varint(rest)
	if read <= 0 || n < 0 || n > int64(len(rest)) {
		return 0, nil, nil, fmt.Errorf("%w: bad message index count", ErrInvalidFrame)
	}
	rest = rest[read:]
	if n == 0 {
		return schemaID, []int{0}, rest, nil
	}
	indexes = make([]int, n)
	for i := range indexes {
		v, read := binary.Varint(rest)
		if read <= 0 {
			return 0, nil, nil, fmt.Errorf("%w: bad message index %d", ErrInvalidFrame, i)
		}
		indexes[i] = int(v)
		rest = rest[read:]
	}
	return schemaID, indexes, rest, nil
}
