package schema_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/Aleph-Alpha/testdatagen/v1/schema"
	"github.com/Aleph-Alpha/testdatagen/v1/schema/schematest"
)

func TestSchemaDescribesFields(t *testing.T) {
	s := schematest.UserSchema()
	assert.Equal(t, schematest.UserName, s.FullName())
	assert.Len(t, s.Fields(), 14)

	tests := []struct {
		name     string
		kind     schema.Kind
		scalar   schema.ScalarKind
		repeated bool
		nested   string
	}{
		{"full_name", schema.KindScalar, schema.ScalarString, false, ""},
		{"age", schema.KindScalar, schema.ScalarInt32, false, ""},
		{"address", schema.KindMessage, schema.ScalarNone, false, schematest.AddressName},
		{"tags", schema.KindScalar, schema.ScalarString, true, ""},
		{"previous_addresses", schema.KindMessage, schema.ScalarNone, true, schematest.AddressName},
		{"status", schema.KindEnum, schema.ScalarNone, false, ""},
		{"created_at", schema.KindMessage, schema.ScalarNone, false, "google.protobuf.Timestamp"},
		{"labels", schema.KindMap, schema.ScalarString, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := s.Field(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.kind, f.Kind)
			assert.Equal(t, tt.scalar, f.Scalar)
			assert.Equal(t, tt.repeated, f.Repeated)
			if tt.nested != "" {
				require.NotNil(t, f.Nested)
				assert.Equal(t, tt.nested, f.Nested.FullName())
			}
		})
	}

	status, _ := s.Field("status")
	assert.Equal(t, []string{"STATUS_UNSPECIFIED", "STATUS_ACTIVE", "STATUS_DISABLED"}, status.EnumValues)

	labels, _ := s.Field("labels")
	assert.Equal(t, schema.ScalarString, labels.MapKey)
	assert.Equal(t, schema.KindScalar, labels.MapValue)
}

func TestFieldLookupByJSONAndCase(t *testing.T) {
	s := schematest.UserSchema()

	f, ok := s.Field("fullName")
	require.True(t, ok)
	assert.Equal(t, "full_name", f.Name)

	f, ok = s.Field("FULL_NAME")
	require.True(t, ok)
	assert.Equal(t, "full_name", f.Name)

	_, ok = s.Field("nickname")
	assert.False(t, ok)
}

func TestSetScalarConversions(t *testing.T) {
	tests := []struct {
		field string
		value interface{}
		want  interface{}
	}{
		{"full_name", "Ada", "Ada"},
		{"full_name", []byte("Ada"), "Ada"},
		{"age", 42, int32(42)},
		{"age", float64(42), int32(42)},
		{"age", json.Number("42"), int32(42)},
		{"age", "42", int32(42)},
		{"id", int64(math.MaxInt64), int64(math.MaxInt64)},
		{"active", true, true},
		{"active", "true", true},
		{"score", 3, float64(3)},
		{"score", "2.5", 2.5},
		{"payload", "raw", []byte("raw")},
		{"status", "STATUS_ACTIVE", protoreflect.EnumNumber(1)},
		{"status", "status_disabled", protoreflect.EnumNumber(2)},
		{"status", 1, protoreflect.EnumNumber(1)},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			msg := schematest.UserSchema().New()
			require.NoError(t, msg.Set(tt.field, tt.value))
			assert.Equal(t, tt.want, schematest.Get(msg.Proto(), tt.field))
			assert.True(t, msg.Has(tt.field) || tt.value == 0)
		})
	}
}

func TestSetRejectsBadValues(t *testing.T) {
	tests := []struct {
		field string
		value interface{}
	}{
		{"age", 1.5},
		{"age", int64(math.MaxInt32) + 1},
		{"age", "forty"},
		{"active", 1},
		{"full_name", 42},
		{"status", "STATUS_UNKNOWN"},
		{"address", "Main Street"},
		{"created_at", "yesterday"},
		{"address", wrapperspb.String("x")},
	}
	for _, tt := range tests {
		msg := schematest.UserSchema().New()
		err := msg.Set(tt.field, tt.value)
		require.Error(t, err, "%s=%v", tt.field, tt.value)
		assert.True(t, schema.IsConversionError(err))
	}
}

func TestSetShapeAndUnknownField(t *testing.T) {
	msg := schematest.UserSchema().New()

	assert.True(t, schema.IsUnknownField(msg.Set("nickname", "x")))
	assert.ErrorIs(t, msg.Set("tags", "x"), schema.ErrFieldShape)
	assert.ErrorIs(t, msg.Append("full_name", "x"), schema.ErrFieldShape)
	assert.ErrorIs(t, msg.SetMapEntry("tags", "k", "v"), schema.ErrFieldShape)

	_, err := msg.NewNested("age")
	assert.ErrorIs(t, err, schema.ErrFieldShape)
}

func TestWellKnownTypes(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for _, v := range []interface{}{at, "2024-03-01T12:00:00Z", timestamppb.New(at), at.Unix()} {
		msg := schematest.UserSchema().New()
		require.NoError(t, msg.Set("created_at", v))

		var ts timestamppb.Timestamp
		b, err := proto.Marshal(schematest.Nested(msg.Proto(), "created_at"))
		require.NoError(t, err)
		require.NoError(t, proto.Unmarshal(b, &ts))
		assert.True(t, at.Equal(ts.AsTime()), "%v", v)
	}

	msg := schematest.UserSchema().New()
	require.NoError(t, msg.Set("ttl", 90*time.Second))
	require.NoError(t, msg.Set("ttl", durationpb.New(time.Minute)))
	require.NoError(t, msg.Set("ttl", "1h"))
	assert.True(t, msg.Has("ttl"))

	// Time values go into string fields as RFC 3339.
	require.NoError(t, msg.Set("full_name", at))
	assert.Equal(t, "2024-03-01T12:00:00Z", schematest.Get(msg.Proto(), "full_name"))
}

func TestNestedAndRepeated(t *testing.T) {
	msg := schematest.UserSchema().New()

	addr, err := msg.NewNested("address")
	require.NoError(t, err)
	assert.Equal(t, schematest.AddressName, addr.Schema().FullName())
	require.NoError(t, addr.Set("city", "Springfield"))
	require.NoError(t, msg.SetNested("address", addr))

	for _, city := range []string{"Shelbyville", "Ogdenville"} {
		prev, err := msg.NewNested("previous_addresses")
		require.NoError(t, err)
		require.NoError(t, prev.Set("city", city))
		require.NoError(t, msg.AppendNested("previous_addresses", prev))
	}

	require.NoError(t, msg.Append("tags", "a"))
	require.NoError(t, msg.Append("tags", "b"))
	require.NoError(t, msg.SetMapEntry("labels", "team", "qa"))

	assert.Equal(t, "Springfield", schematest.Get(schematest.Nested(msg.Proto(), "address"), "city"))

	rm := msg.Proto().ProtoReflect()
	fields := rm.Descriptor().Fields()
	prev := rm.Get(fields.ByName("previous_addresses")).List()
	require.Equal(t, 2, prev.Len())
	assert.Equal(t, "Ogdenville", schematest.Get(prev.Get(1).Message().Interface(), "city"))

	tags := rm.Get(fields.ByName("tags")).List()
	assert.Equal(t, 2, tags.Len())

	labels := rm.Get(fields.ByName("labels")).Map()
	assert.Equal(t, "qa", labels.Get(protoreflect.ValueOfString("team").MapKey()).String())
}

func TestClear(t *testing.T) {
	msg := schematest.UserSchema().New()
	require.NoError(t, msg.Append("tags", "a"))
	require.NoError(t, msg.SetMapEntry("labels", "k", "v"))
	require.NoError(t, msg.Set("full_name", "Ada"))

	for _, f := range []string{"tags", "labels", "full_name"} {
		require.NoError(t, msg.Clear(f))
		assert.False(t, msg.Has(f), f)
	}
	assert.True(t, schema.IsUnknownField(msg.Clear("nope")))
}

func TestGeneratedMessages(t *testing.T) {
	s := schema.FromMessage(&structpb.Value{})
	assert.Equal(t, "google.protobuf.Value", s.FullName())

	msg := s.New()
	require.NoError(t, msg.Set("string_value", "hello"))
	v, ok := msg.Proto().(*structpb.Value)
	require.True(t, ok)
	assert.Equal(t, "hello", v.GetStringValue())

	w := wrapperspb.Int64(0)
	wrapped := schema.Wrap(w)
	require.NoError(t, wrapped.Set("value", "7"))
	assert.Equal(t, int64(7), w.GetValue())
}
