package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const (
	timestampName protoreflect.FullName = "google.protobuf.Timestamp"
	durationName  protoreflect.FullName = "google.protobuf.Duration"
)

func conversionError(fd protoreflect.FieldDescriptor, target string, value interface{}, reason string) error {
	return &ConversionError{Field: string(fd.Name()), Target: target, Value: value, Reason: reason}
}

// messageValue converts value into a message of dst's type. dst is a fresh
// message obtained from the parent so the result can always be stored.
func messageValue(fd protoreflect.FieldDescriptor, value interface{}, dst protoreflect.Message) (protoreflect.Message, error) {
	name := dst.Descriptor().FullName()

	switch v := value.(type) {
	case Message:
		value = v.Proto()
	case time.Time:
		if name == timestampName {
			value = timestamppb.New(v)
		}
	case time.Duration:
		if name == durationName {
			value = durationpb.New(v)
		}
	case string:
		switch name {
		case timestampName:
			t, err := time.Parse(time.RFC3339Nano, v)
			if err != nil {
				return nil, conversionError(fd, string(name), value, err.Error())
			}
			value = timestamppb.New(t)
		case durationName:
			d, err := time.ParseDuration(v)
			if err != nil {
				return nil, conversionError(fd, string(name), value, err.Error())
			}
			value = durationpb.New(d)
		}
	default:
		if name == timestampName || name == durationName {
			if secs, err := toFloat64(value); err == nil {
				if name == timestampName {
					sec, frac := math.Modf(secs)
					value = timestamppb.New(time.Unix(int64(sec), int64(frac*1e9)).UTC())
				} else {
					value = durationpb.New(time.Duration(secs * float64(time.Second)))
				}
			}
		}
	}

	src, ok := value.(proto.Message)
	if !ok {
		return nil, conversionError(fd, string(name), value, "not a message")
	}
	srcMsg := src.ProtoReflect()
	if srcMsg.Descriptor().FullName() != name {
		return nil, conversionError(fd, string(name), value,
			fmt.Sprintf("message type %s", srcMsg.Descriptor().FullName()))
	}
	if reflect.TypeOf(src) == reflect.TypeOf(dst.Interface()) && srcMsg.Descriptor() == dst.Descriptor() {
		return srcMsg, nil
	}

	// Different Go representations of the same message type (generated and
	// dynamicpb) are bridged through the wire format.
	b, err := proto.Marshal(src)
	if err != nil {
		return nil, conversionError(fd, string(name), value, err.Error())
	}
	if err := proto.Unmarshal(b, dst.Interface()); err != nil {
		return nil, conversionError(fd, string(name), value, err.Error())
	}
	return dst, nil
}

// scalarValue converts value to a protoreflect.Value of kind k. fd supplies
// the enum descriptor and the name used in errors.
func scalarValue(fd protoreflect.FieldDescriptor, k protoreflect.Kind, value interface{}) (protoreflect.Value, error) {
	target := k.String()
	fail := func(reason string) (protoreflect.Value, error) {
		return protoreflect.Value{}, conversionError(fd, target, value, reason)
	}

	switch k {
	case protoreflect.BoolKind:
		switch v := value.(type) {
		case bool:
			return protoreflect.ValueOfBool(v), nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fail("not a boolean")
			}
			return protoreflect.ValueOfBool(b), nil
		}
		return fail("")

	case protoreflect.StringKind:
		switch v := value.(type) {
		case string:
			return protoreflect.ValueOfString(v), nil
		case []byte:
			return protoreflect.ValueOfString(string(v)), nil
		case time.Time:
			return protoreflect.ValueOfString(v.Format(time.RFC3339Nano)), nil
		case fmt.Stringer:
			return protoreflect.ValueOfString(v.String()), nil
		}
		return fail("")

	case protoreflect.BytesKind:
		switch v := value.(type) {
		case []byte:
			return protoreflect.ValueOfBytes(v), nil
		case string:
			return protoreflect.ValueOfBytes([]byte(v)), nil
		}
		return fail("")

	case protoreflect.EnumKind:
		return enumValue(fd, value)

	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		n, err := toInt64(value)
		if err != nil {
			return fail(err.Error())
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return fail("out of int32 range")
		}
		return protoreflect.ValueOfInt32(int32(n)), nil

	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		n, err := toInt64(value)
		if err != nil {
			return fail(err.Error())
		}
		return protoreflect.ValueOfInt64(n), nil

	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		n, err := toUint64(value)
		if err != nil {
			return fail(err.Error())
		}
		if n > math.MaxUint32 {
			return fail("out of uint32 range")
		}
		return protoreflect.ValueOfUint32(uint32(n)), nil

	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		n, err := toUint64(value)
		if err != nil {
			return fail(err.Error())
		}
		return protoreflect.ValueOfUint64(n), nil

	case protoreflect.FloatKind:
		f, err := toFloat64(value)
		if err != nil {
			return fail(err.Error())
		}
		if math.Abs(f) > math.MaxFloat32 && !math.IsInf(f, 0) {
			return fail("out of float range")
		}
		return protoreflect.ValueOfFloat32(float32(f)), nil

	case protoreflect.DoubleKind:
		f, err := toFloat64(value)
		if err != nil {
			return fail(err.Error())
		}
		return protoreflect.ValueOfFloat64(f), nil
	}
	return fail("unsupported field kind")
}

func enumValue(fd protoreflect.FieldDescriptor, value interface{}) (protoreflect.Value, error) {
	ed := fd.Enum()
	if ed == nil && fd.IsMap() {
		ed = fd.MapValue().Enum()
	}
	if ed == nil {
		return protoreflect.Value{}, conversionError(fd, "enum", value, "field has no enum type")
	}
	target := string(ed.FullName())

	if s, ok := value.(string); ok {
		s = strings.TrimSpace(s)
		if ev := ed.Values().ByName(protoreflect.Name(s)); ev != nil {
			return protoreflect.ValueOfEnum(ev.Number()), nil
		}
		vals := ed.Values()
		for i := 0; i < vals.Len(); i++ {
			if strings.EqualFold(string(vals.Get(i).Name()), s) {
				return protoreflect.ValueOfEnum(vals.Get(i).Number()), nil
			}
		}
		if _, err := strconv.ParseInt(s, 10, 32); err != nil {
			return protoreflect.Value{}, conversionError(fd, target, value, "unknown enum value")
		}
	}

	n, err := toInt64(value)
	if err != nil {
		return protoreflect.Value{}, conversionError(fd, target, value, err.Error())
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return protoreflect.Value{}, conversionError(fd, target, value, "out of enum range")
	}
	if ed.Values().ByNumber(protoreflect.EnumNumber(n)) == nil && ed.IsClosed() {
		return protoreflect.Value{}, conversionError(fd, target, value, "unknown enum number")
	}
	return protoreflect.ValueOfEnum(protoreflect.EnumNumber(n)), nil
}

func toInt64(value interface{}) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows int64", v)
		}
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows int64", v)
		}
		return int64(v), nil
	case float32:
		return floatToInt64(float64(v))
	case float64:
		return floatToInt64(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
		f, err := v.Float64()
		if err != nil {
			return 0, err
		}
		return floatToInt64(f)
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", v)
		}
		return floatToInt64(f)
	}
	return 0, fmt.Errorf("%T is not a number", value)
}

func floatToInt64(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%v is not an integer", f)
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%v overflows int64", f)
	}
	return int64(f), nil
}

func toUint64(value interface{}) (uint64, error) {
	switch v := value.(type) {
	case uint:
		return uint64(v), nil
	case uint8:
		return uint64(v), nil
	case uint16:
		return uint64(v), nil
	case uint32:
		return uint64(v), nil
	case uint64:
		return v, nil
	case string:
		if n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64); err == nil {
			return n, nil
		}
	}
	n, err := toInt64(value)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%d is negative", n)
	}
	return uint64(n), nil
}

func toFloat64(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case json.Number:
		return v.Float64()
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", v)
		}
		return f, nil
	case uint64:
		return float64(v), nil
	}
	n, err := toInt64(value)
	if err != nil {
		return 0, err
	}
	return float64(n), nil
}
