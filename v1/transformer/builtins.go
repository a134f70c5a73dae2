package transformer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/Aleph-Alpha/testdatagen/v1/capability"
	"github.com/Aleph-Alpha/testdatagen/v1/registry"
)

type builtin struct {
	name        string
	description string
	category    registry.Category
	fn          interface{}
	caps        []capability.Capability
}

var builtins = []builtin{
	{"upper", "Upper-case a string", registry.CategoryString, strings.ToUpper, nil},
	{"lower", "Lower-case a string", registry.CategoryString, strings.ToLower, nil},
	{"title", "Capitalise the first letter of every word", registry.CategoryString, Title, nil},
	{"strip", "Trim leading and trailing white space", registry.CategoryString, strings.TrimSpace, nil},
	{"snake_case", "Convert to snake_case", registry.CategoryFormatting, SnakeCase, nil},
	{"camel_case", "Convert to camelCase", registry.CategoryFormatting, CamelCase, nil},
	{"to_int", "Convert a number, numeric string or boolean to an integer", registry.CategoryNumeric, ToInt, nil},
	{"to_float", "Convert a number, numeric string or boolean to a float", registry.CategoryNumeric, ToFloat, nil},
	{"to_string", "Format any value as a string", registry.CategoryFormatting, ToString, nil},
	{"to_bool", "Convert a boolean-like value to a boolean", registry.CategoryBoolean, ToBool, nil},
	{"timestamp", "Timestamp from \"now\", an ISO-8601 string or Unix seconds", registry.CategoryDateTime, Timestamp, []capability.Capability{capability.Clock}},
	{"duration", "Duration from seconds or a Go duration string", registry.CategoryDateTime, Duration, nil},
}

// BuiltinNames lists the names RegisterBuiltins registers.
func BuiltinNames() []string {
	out := make([]string, len(builtins))
	for i, b := range builtins {
		out[i] = b.name
	}
	return out
}

// RegisterBuiltins registers the built-in transformation functions in reg
// and returns the names that were added. Names already taken are left alone.
func RegisterBuiltins(reg *registry.Registry) []string {
	var added []string
	for _, b := range builtins {
		ok := reg.Register(b.name, b.fn, b.description, b.category,
			registry.WithTags("builtin", string(b.category)),
			registry.WithCapabilities(b.caps...))
		if ok {
			added = append(added, b.name)
		}
	}
	return added
}

// Title upper-cases the first letter of every word and lower-cases the rest.
func Title(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	start := true
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			start = true
			b.WriteRune(r)
		case start:
			b.WriteRune(unicode.ToUpper(r))
			start = false
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// words splits s at separators and lower-to-upper case boundaries.
func words(s string) []string {
	var (
		out  []string
		cur  []rune
		prev rune
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
		prev = r
	}
	flush()
	return out
}

// SnakeCase converts "fullName" or "Full Name" to "full_name".
func SnakeCase(s string) string {
	ws := words(s)
	for i, w := range ws {
		ws[i] = strings.ToLower(w)
	}
	return strings.Join(ws, "_")
}

// CamelCase converts "full_name" or "Full Name" to "fullName".
func CamelCase(s string) string {
	ws := words(s)
	for i, w := range ws {
		w = strings.ToLower(w)
		if i > 0 {
			w = Title(w)
		}
		ws[i] = w
	}
	return strings.Join(ws, "")
}

// ToInt converts v to an int64. Floats must be integral.
func ToInt(v interface{}) (int64, error) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint64:
		if x > math.MaxInt64 {
			return 0, fmt.Errorf("to_int: %d overflows int64", x)
		}
		return int64(x), nil
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("to_int: %q is not a number", x)
		}
		v = f
	}
	f, err := ToFloat(v)
	if err != nil {
		return 0, fmt.Errorf("to_int: %w", err)
	}
	if f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("to_int: %v is not an integer", v)
	}
	return int64(f), nil
}

// ToFloat converts v to a float64.
func ToFloat(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("to_float: %q is not a number", x)
		}
		return f, nil
	}
	return 0, fmt.Errorf("to_float: unsupported type %T", v)
}

// ToString formats v. Floats use the shortest representation.
func ToString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	}
	return fmt.Sprint(v)
}

// ToBool converts v to a bool. Strings accept true/false, yes/no, on/off,
// y/n and 1/0; numbers are true when non-zero.
func ToBool(v interface{}) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "t", "yes", "y", "on", "1":
			return true, nil
		case "false", "f", "no", "n", "off", "0", "":
			return false, nil
		}
		return false, fmt.Errorf("to_bool: %q is not a boolean", x)
	}
	f, err := ToFloat(v)
	if err != nil {
		return false, fmt.Errorf("to_bool: unsupported type %T", v)
	}
	return f != 0, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp builds a timestamp from "now" (or no argument), an ISO-8601
// string, a time.Time or Unix seconds.
func Timestamp(v ...interface{}) (*timestamppb.Timestamp, error) {
	if len(v) == 0 || v[0] == nil {
		return timestamppb.Now(), nil
	}
	switch x := v[0].(type) {
	case time.Time:
		return timestamppb.New(x), nil
	case *timestamppb.Timestamp:
		return x, nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" || strings.EqualFold(s, "now") {
			return timestamppb.Now(), nil
		}
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return timestamppb.New(t), nil
			}
		}
		return nil, fmt.Errorf("timestamp: %q is not an ISO-8601 time", x)
	}
	secs, err := ToFloat(v[0])
	if err != nil {
		return nil, fmt.Errorf("timestamp: unsupported type %T", v[0])
	}
	sec, frac := math.Modf(secs)
	return timestamppb.New(time.Unix(int64(sec), int64(frac*1e9)).UTC()), nil
}

// Duration builds a duration from seconds or a duration string like "1m30s".
func Duration(v interface{}) (*durationpb.Duration, error) {
	switch x := v.(type) {
	case time.Duration:
		return durationpb.New(x), nil
	case string:
		s := strings.TrimSpace(x)
		if d, err := time.ParseDuration(s); err == nil {
			return durationpb.New(d), nil
		}
		secs, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("duration: %q is neither seconds nor a duration", x)
		}
		return durationpb.New(time.Duration(secs * float64(time.Second))), nil
	}
	secs, err := ToFloat(v)
	if err != nil {
		return nil, fmt.Errorf("duration: unsupported type %T", v)
	}
	return durationpb.New(time.Duration(secs * float64(time.Second))), nil
}
