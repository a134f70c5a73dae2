package mapping

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Rule is a compiled validation rule. Supported rules:
//
//	not_empty
//	min_length:N   max_length:N   (strings by rune, lists and maps by length)
//	min:N          max:N          (numbers)
//	pattern:RE     (strings, RE2 syntax)
type Rule struct {
	Name string
	Arg  string

	num float64
	re  *regexp.Regexp
}

// ParseRule compiles a rule expression.
func ParseRule(expr string) (Rule, error) {
	name, arg, _ := strings.Cut(strings.TrimSpace(expr), ":")
	r := Rule{Name: strings.TrimSpace(name), Arg: arg}

	switch r.Name {
	case "not_empty":
		return r, nil
	case "min_length", "max_length":
		n, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil || n < 0 {
			return Rule{}, fmt.Errorf("%w: %q needs a non-negative integer", ErrInvalidRule, expr)
		}
		r.num = float64(n)
	case "min", "max":
		f, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
		if err != nil {
			return Rule{}, fmt.Errorf("%w: %q needs a number", ErrInvalidRule, expr)
		}
		r.num = f
	case "pattern":
		re, err := regexp.Compile(arg)
		if err != nil {
			return Rule{}, fmt.Errorf("%w: %q: %v", ErrInvalidRule, expr, err)
		}
		r.re = re
	default:
		return Rule{}, fmt.Errorf("%w: unknown rule %q", ErrInvalidRule, r.Name)
	}
	return r, nil
}

// Check returns an error wrapping ErrRuleViolation when v breaks the rule.
func (r Rule) Check(v interface{}) error {
	switch r.Name {
	case "not_empty":
		if isEmpty(v) {
			return r.violation("value is empty")
		}
	case "min_length", "max_length":
		n, ok := length(v)
		if !ok {
			return r.violation(fmt.Sprintf("%T has no length", v))
		}
		if r.Name == "min_length" && float64(n) < r.num {
			return r.violation(fmt.Sprintf("length %d is below %d", n, int(r.num)))
		}
		if r.Name == "max_length" && float64(n) > r.num {
			return r.violation(fmt.Sprintf("length %d is above %d", n, int(r.num)))
		}
	case "min", "max":
		f, ok := number(v)
		if !ok {
			return r.violation(fmt.Sprintf("%v is not a number", v))
		}
		if r.Name == "min" && f < r.num {
			return r.violation(fmt.Sprintf("%v is below %v", f, r.num))
		}
		if r.Name == "max" && f > r.num {
			return r.violation(fmt.Sprintf("%v is above %v", f, r.num))
		}
	case "pattern":
		s, ok := v.(string)
		if !ok {
			s = fmt.Sprint(v)
		}
		if !r.re.MatchString(s) {
			return r.violation(fmt.Sprintf("%q does not match %s", s, r.re))
		}
	}
	return nil
}

func (r Rule) violation(msg string) error {
	return fmt.Errorf("%w: %s: %s", ErrRuleViolation, r, msg)
}

// String renders the rule as written.
func (r Rule) String() string {
	if r.Name == "not_empty" {
		return r.Name
	}
	return r.Name + ":" + r.Arg
}

func isEmpty(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	n, ok := length(v)
	return ok && n == 0
}

func length(v interface{}) (int, bool) {
	if s, ok := v.(string); ok {
		return utf8.RuneCountInString(s), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}

func number(v interface{}) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(rv.String()), 64)
		return f, err == nil
	}
	return 0, false
}
