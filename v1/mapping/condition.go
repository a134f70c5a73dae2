package mapping

import (
	"fmt"
	"strconv"
	"strings"
)

type conditionOp int

const (
	opExists conditionOp = iota
	opEquals
)

// Condition is a compiled condition expression. Two forms exist:
//
//	exists:<path>       the source path resolves to a non-nil value
//	<path>==<literal>   the value at path, formatted, equals literal
//
// Literals may be quoted with single or double quotes. A numeric value is
// also compared by value, so count==3.0 holds for count 3.
type Condition struct {
	expr    string
	op      conditionOp
	path    string
	literal string
}

// ParseCondition compiles expr.
func ParseCondition(expr string) (*Condition, error) {
	e := strings.TrimSpace(expr)
	if rest, ok := strings.CutPrefix(e, "exists:"); ok {
		path := strings.TrimSpace(rest)
		if path == "" {
			return nil, fmt.Errorf("%w: %q has no field", ErrInvalidCondition, expr)
		}
		return &Condition{expr: e, op: opExists, path: path}, nil
	}

	path, literal, ok := strings.Cut(e, "==")
	if !ok {
		return nil, fmt.Errorf("%w: %q is neither exists:<field> nor <field>==<value>", ErrInvalidCondition, expr)
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: %q has no field", ErrInvalidCondition, expr)
	}
	return &Condition{expr: e, op: opEquals, path: path, literal: unquote(strings.TrimSpace(literal))}, nil
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// Eval evaluates the condition against data.
func (c *Condition) Eval(data map[string]interface{}) bool {
	v, ok := Lookup(data, c.path).Get()
	switch c.op {
	case opExists:
		return ok
	case opEquals:
		return ok && c.equals(v)
	}
	return false
}

func (c *Condition) equals(v interface{}) bool {
	if fmt.Sprint(v) == c.literal {
		return true
	}
	if _, isString := v.(string); isString {
		return false
	}
	n, ok := number(v)
	if !ok {
		return false
	}
	lit, err := strconv.ParseFloat(c.literal, 64)
	return err == nil && n == lit
}

// String returns the original expression.
func (c *Condition) String() string {
	return c.expr
}
