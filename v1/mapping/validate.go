package mapping

import (
	"fmt"
)

// Validate checks the semantic rules of every mapping, nested ones
// included, and compiles conditions and validation rules for evaluation.
// All problems are returned together in a *ConfigError.
//
// Rules:
//   - targets are non-empty and unique within one mapping list
//   - the kind is known
//   - direct, nested and repeated mappings have a source
//   - computed mappings have a function
//   - conditional mappings have at least one branch, each with a valid
//     condition and at most one of value and function
//   - nested mappings have nested mappings
//   - conditions and validation rules parse
func (c *Config) Validate() error {
	problems := validateMappings(c.Mappings, "mappings")
	if len(problems) > 0 {
		return &ConfigError{Problems: problems}
	}
	return nil
}

func validateMappings(ms []FieldMapping, at string) []string {
	var problems []string
	seen := make(map[string]int, len(ms))

	for i := range ms {
		m := &ms[i]
		where := fmt.Sprintf("%s[%d]", at, i)
		if m.Target != "" {
			where = at + "." + m.Target
		}

		if m.Target == "" {
			problems = append(problems, where+": target is required")
		} else if first, dup := seen[m.Target]; dup {
			problems = append(problems, fmt.Sprintf("%s: duplicate target (first defined at position %d)", where, first))
		} else {
			seen[m.Target] = i
		}

		problems = append(problems, validateMapping(m, where)...)
	}
	return problems
}

func validateMapping(m *FieldMapping, where string) []string {
	var problems []string
	add := func(format string, args ...interface{}) {
		problems = append(problems, where+": "+fmt.Sprintf(format, args...))
	}

	if m.Kind == "" {
		m.Kind = inferKind(*m)
	}
	if !m.Kind.Valid() {
		add("unknown mapping type %q", m.Kind)
	}

	switch m.Kind {
	case KindDirect:
		if m.Source == "" {
			add("direct mapping requires a source")
		}
	case KindComputed:
		if m.Function == "" {
			add("computed mapping requires a function")
		}
	case KindConditional:
		if len(m.Conditions) == 0 {
			add("conditional mapping requires at least one condition")
		}
	case KindNested:
		if m.Source == "" {
			add("nested mapping requires a source")
		}
		if len(m.Nested) == 0 {
			add("nested mapping requires nested mappings")
		}
	case KindRepeated:
		if m.Source == "" {
			add("repeated mapping requires a source")
		}
	}

	m.cond = nil
	if m.Condition != "" {
		cond, err := ParseCondition(m.Condition)
		if err != nil {
			add("condition: %v", err)
		} else {
			m.cond = cond
		}
	}

	for i := range m.Conditions {
		b := &m.Conditions[i]
		if b.HasValue && b.Function != "" {
			add("conditions[%d]: value and function are mutually exclusive", i)
		}
		if b.When == "" {
			add("conditions[%d]: when is required", i)
			continue
		}
		cond, err := ParseCondition(b.When)
		if err != nil {
			add("conditions[%d]: %v", i, err)
			continue
		}
		b.cond = cond
	}

	m.rules = nil
	for _, expr := range m.Validation {
		r, err := ParseRule(expr)
		if err != nil {
			add("validation: %v", err)
			continue
		}
		m.rules = append(m.rules, r)
	}

	if len(m.Nested) > 0 {
		problems = append(problems, validateMappings(m.Nested, where+".nested")...)
	}
	return problems
}
