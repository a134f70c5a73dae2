package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRules(t *testing.T) {
	tests := []struct {
		rule  string
		value interface{}
		ok    bool
	}{
		{"not_empty", "x", true},
		{"not_empty", "  ", false},
		{"not_empty", nil, false},
		{"not_empty", []interface{}{}, false},
		{"min_length:3", "héllo", true},
		{"min_length:3", "hé", false},
		{"max_length:2", []string{"a", "b", "c"}, false},
		{"max_length:2", "ab", true},
		{"min:18", 18, true},
		{"min:18", 17.5, false},
		{"max:100", "99", true},
		{"max:100", int64(101), false},
		{"min:0", "abc", false},
		{"pattern:^[a-z]+@", "ada@example.com", true},
		{"pattern:^[a-z]+@", "Ada@example.com", false},
		{"pattern:^\\d+$", 123, true},
	}
	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			r, err := ParseRule(tt.rule)
			require.NoError(t, err)
			err = r.Check(tt.value)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrRuleViolation)
			}
		})
	}
}

func TestParseRuleRejects(t *testing.T) {
	for _, expr := range []string{"unique", "min_length:-1", "max:ten", "pattern:(", "min_length"} {
		_, err := ParseRule(expr)
		assert.ErrorIs(t, err, ErrInvalidRule, expr)
	}
}

func TestRuleString(t *testing.T) {
	r, err := ParseRule("max_length:5")
	require.NoError(t, err)
	assert.Equal(t, "max_length:5", r.String())
}
