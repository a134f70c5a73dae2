package mapping

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullDocument = `
target_schema: testdata.v1.User
field_mappings:
  full_name: name
  email:
    source: contact.email
    transform: lower
    required: true
    validation: [not_empty, "pattern:@"]
  username:
    type: computed
    function: faker.username
  status:
    conditions:
      - when: "active==true"
        value: STATUS_ACTIVE
      - when: exists:disabled_at
        value: STATUS_DISABLED
    default: STATUS_UNSPECIFIED
  address:
    source: address
    nested:
      city: town
      zip:
        source: postcode
        default: "00000"
mappings:
  - target: tags
    source: labels
    type: repeated
    transform: upper
auto_mapping:
  enabled: false
`

func TestParseFullDocument(t *testing.T) {
	cfg, err := Parse([]byte(fullDocument))
	require.NoError(t, err)

	assert.Equal(t, "testdata.v1.User", cfg.TargetSchema)
	assert.False(t, cfg.AutoMapping)

	var targets []string
	for _, m := range cfg.Mappings {
		targets = append(targets, m.Target)
	}
	assert.Equal(t, []string{"full_name", "email", "username", "status", "address", "tags"}, targets)

	byTarget := map[string]FieldMapping{}
	for _, m := range cfg.Mappings {
		byTarget[m.Target] = m
	}

	assert.Equal(t, FieldMapping{Target: "full_name", Source: "name", Kind: KindDirect}, byTarget["full_name"])

	email := byTarget["email"]
	assert.Equal(t, KindDirect, email.Kind)
	assert.Equal(t, "lower", email.Function)
	assert.True(t, email.Required)
	assert.Len(t, email.Rules(), 2)

	assert.Equal(t, KindComputed, byTarget["username"].Kind)

	status := byTarget["status"]
	assert.Equal(t, KindConditional, status.Kind)
	require.Len(t, status.Conditions, 2)
	assert.True(t, status.Conditions[0].HasValue)
	assert.NotNil(t, status.Conditions[1].Gate())
	assert.True(t, status.HasDefault)
	assert.Equal(t, "STATUS_UNSPECIFIED", status.Default)

	address := byTarget["address"]
	assert.Equal(t, KindNested, address.Kind)
	require.Len(t, address.Nested, 2)
	assert.Equal(t, "town", address.Nested[0].Source)
	assert.Equal(t, "00000", address.Nested[1].Default)

	assert.Equal(t, KindRepeated, byTarget["tags"].Kind)
	assert.Equal(t, "upper", byTarget["tags"].Function)
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("field_mappings:\n  full_name: name\n"))
	require.NoError(t, err)
	assert.True(t, cfg.AutoMapping)

	cfg, err = Parse([]byte(`{"field_mappings": {"email": {"source": "mail"}}}`))
	require.NoError(t, err)
	require.Len(t, cfg.Mappings, 1)
	assert.Equal(t, KindDirect, cfg.Mappings[0].Kind)
	assert.False(t, cfg.Mappings[0].HasDefault)
}

func problemsOf(t *testing.T, err error) []string {
	t.Helper()
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	var ce *ConfigError
	require.True(t, errors.As(err, &ce))
	return ce.Problems
}

func TestParseRejectsSemanticProblems(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "duplicate target across forms",
			doc:  "field_mappings:\n  email: mail\nmappings:\n  - target: email\n    source: other\n",
			want: "duplicate target",
		},
		{
			name: "direct without source",
			doc:  "field_mappings:\n  email:\n    type: direct\n",
			want: "direct mapping requires a source",
		},
		{
			name: "computed without function",
			doc:  "field_mappings:\n  email:\n    type: computed\n    source: mail\n",
			want: "computed mapping requires a function",
		},
		{
			name: "conditional without conditions",
			doc:  "field_mappings:\n  status:\n    type: conditional\n    conditions: []\n",
			want: "at least one condition",
		},
		{
			name: "branch with value and function",
			doc:  "field_mappings:\n  status:\n    conditions:\n      - when: exists:a\n        value: 1\n        function: upper\n",
			want: "mutually exclusive",
		},
		{
			name: "unknown kind",
			doc:  "field_mappings:\n  email:\n    type: magic\n    source: mail\n",
			want: `unknown mapping type "magic"`,
		},
		{
			name: "bad condition",
			doc:  "field_mappings:\n  email:\n    source: mail\n    condition: a > b\n",
			want: "invalid condition",
		},
		{
			name: "bad rule",
			doc:  "field_mappings:\n  email:\n    source: mail\n    validation: min_length:x\n",
			want: "invalid validation rule",
		},
		{
			name: "nested problem",
			doc:  "field_mappings:\n  address:\n    source: addr\n    nested:\n      city:\n        type: computed\n",
			want: "address.nested.city",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			problems := problemsOf(t, err)
			assert.Contains(t, strings.Join(problems, "\n"), tt.want)
		})
	}
}

func TestParseReportsEveryProblem(t *testing.T) {
	doc := "field_mappings:\n  a:\n    type: direct\n  b:\n    type: computed\n"
	_, err := Parse([]byte(doc))
	assert.Len(t, problemsOf(t, err), 2)
}

func TestParseRejectsStructuralProblems(t *testing.T) {
	for _, doc := range []string{
		"field_mappings:\n  email:\n    sauce: mail\n",
		"field_mappings:\n  age: 5\n",
		"unknown_section: true\n",
		"mappings:\n  - source: mail\n",
		"auto_mapping:\n  enabled: maybe\n",
		"",
	} {
		_, err := Parse([]byte(doc))
		problemsOf(t, err)
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("field_mappings: [unclosed"))
	require.Error(t, err)
	assert.False(t, IsConfigError(err))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fullDocument), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Mappings, 6)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidateProgrammaticConfig(t *testing.T) {
	cfg := &Config{Mappings: []FieldMapping{
		{Target: "full_name", Function: "faker.name"},
		{Target: "email", Source: "mail", Condition: "exists:mail"},
	}}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, KindComputed, cfg.Mappings[0].Kind)
	assert.Equal(t, KindDirect, cfg.Mappings[1].Kind)
	assert.NotNil(t, cfg.Mappings[1].Gate())

	cfg.Mappings = append(cfg.Mappings, FieldMapping{Target: "full_name", Source: "name"})
	assert.True(t, IsConfigError(cfg.Validate()))
}
