package validator

import (
	"context"
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Aleph-Alpha/testdatagen/v1/capability"
	"github.com/Aleph-Alpha/testdatagen/v1/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := New(Config{Level: "standard", ProbeTimeout: 200 * time.Millisecond}, nil, nil)
	require.NoError(t, err)
	return v
}

func shout(s string) string {
	return strings.ToUpper(s) + "!"
}

// whisper lower-cases s.
func whisper(s string) string {
	return strings.ToLower(s)
}

func readsEnv(key string) string {
	return os.Getenv(key)
}

func mustNotBeEmpty(s string) string {
	if s == "" {
		panic("empty input")
	}
	return s
}

func spawns(s string) string {
	done := make(chan struct{})
	go func() { close(done) }()
	<-done
	return s
}

func branchy(n int) string {
	if n == 1 {
		return "one"
	}
	if n == 2 {
		return "two"
	}
	if n == 3 || n == 4 {
		return "few"
	}
	for i := 0; i < n; i++ {
		if i > 100 && n > 200 {
			return "many"
		}
	}
	switch {
	case n < 0:
		return "negative"
	case n > 1000:
		return "huge"
	case n > 500:
		return "large"
	}
	return "some"
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"basic": Basic, "": Standard, "STRICT": Strict, "paranoid": Paranoid} {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseLevel("lenient")
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestBasicAcceptsDocumentedFunction(t *testing.T) {
	v := newValidator(t)

	res := v.Validate(context.Background(), shout, Basic, Options{Name: "shout", Description: "Shout the input"})
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, 1, res.Metadata["param_count"])
	assert.Equal(t, 1, res.Metadata["required_params"])
	assert.Equal(t, true, res.Metadata["has_return"])
}

func TestBasicWarnsOnceWithoutDescription(t *testing.T) {
	v := newValidator(t)

	res := v.Validate(context.Background(), shout, Basic, Options{Name: "shout"})
	assert.True(t, res.Valid)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "docstring")
}

func TestBasicUsesDocComment(t *testing.T) {
	v := newValidator(t)

	res := v.Validate(context.Background(), whisper, Basic, Options{Name: "whisper"})
	assert.True(t, res.Valid)
	assert.Empty(t, res.Warnings)
}

func TestBasicRejectsNonFunctions(t *testing.T) {
	v := newValidator(t)

	res := v.Validate(context.Background(), 42, Paranoid, Options{Name: "answer"})
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "not a function")
}

func TestBasicWarnsWithoutRequiredParams(t *testing.T) {
	v := newValidator(t)

	res := v.Validate(context.Background(), func() string { return "x" }, Basic, Options{Description: "constant"})
	assert.True(t, res.Valid)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "no required parameters")
}

func TestStandardTypeChecks(t *testing.T) {
	v := newValidator(t)

	loose := func(a, b interface{}) interface{} { return a }
	res := v.Validate(context.Background(), loose, Standard, Options{Description: "loose"})
	assert.True(t, res.Valid)
	assert.Equal(t, 0, res.Metadata["annotated_params"])
	assert.Len(t, res.Warnings, 2)

	res = v.Validate(context.Background(), shout, Standard, Options{
		Description:    "Shout the input",
		ExpectedInputs: []reflect.Type{reflect.TypeOf(0)},
		ExpectedOutput: reflect.TypeOf(0),
	})
	assert.True(t, res.Valid, "type mismatches are warnings")
	assert.Len(t, res.Warnings, 2)

	res = v.Validate(context.Background(), shout, Standard, Options{
		Description:    "Shout the input",
		ExpectedInputs: []reflect.Type{reflect.TypeOf("")},
		ExpectedOutput: reflect.TypeOf(""),
	})
	assert.Empty(t, res.Warnings)
}

func TestStrictFlagsDangerousCode(t *testing.T) {
	tests := []struct {
		name    string
		fn      interface{}
		finding string
	}{
		{"package access", readsEnv, "os.Getenv"},
		{"builtin", mustNotBeEmpty, "panic"},
		{"goroutine", spawns, "goroutine"},
		{"closure", func(s string) string { println(s); return s }, "println"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newValidator(t)

			res := v.Validate(context.Background(), tt.fn, Strict, Options{Name: tt.name, Description: "x"})
			assert.False(t, res.Valid)
			require.NotEmpty(t, res.Errors)
			assert.Contains(t, strings.Join(res.Errors, "\n"), tt.finding)

			res = v.Validate(context.Background(), tt.fn, Strict, Options{Name: tt.name, Description: "x", AllowDangerous: true})
			assert.True(t, res.Valid)
			assert.Empty(t, res.Errors)
		})
	}
}

func TestStrictRecordsImportsAndComplexity(t *testing.T) {
	v := newValidator(t)

	res := v.Validate(context.Background(), readsEnv, Strict, Options{Name: "env", Description: "x", AllowDangerous: true})
	assert.Equal(t, []string{"os"}, res.Metadata["imports"])
	assert.Equal(t, 1, res.Metadata["complexity"])

	res = v.Validate(context.Background(), branchy, Strict, Options{Name: "branchy", Description: "x"})
	assert.True(t, res.Valid)
	assert.Greater(t, res.Metadata["complexity"], 10)
	assert.Contains(t, strings.Join(res.Warnings, "\n"), "cyclomatic complexity")

	res = v.Validate(context.Background(), shout, Strict, Options{Name: "shout", Description: "x"})
	assert.True(t, res.Valid)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, []string{"strings"}, res.Metadata["imports"])
}

func TestStrictChecksDeclaredCapabilities(t *testing.T) {
	v := newValidator(t)
	opts := Options{
		Name:         "fetch",
		Description:  "x",
		Capabilities: capability.NewSet(capability.Network, capability.Clock),
	}

	res := v.Validate(context.Background(), shout, Strict, opts)
	assert.False(t, res.Valid)
	assert.Equal(t, []string{`function declares dangerous capability "network"`}, res.Errors)

	opts.AllowDangerous = true
	res = v.Validate(context.Background(), shout, Strict, opts)
	assert.True(t, res.Valid)
}

func TestParanoidProbes(t *testing.T) {
	v := newValidator(t)

	res := v.Validate(context.Background(), shout, Paranoid, Options{Name: "shout", Description: "x"})
	assert.True(t, res.Valid)
	assert.Greater(t, res.Metadata["probes_passed"], 0)

	failing := func(n int) (int, error) { return 0, errors.New("nope") }
	res = v.Validate(context.Background(), failing, Paranoid, Options{Name: "failing", Description: "x"})
	assert.True(t, res.Valid, "probe failures never invalidate")
	assert.Equal(t, 0, res.Metadata["probes_passed"])
	assert.Equal(t, len(probes), res.Metadata["probes_failed"])
	assert.Contains(t, strings.Join(res.Warnings, "\n"), "failed on all")
}

func TestResultsAreCached(t *testing.T) {
	v := newValidator(t)

	first := v.Validate(context.Background(), shout, Strict, Options{Name: "shout"})
	assert.Equal(t, 1, v.CacheSize())

	first.Warnings = append(first.Warnings, "mutated")
	second := v.Validate(context.Background(), shout, Strict, Options{Name: "shout"})
	assert.NotContains(t, second.Warnings, "mutated")
	assert.Equal(t, 1, v.CacheSize())

	v.Validate(context.Background(), shout, Strict, Options{Name: "shout", AllowDangerous: true})
	assert.Equal(t, 2, v.CacheSize())

	v.ClearCache()
	assert.Equal(t, 0, v.CacheSize())
}

func TestValidateRegistered(t *testing.T) {
	reg := registry.New(nil)
	require.True(t, reg.Register("env", readsEnv, "Read an environment variable", registry.CategoryCustom,
		registry.WithCapabilities(capability.Environment)))
	fn, ok := reg.GetFunction("env")
	require.True(t, ok)

	v := newValidator(t)
	res := v.ValidateRegistered(context.Background(), fn, Strict, false)
	assert.False(t, res.Valid)
	assert.Len(t, res.Errors, 2)
}
