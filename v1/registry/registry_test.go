package registry

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return New(nil)
}

func TestRegisterAndGetBehavesLikeOriginal(t *testing.T) {
	reg := newTestRegistry(t)
	require.True(t, reg.Register("upper", strings.ToUpper, "Upper-case a string", CategoryString))

	fn, ok := reg.GetFunction("upper")
	require.True(t, ok)

	for _, in := range []string{"", "abc", "MiXeD", "ünïcode"} {
		got, err := fn.Call(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, strings.ToUpper(in), got)
	}
}

func TestRegisterRejections(t *testing.T) {
	reg := newTestRegistry(t)

	assert.False(t, reg.Register("1bad", strings.ToUpper, "", CategoryString), "name must not start with a digit")
	assert.False(t, reg.Register("bad-name", strings.ToUpper, "", CategoryString))
	assert.False(t, reg.Register("ok", "not a func", "", CategoryString))
	assert.False(t, reg.Register("ok", strings.ToUpper, "", Category("nope")))
	assert.False(t, reg.Register("ok", strings.ToUpper, "", CategoryString, WithNamespace("bad ns")))
	assert.False(t, reg.Register("ctx", strings.ToUpper, "", CategoryString, WithRequiresContext()),
		"context-requiring functions need a map parameter")

	require.True(t, reg.Register("ok", strings.ToUpper, "", CategoryString))
	assert.False(t, reg.Register("ok", strings.ToLower, "", CategoryString), "duplicate without overwrite")

	assert.Equal(t, 1, reg.Len())
}

func TestRegisterOverwriteReindexes(t *testing.T) {
	reg := newTestRegistry(t)
	require.True(t, reg.Register("fmt", strings.ToUpper, "", CategoryString, WithTags("old")))
	require.True(t, reg.Register("fmt", strings.ToLower, "", CategoryFormatting, WithTags("new"), WithOverwrite()))

	assert.Empty(t, reg.ListFunctions(ListFilter{Tag: "old"}))
	assert.Empty(t, reg.ListFunctions(ListFilter{Category: CategoryString}))
	assert.Equal(t, []string{"fmt"}, reg.ListFunctions(ListFilter{Tag: "new", Category: CategoryFormatting}))

	got, err := reg.ExecuteFunction(context.Background(), "fmt", "ABC")
	require.NoError(t, err)
	assert.Equal(t, "abc", got)
}

func TestUnregisterCleansEveryIndex(t *testing.T) {
	reg := newTestRegistry(t)
	require.True(t, reg.Register("name", func() string { return "x" }, "Fake name", CategoryFaker,
		WithNamespace("faker"), WithTags("person"), WithAliases("fake_name")))

	require.True(t, reg.Unregister("faker.name"))

	_, ok := reg.GetFunction("faker.name")
	assert.False(t, ok)
	_, ok = reg.GetFunction("fake_name")
	assert.False(t, ok)
	assert.Empty(t, reg.ListFunctions(ListFilter{Category: CategoryFaker}))
	assert.Empty(t, reg.ListFunctions(ListFilter{Tag: "person"}))
	assert.Empty(t, reg.ListFunctions(ListFilter{Namespace: "faker"}))
	assert.Empty(t, reg.Aliases())

	assert.False(t, reg.Unregister("faker.name"))
}

func TestAliasResolution(t *testing.T) {
	reg := newTestRegistry(t)
	double := func(n int) int { return n * 2 }
	require.True(t, reg.Register("double", double, "Double a number", CategoryNumeric, WithAliases("twice", "x2")))

	for _, x := range []int{-3, 0, 7} {
		a, err := reg.ExecuteFunction(context.Background(), "twice", x)
		require.NoError(t, err)
		b, err := reg.ExecuteFunction(context.Background(), "double", x)
		require.NoError(t, err)
		assert.Equal(t, b, a)
	}

	fn, ok := reg.GetFunction("x2")
	require.True(t, ok)
	assert.Equal(t, "double", fn.FullName())
	assert.ElementsMatch(t, []string{"twice", "x2"}, fn.Aliases)
}

func TestAliasRules(t *testing.T) {
	reg := newTestRegistry(t)
	require.True(t, reg.Register("a", strings.ToUpper, "", CategoryString))
	require.True(t, reg.Register("b", strings.ToLower, "", CategoryString, WithAliases("a", "bad alias", "lower")))

	fn, ok := reg.GetFunction("a")
	require.True(t, ok)
	assert.Equal(t, "a", fn.FullName(), "alias must not shadow a function")
	assert.Equal(t, map[string]string{"lower": "b"}, reg.Aliases())

	require.True(t, reg.Register("c", strings.TrimSpace, "", CategoryString, WithAliases("lower")))
	assert.Equal(t, "b", reg.Aliases()["lower"], "alias already taken stays put without overwrite")
}

func TestNamespacedRegistration(t *testing.T) {
	reg := newTestRegistry(t)
	require.True(t, reg.Register("email", func() string { return "a@b.c" }, "", CategoryFaker, WithNamespace("faker")))

	_, ok := reg.GetFunction("email")
	assert.False(t, ok)
	fn, ok := reg.GetFunction("faker.email")
	require.True(t, ok)
	assert.Equal(t, "faker", fn.Namespace)
	assert.Equal(t, []string{"faker.email"}, reg.ListFunctions(ListFilter{Namespace: "faker"}))
}

func TestExecuteFunctionNotFound(t *testing.T) {
	reg := newTestRegistry(t)
	require.True(t, reg.Register("b", strings.ToUpper, "", CategoryString))
	require.True(t, reg.Register("a", strings.ToLower, "", CategoryString))

	_, err := reg.ExecuteFunction(context.Background(), "missing", "x")
	require.Error(t, err)
	assert.True(t, IsFunctionNotFound(err))

	var nf *FunctionNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, []string{"a", "b"}, nf.Available)
	assert.Contains(t, err.Error(), "a, b")
}

func TestExecuteFunctionWrapsFailures(t *testing.T) {
	reg := newTestRegistry(t)
	boom := errors.New("boom")
	require.True(t, reg.Register("fails", func(s string) (string, error) { return "", boom }, "", CategoryCustom))
	require.True(t, reg.Register("panics", func(s string) string { panic("no") }, "", CategoryCustom))

	_, err := reg.ExecuteFunction(context.Background(), "fails", "x")
	require.Error(t, err)
	assert.True(t, IsExecutionFailed(err))
	assert.ErrorIs(t, err, boom)

	var ee *ExecutionError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, "fails", ee.Function)
	assert.Equal(t, 1, ee.ArgCount)

	_, err = reg.ExecuteFunction(context.Background(), "panics", "x")
	assert.True(t, IsExecutionFailed(err))

	_, err = reg.ExecuteFunction(context.Background(), "fails")
	assert.True(t, IsExecutionFailed(err), "argument count errors are execution errors too")
}

func TestExecuteFunctionInjectsCallContext(t *testing.T) {
	reg := newTestRegistry(t)
	greet := func(data map[string]interface{}, greeting string) string {
		return greeting + ", " + data["name"].(string)
	}
	require.True(t, reg.Register("greet", greet, "", CategoryCustom, WithRequiresContext()))

	got, err := reg.ExecuteFunctionWithContext(context.Background(), "greet",
		map[string]interface{}{"name": "Ada"}, "Hello")
	require.NoError(t, err)
	assert.Equal(t, "Hello, Ada", got)
}

func TestListFunctions(t *testing.T) {
	reg := newTestRegistry(t)
	require.True(t, reg.Register("upper", strings.ToUpper, "", CategoryString, WithTags("case")))
	require.True(t, reg.Register("lower", strings.ToLower, "", CategoryString, WithTags("case"), WithSafe(false)))
	require.True(t, reg.Register("trim", strings.TrimSpace, "", CategoryString, WithTags("whitespace")))
	require.True(t, reg.Register("abs", func(n int) int { return n }, "", CategoryNumeric, WithTags("case")))

	assert.Equal(t, []string{"abs", "lower", "trim", "upper"}, reg.ListFunctions(ListFilter{}))
	assert.Equal(t, []string{"lower", "trim", "upper"}, reg.ListFunctions(ListFilter{Category: CategoryString}))
	assert.Equal(t, []string{"lower", "upper"}, reg.ListFunctions(ListFilter{Category: CategoryString, Tag: "case"}))
	assert.Equal(t, []string{"upper"}, reg.ListFunctions(ListFilter{Category: CategoryString, Tag: "case", SafeOnly: true}))
	assert.Empty(t, reg.ListFunctions(ListFilter{Tag: "unknown"}))
}

func TestSearchFunctions(t *testing.T) {
	reg := newTestRegistry(t)
	require.True(t, reg.Register("upper", strings.ToUpper, "Converts text to UPPER case", CategoryString))
	require.True(t, reg.Register("slug", strings.ToLower, "URL friendly", CategoryFormatting, WithTags("Web")))
	require.True(t, reg.Register("pad", strings.TrimSpace, "", CategoryString))

	assert.Equal(t, []string{"upper"}, reg.SearchFunctions("upper"))
	assert.Equal(t, []string{"upper"}, reg.SearchFunctions("TEXT"))
	assert.Equal(t, []string{"slug"}, reg.SearchFunctions("web"))
	assert.Empty(t, reg.SearchFunctions("zzz"))
}

func TestStats(t *testing.T) {
	reg := newTestRegistry(t)
	require.True(t, reg.Register("name", func() string { return "" }, "", CategoryFaker, WithNamespace("faker"), WithAliases("n")))
	require.True(t, reg.Register("upper", strings.ToUpper, "", CategoryString, WithSafe(false), WithTags("case")))

	s := reg.Stats()
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 1, s.Safe)
	assert.Equal(t, 1, s.Aliases)
	assert.Equal(t, 1, s.ByCategory[CategoryFaker])
	assert.Equal(t, 1, s.Namespaces["faker"])
	assert.Equal(t, 1, s.Tags)
}

func TestConcurrentReaders(t *testing.T) {
	reg := newTestRegistry(t)
	require.True(t, reg.Register("upper", strings.ToUpper, "", CategoryString))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got, err := reg.ExecuteFunction(context.Background(), "upper", "go")
				assert.NoError(t, err)
				assert.Equal(t, "GO", got)
				reg.ListFunctions(ListFilter{Category: CategoryString})
			}
		}()
	}
	wg.Wait()
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("date_time")
	require.NoError(t, err)
	assert.Equal(t, CategoryDateTime, c)

	_, err = ParseCategory("time")
	assert.Error(t, err)
	assert.Len(t, Categories(), 10)
}
