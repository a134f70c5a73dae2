package faker

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/testdatagen/v1/registry"
)

func TestRegisterAllGenerators(t *testing.T) {
	reg := registry.New(nil)
	registered := New(Config{Seed: 1}).Register(reg)

	require.Len(t, registered, len(Names()))
	assert.True(t, sort.StringsAreSorted(registered))
	assert.Equal(t, registered, reg.ListFunctions(registry.ListFilter{Namespace: Namespace}))
	assert.Equal(t, registered, reg.ListFunctions(registry.ListFilter{Category: registry.CategoryFaker, Tag: "faker"}))
	assert.Contains(t, reg.ListFunctions(registry.ListFilter{Tag: "address"}), "faker.city")
}

func TestGeneratorsProduceValues(t *testing.T) {
	reg := registry.New(nil)
	New(Config{Seed: 7}).Register(reg)
	ctx := context.Background()

	for _, name := range []string{"name", "email", "address", "phone", "company", "uuid"} {
		out, err := reg.ExecuteFunction(ctx, "faker."+name)
		require.NoError(t, err, name)
		s, ok := out.(string)
		require.True(t, ok, name)
		assert.NotEmpty(t, s, name)
	}

	out, err := reg.ExecuteFunction(ctx, "faker.email")
	require.NoError(t, err)
	assert.Contains(t, out, "@")

	out, err = reg.ExecuteFunction(ctx, "faker.int_range", 10, 1)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, out.(int), 1)
	assert.LessOrEqual(t, out.(int), 10)

	out, err = reg.ExecuteFunction(ctx, "faker.sentence", 3)
	require.NoError(t, err)
	assert.Len(t, strings.Fields(out.(string)), 3)

	out, err = reg.ExecuteFunction(ctx, "faker.date")
	require.NoError(t, err)
	assert.IsType(t, time.Time{}, out)
}

func TestSeedIsReproducible(t *testing.T) {
	first := registry.New(nil)
	second := registry.New(nil)
	New(Config{Seed: 99}).Register(first)
	New(Config{Seed: 99}).Register(second)

	for i := 0; i < 5; i++ {
		a, err := first.ExecuteFunction(context.Background(), "faker.name")
		require.NoError(t, err)
		b, err := second.ExecuteFunction(context.Background(), "faker.name")
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}
