package transformer

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/testdatagen/v1/registry"
)

func TestRegisterBuiltins(t *testing.T) {
	reg := registry.New(nil)
	added := RegisterBuiltins(reg)
	assert.Equal(t, BuiltinNames(), added)
	assert.Empty(t, RegisterBuiltins(reg), "second registration adds nothing")

	out, err := reg.ExecuteFunction(context.Background(), "snake_case", "fullName")
	require.NoError(t, err)
	assert.Equal(t, "full_name", out)

	ts, ok := reg.GetFunction("timestamp")
	require.True(t, ok)
	assert.Contains(t, ts.TagList(), "builtin")
}

func TestCaseConversions(t *testing.T) {
	assert.Equal(t, "Hello World", Title("hello wORLD"))
	assert.Equal(t, "O'Neil", Title("o'neil"))
	assert.Equal(t, "full_name", SnakeCase("fullName"))
	assert.Equal(t, "full_name", SnakeCase("Full Name"))
	assert.Equal(t, "user_id2", SnakeCase("user-id2"))
	assert.Equal(t, "fullName", CamelCase("full_name"))
	assert.Equal(t, "fullName", CamelCase("Full Name"))
	assert.Equal(t, "", CamelCase(""))
}

func TestNumericConversions(t *testing.T) {
	n, err := ToInt("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	n, err = ToInt("4.0")
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	n, err = ToInt(true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = ToInt(3.5)
	assert.Error(t, err)
	_, err = ToInt("abc")
	assert.Error(t, err)

	for _, v := range []interface{}{9223372036854775808.0, "9223372036854775808", uint64(math.MaxInt64) + 1} {
		_, err = ToInt(v)
		assert.Error(t, err, "%v", v)
	}
	n, err = ToInt(int64(math.MaxInt64))
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), n)
	n, err = ToInt(-9223372036854775808.0)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MinInt64), n)

	f, err := ToFloat(" 1.5 ")
	require.NoError(t, err)
	assert.Equal(t, 1.5, f)

	_, err = ToFloat([]int{1})
	assert.Error(t, err)
}

func TestToStringAndToBool(t *testing.T) {
	assert.Equal(t, "2.5", ToString(2.5))
	assert.Equal(t, "3", ToString(3.0))
	assert.Equal(t, "7", ToString(7))
	assert.Equal(t, "", ToString(nil))

	for in, want := range map[interface{}]bool{"yes": true, "Off": false, "1": true, 0: false, 2.5: true, true: true} {
		got, err := ToBool(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ToBool("maybe")
	assert.Error(t, err)
}

func TestTimestampAndDuration(t *testing.T) {
	ts, err := Timestamp("2024-01-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), ts.AsTime())

	ts, err = Timestamp(1700000000.5)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), ts.Seconds)
	assert.Equal(t, int32(500000000), ts.Nanos)

	before := time.Now().Add(-time.Second)
	ts, err = Timestamp("now")
	require.NoError(t, err)
	assert.True(t, ts.AsTime().After(before))

	_, err = Timestamp("yesterday-ish")
	assert.Error(t, err)

	d, err := Duration(1.5)
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, d.AsDuration())

	d, err = Duration("1m30s")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d.AsDuration())

	d, err = Duration("45")
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, d.AsDuration())
}

func TestToList(t *testing.T) {
	assert.Nil(t, toList(nil))
	assert.Equal(t, []interface{}{"a"}, toList("a"))
	assert.Equal(t, []interface{}{[]byte("ab")}, toList([]byte("ab")))
	assert.Equal(t, []interface{}{1, 2}, toList([]int{1, 2}))
	assert.Equal(t, []interface{}{map[string]interface{}{}}, toList(map[string]interface{}{}))
}
