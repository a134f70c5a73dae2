package executor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Aleph-Alpha/testdatagen/v1/callable"
	"github.com/Aleph-Alpha/testdatagen/v1/capability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExecutor(t *testing.T, level string, timeout time.Duration) *Executor {
	t.Helper()
	e, err := New(Config{SecurityLevel: level, Timeout: timeout}, nil)
	require.NoError(t, err)
	return e
}

func TestParseSecurityLevel(t *testing.T) {
	tests := []struct {
		in   string
		want SecurityLevel
	}{
		{"unrestricted", Unrestricted},
		{"SAFE", Safe},
		{"", Safe},
		{" sandbox ", Sandbox},
	}
	for _, tt := range tests {
		got, err := ParseSecurityLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseSecurityLevel("jail")
	assert.ErrorIs(t, err, ErrInvalidSecurityLevel)
}

func TestNewDefaultsTimeout(t *testing.T) {
	e := newExecutor(t, "safe", 0)
	assert.Equal(t, DefaultTimeout, e.Timeout())
	assert.Equal(t, Safe, e.Level())
}

func TestExecuteSuccess(t *testing.T) {
	for _, level := range []SecurityLevel{Unrestricted, Safe, Sandbox} {
		t.Run(level.String(), func(t *testing.T) {
			e := newExecutor(t, level.String(), time.Second)
			res := e.Execute(context.Background(), func(a, b int) int { return a + b }, Options{}, 2, 3)
			require.True(t, res.Success)
			assert.NoError(t, res.Err)
			assert.Equal(t, 5, res.Value)
			assert.Greater(t, res.Duration, time.Duration(0))
		})
	}
}

func TestExecuteCapturesFailures(t *testing.T) {
	e := newExecutor(t, "safe", time.Second)
	boom := errors.New("boom")

	res := e.Execute(context.Background(), func() (string, error) { return "", boom }, Options{})
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, boom)

	res = e.Execute(context.Background(), func() string { panic("kaboom") }, Options{})
	assert.False(t, res.Success)
	assert.True(t, callable.IsPanic(res.Err))

	res = e.Execute(context.Background(), "not a function", Options{})
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, callable.ErrNotCallable)
}

func TestSafeLevelTimesOutInfiniteLoop(t *testing.T) {
	e := newExecutor(t, "safe", 50*time.Millisecond)

	loop := func() int {
		for {
			time.Sleep(time.Millisecond)
		}
	}

	start := time.Now()
	res := e.Execute(context.Background(), loop, Options{})
	elapsed := time.Since(start)

	assert.False(t, res.Success)
	assert.True(t, IsTimeout(res.Err))
	assert.Less(t, elapsed, 2*time.Second)
	assert.GreaterOrEqual(t, res.Duration, 50*time.Millisecond)
}

func TestCallTimeoutOverridesDefault(t *testing.T) {
	e := newExecutor(t, "unrestricted", time.Hour)

	res := e.Execute(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, Options{Timeout: 20 * time.Millisecond})

	assert.False(t, res.Success)
	assert.True(t, IsTimeout(res.Err))
}

func TestCancelledCallerContext(t *testing.T) {
	e := newExecutor(t, "safe", time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := e.Execute(ctx, func() { select {} }, Options{})
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, context.Canceled)
}

func TestSandboxStripsDangerousGrants(t *testing.T) {
	readsFiles := func(ctx context.Context) (bool, error) {
		if err := capability.Require(ctx, capability.FileSystem); err != nil {
			return false, err
		}
		return capability.FromContext(ctx).Has(capability.Clock), nil
	}
	grants := capability.NewSet(capability.FileSystem, capability.Clock)

	e := newExecutor(t, "safe", time.Second)

	res := e.ExecuteAt(context.Background(), Safe, readsFiles, Options{Grants: grants})
	require.True(t, res.Success)
	assert.Equal(t, true, res.Value)

	res = e.ExecuteAt(context.Background(), Sandbox, readsFiles, Options{Grants: grants})
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, capability.ErrDenied)

	// Grants inherited from the caller are restricted as well.
	ctx := capability.WithGrants(context.Background(), grants)
	res = e.ExecuteAt(ctx, Sandbox, readsFiles, Options{})
	assert.ErrorIs(t, res.Err, capability.ErrDenied)

	assert.True(t, grants.Has(capability.FileSystem), "caller grants are untouched")
	assert.True(t, capability.FromContext(ctx).Has(capability.FileSystem))
}

func TestExecuteInjectsCallContext(t *testing.T) {
	e := newExecutor(t, "safe", time.Second)
	fn := func(data map[string]interface{}, key string) interface{} { return data[key] }

	res := e.Execute(context.Background(), fn, Options{
		RequiresContext: true,
		CallContext:     map[string]interface{}{"id": 7},
	}, "id")
	require.True(t, res.Success)
	assert.Equal(t, 7, res.Value)
}
