package cache

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniRedis(t *testing.T) (*miniredis.Miniredis, *Cache) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c, err := NewCache(Config{}, WithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()})))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return mr, c
}

func TestNewCacheDefaults(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	c, err := NewCache(Config{Host: mr.Host(), Port: mustPort(t, mr)})
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, DefaultKeyPrefix, c.cfg.KeyPrefix)
	assert.Equal(t, DefaultTTL, c.cfg.TTL)
	assert.NoError(t, c.Ping(context.Background()))
}

func mustPort(t *testing.T, mr *miniredis.Miniredis) int {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	return port
}

func TestContentKey(t *testing.T) {
	_, c := setupMiniRedis(t)

	a := c.ContentKey("descriptor", []byte("abc"))
	assert.Equal(t, a, c.ContentKey("descriptor", []byte("abc")))
	assert.NotEqual(t, a, c.ContentKey("mapping", []byte("abc")))
	assert.NotEqual(t, a, c.ContentKey("descriptor", []byte("abd")))
	assert.NotEqual(t,
		c.ContentKey("k", []byte("ab"), []byte("c")),
		c.ContentKey("k", []byte("a"), []byte("bc")),
		"parts are delimited")
	assert.Regexp(t, `^testdatagen:descriptor:[0-9a-f]{64}$`, a)
}

func TestGetSetDelete(t *testing.T) {
	mr, c := setupMiniRedis(t)
	ctx := context.Background()
	key := c.ContentKey("blob", []byte("x"))

	_, err := c.Get(ctx, key)
	assert.ErrorIs(t, err, ErrMiss)
	assert.True(t, IsMiss(err))

	require.NoError(t, c.Set(ctx, key, []byte("compiled")))
	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("compiled"), got)
	assert.Equal(t, DefaultTTL, mr.TTL(key))

	ttl, err := c.TTL(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, ttl)

	n, err := c.Delete(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = c.TTL(ctx, key)
	assert.ErrorIs(t, err, ErrMiss)

	assert.Equal(t, Stats{Hits: 1, Misses: 1}, c.Stats())
}

func TestExpiryIsDelegatedToRedis(t *testing.T) {
	mr, c := setupMiniRedis(t)
	ctx := context.Background()
	key := c.ContentKey("blob", []byte("x"))

	require.NoError(t, c.Set(ctx, key, []byte("v")))
	mr.FastForward(DefaultTTL + time.Second)

	_, err := c.Get(ctx, key)
	assert.True(t, IsMiss(err))
}

func TestGetOrCompute(t *testing.T) {
	_, c := setupMiniRedis(t)
	ctx := context.Background()
	key := c.ContentKey("blob", []byte("src"))

	calls := 0
	compute := func(context.Context) ([]byte, error) {
		calls++
		return []byte("artifact"), nil
	}

	for i := 0; i < 3; i++ {
		got, err := c.GetOrCompute(ctx, key, compute)
		require.NoError(t, err)
		assert.Equal(t, []byte("artifact"), got)
	}
	assert.Equal(t, 1, calls)

	boom := errors.New("boom")
	_, err := c.GetOrCompute(ctx, c.ContentKey("blob", []byte("other")), func(context.Context) ([]byte, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestGetOrComputeWhenRedisIsDown(t *testing.T) {
	mr, c := setupMiniRedis(t)
	mr.Close()

	got, err := c.GetOrCompute(context.Background(), "k", func(context.Context) ([]byte, error) {
		return []byte("fresh"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("fresh"), got)
}

func TestSchemaIDs(t *testing.T) {
	mr, c := setupMiniRedis(t)
	ctx := context.Background()

	_, ok := c.LookupSchemaID(ctx, "users-value", "message User {}")
	assert.False(t, ok)

	c.StoreSchemaID(ctx, "users-value", "message User {}", 42)
	id, ok := c.LookupSchemaID(ctx, "users-value", "message User {}")
	require.True(t, ok)
	assert.Equal(t, 42, id)

	_, ok = c.LookupSchemaID(ctx, "users-value", "message User { string name = 1; }")
	assert.False(t, ok, "a changed schema is a different key")

	require.NoError(t, mr.Set(c.schemaIDKey("orders-value", "x"), "not-a-number"))
	_, ok = c.LookupSchemaID(ctx, "orders-value", "x")
	assert.False(t, ok)
}

func TestPurge(t *testing.T) {
	mr, c := setupMiniRedis(t)
	ctx := context.Background()

	for i := 0; i < 150; i++ {
		require.NoError(t, c.Set(ctx, c.ContentKey("blob", []byte{byte(i)}), []byte("v")))
	}
	require.NoError(t, mr.Set("unrelated", "keep"))

	n, err := c.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(150), n)
	assert.True(t, mr.Exists("unrelated"))
}

func TestClosedCache(t *testing.T) {
	_, c := setupMiniRedis(t)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	_, err := c.Get(context.Background(), "k")
	assert.True(t, IsClosed(err))
	assert.True(t, IsClosed(c.Set(context.Background(), "k", nil)))
	assert.True(t, IsClosed(c.Ping(context.Background())))
}

func TestRedisErrorsAreReported(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c, err := NewCache(Config{KeyPrefix: "t", TTL: time.Minute}, WithClient(client))
	require.NoError(t, err)
	ctx := context.Background()
	down := errors.New("connection refused")

	mock.ExpectGet("t:k").SetErr(down)
	_, err = c.Get(ctx, "t:k")
	assert.ErrorIs(t, err, down)
	assert.False(t, IsMiss(err))

	mock.ExpectSet("t:k", []byte("v"), time.Minute).SetErr(down)
	assert.ErrorIs(t, c.Set(ctx, "t:k", []byte("v")), down)

	// A failing store still yields the computed artifact.
	mock.ExpectGet("t:k").RedisNil()
	mock.ExpectSet("t:k", []byte("fresh"), time.Minute).SetErr(down)
	got, err := c.GetOrCompute(ctx, "t:k", func(context.Context) ([]byte, error) {
		return []byte("fresh"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("fresh"), got)

	mock.ExpectTTL("t:k").SetVal(-2 * time.Nanosecond)
	_, err = c.TTL(ctx, "t:k")
	assert.ErrorIs(t, err, ErrMiss)

	assert.NoError(t, mock.ExpectationsWereMet())
}
