// Package cache stores compiled artifacts in Redis, keyed by a hash of
// the content they were derived from.
//
// The first consumer is the schema registry serializer: the ID a schema
// was registered under is cached per subject and schema text, so repeated
// produce runs skip the registration round trip. Arbitrary artifacts can
// be cached through GetOrCompute.
//
// Basic usage:
//
//	c, err := cache.NewCache(cache.Config{Host: "localhost", Port: 6379})
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	key := c.ContentKey("descriptor", raw)
//	data, err := c.GetOrCompute(ctx, key, func(ctx context.Context) ([]byte, error) {
//		return compile(raw)
//	})
//
// Expiry is delegated to Redis through the configured TTL.
//
// # Failure Handling
//
// The cache never decides whether an operation succeeds. GetOrCompute
// computes on any lookup failure and returns the computed value even when
// storing it fails; both problems are logged at warn level. The fx start
// hook pings Redis and only logs when it is unreachable. Get reports a
// miss as ErrMiss (IsMiss also matches redis.Nil); other Redis errors are
// wrapped and returned.
//
// # Configuration
//
//	CACHE_ENABLED=true
//	CACHE_HOST=localhost
//	CACHE_PORT=6379
//	CACHE_DB=0
//	CACHE_KEY_PREFIX=testdatagen   # every key starts with <prefix>:
//	CACHE_TTL=24h
//	CACHE_TLS_ENABLED=true         # plus CACHE_TLS_CA_CERT_PATH and friends
//
// Purge deletes every key under the prefix and nothing else.
//
// # Thread Safety
//
// A Cache is safe for concurrent use; Close is idempotent.
package cache
