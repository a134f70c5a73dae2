package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Stats is a snapshot of cache effectiveness since construction.
type Stats struct {
	Hits   int64
	Misses int64
}

// ContentKey derives the key for an artifact of the given kind built from
// content: <prefix>:<kind>:<sha256 hex>.
func (c *Cache) ContentKey(kind string, content ...[]byte) string {
	h := sha256.New()
	for _, part := range content {
		h.Write(part)
		h.Write([]byte{0})
	}
	return c.key(kind, hex.EncodeToString(h.Sum(nil)))
}

func (c *Cache) key(parts ...string) string {
	return c.cfg.KeyPrefix + ":" + strings.Join(parts, ":")
}

// Ping checks that Redis is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	if c.isClosed() {
		return ErrClosed
	}
	return c.client.Ping(ctx).Err()
}

// Get returns the artifact stored under key, or ErrMiss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.isClosed() {
		return nil, ErrClosed
	}
	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		c.misses.Add(1)
		return nil, ErrMiss
	case err != nil:
		return nil, fmt.Errorf("cache: get %s: %w", key, err)
	}
	c.hits.Add(1)
	return data, nil
}

// Set stores data under key with the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, data []byte) error {
	if c.isClosed() {
		return ErrClosed
	}
	if err := c.client.Set(ctx, key, data, c.cfg.TTL).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", key, err)
	}
	return nil
}

// Delete removes keys and returns how many existed.
func (c *Cache) Delete(ctx context.Context, keys ...string) (int64, error) {
	if c.isClosed() {
		return 0, ErrClosed
	}
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := c.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("cache: delete: %w", err)
	}
	return n, nil
}

// TTL returns the time left before key expires.
func (c *Cache) TTL(ctx context.Context, key string) (time.Duration, error) {
	if c.isClosed() {
		return 0, ErrClosed
	}
	d, err := c.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("cache: ttl %s: %w", key, err)
	}
	if d < 0 {
		return 0, ErrMiss
	}
	return d, nil
}

// GetOrCompute returns the artifact under key, computing and storing it
// on a miss. A failure to store is logged and the computed value returned.
func (c *Cache) GetOrCompute(ctx context.Context, key string, compute func(context.Context) ([]byte, error)) ([]byte, error) {
	data, err := c.Get(ctx, key)
	if err == nil {
		return data, nil
	}
	if !IsMiss(err) {
		c.logger.Warn("Cache lookup failed, computing artifact", err, map[string]interface{}{"key": key})
	}

	data, err = compute(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.Set(ctx, key, data); err != nil {
		c.logger.Warn("Failed to cache artifact", err, map[string]interface{}{"key": key})
	}
	return data, nil
}

// Purge deletes every key under the cache prefix and returns the count.
// Keys are collected before deletion so the scan is not disturbed.
func (c *Cache) Purge(ctx context.Context) (int64, error) {
	if c.isClosed() {
		return 0, ErrClosed
	}
	var keys []string
	iter := c.client.Scan(ctx, 0, c.cfg.KeyPrefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("cache: scan: %w", err)
	}

	var total int64
	for start := 0; start < len(keys); start += 100 {
		end := min(start+100, len(keys))
		n, err := c.Delete(ctx, keys[start:end]...)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// Stats returns the hit and miss counters.
func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// LookupSchemaID returns the registry ID cached for schema under subject.
func (c *Cache) LookupSchemaID(ctx context.Context, subject, schema string) (int, bool) {
	data, err := c.Get(ctx, c.schemaIDKey(subject, schema))
	if err != nil {
		if !IsMiss(err) {
			c.logger.Warn("Schema ID lookup failed", err, map[string]interface{}{"subject": subject})
		}
		return 0, false
	}
	id, err := strconv.Atoi(string(data))
	if err != nil {
		c.logger.Warn("Discarding malformed cached schema ID", err, map[string]interface{}{"subject": subject})
		return 0, false
	}
	c.logger.Debug("Schema ID served from cache", nil, map[string]interface{}{"subject": subject, "id": id})
	return id, true
}

// StoreSchemaID caches the registry ID of schema under subject.
func (c *Cache) StoreSchemaID(ctx context.Context, subject, schema string, id int) {
	if err := c.Set(ctx, c.schemaIDKey(subject, schema), []byte(strconv.Itoa(id))); err != nil {
		c.logger.Warn("Failed to cache schema ID", err, map[string]interface{}{"subject": subject})
	}
}

func (c *Cache) schemaIDKey(subject, schema string) string {
	return c.ContentKey("schema_id", []byte(subject), []byte(schema))
}
