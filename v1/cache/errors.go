package cache

import (
	"errors"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrMiss is returned when a key is not cached.
	ErrMiss = errors.New("cache: miss")

	// ErrClosed is returned when the cache is used after Close.
	ErrClosed = errors.New("cache: closed")
)

// IsMiss reports whether err is a cache miss, either ErrMiss or the
// underlying redis.Nil.
func IsMiss(err error) bool {
	return errors.Is(err, ErrMiss) || errors.Is(err, redis.Nil)
}

// IsClosed reports whether err reports use of a closed cache.
func IsClosed(err error) bool {
	return errors.Is(err, ErrClosed) || errors.Is(err, redis.ErrClosed)
}
