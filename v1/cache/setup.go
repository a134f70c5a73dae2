package cache

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/redis/go-redis/v9"

	"github.com/Aleph-Alpha/testdatagen/v1/logger"
)

// Logger is the logging surface the cache needs.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
}

// Cache is a Redis-backed artifact cache. It is safe for concurrent use.
type Cache struct {
	client redis.UniversalClient
	cfg    Config
	logger Logger

	hits   atomic.Int64
	misses atomic.Int64

	mu     sync.RWMutex
	closed bool
}

// Option customises a Cache.
type Option func(*Cache)

// WithClient uses client instead of dialing one from the config.
func WithClient(client redis.UniversalClient) Option {
	return func(c *Cache) { c.client = client }
}

// WithLogger sets the logger used for cache diagnostics.
func WithLogger(l Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCache creates a cache for cfg. No connection is made until the first
// command; call Ping to check reachability.
func NewCache(cfg Config, opts ...Option) (*Cache, error) {
	cfg = cfg.withDefaults()
	c := &Cache{cfg: cfg, logger: logger.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	if c.client != nil {
		return c, nil
	}

	var tlsConfig *tls.Config
	if cfg.TLS.Enabled {
		var err error
		tlsConfig, err = createTLSConfig(cfg.TLS, cfg.Host)
		if err != nil {
			return nil, fmt.Errorf("cache: failed to create TLS config: %w", err)
		}
	}

	c.client = redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		TLSConfig:    tlsConfig,
	})
	c.logger.Info("Cache client initialized", nil, map[string]interface{}{
		"addr":   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		"prefix": cfg.KeyPrefix,
		"ttl":    cfg.TTL.String(),
	})
	return c, nil
}

func createTLSConfig(cfg TLSConfig, defaultServerName string) (*tls.Config, error) {
	serverName := cfg.ServerName
	if serverName == "" {
		serverName = defaultServerName
	}
	tlsConfig := &tls.Config{
		ServerName:         serverName,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		MinVersion:         tls.VersionTLS12,
	}

	if cfg.CACertPath != "" {
		caCert, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA cert")
		}
		tlsConfig.RootCAs = pool
	}

	if cfg.ClientCertPath != "" && cfg.ClientKeyPath != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCertPath, cfg.ClientKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load client cert: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}
	return tlsConfig, nil
}

// Client returns the underlying go-redis client.
func (c *Cache) Client() redis.UniversalClient {
	return c.client
}

// Close closes the Redis client. Later calls return nil.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.logger.Info("Closing cache client", nil)
	if err := c.client.Close(); err != nil {
		c.logger.Warn("Failed to close cache client", err)
		return err
	}
	return nil
}

func (c *Cache) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
