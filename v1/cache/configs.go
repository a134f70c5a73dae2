package cache

import "time"

// Defaults applied by NewCache when the corresponding field is zero.
const (
	DefaultHost        = "localhost"
	DefaultPort        = 6379
	DefaultKeyPrefix   = "testdatagen"
	DefaultTTL         = 24 * time.Hour
	DefaultDialTimeout = 5 * time.Second
	DefaultReadTimeout = 3 * time.Second
	DefaultMaxRetries  = 3
)

// Config defines the configuration of the artifact cache.
type Config struct {
	// Enabled switches the cache on. A disabled cache is never constructed
	// by the fx module and consumers fall back to their in-memory state.
	Enabled bool `yaml:"enabled" mapstructure:"enabled" envconfig:"CACHE_ENABLED" default:"false"`

	// Host is the Redis server hostname or IP address
	Host string `yaml:"host" mapstructure:"host" envconfig:"CACHE_HOST" default:"localhost"`

	// Port is the Redis server port
	Port int `yaml:"port" mapstructure:"port" envconfig:"CACHE_PORT" default:"6379"`

	// Username is the Redis ACL username (Redis 6.0+)
	Username string `yaml:"username" mapstructure:"username" envconfig:"CACHE_USERNAME"`

	// Password is the Redis password
	Password string `yaml:"password" mapstructure:"password" envconfig:"CACHE_PASSWORD"`

	// DB is the Redis database number
	DB int `yaml:"db" mapstructure:"db" envconfig:"CACHE_DB" default:"0"`

	// KeyPrefix namespaces every key written by the cache.
	KeyPrefix string `yaml:"key_prefix" mapstructure:"key_prefix" envconfig:"CACHE_KEY_PREFIX" default:"testdatagen"`

	// TTL is the expiry applied to cached artifacts. Expiry is left to Redis.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl" envconfig:"CACHE_TTL" default:"24h"`

	// PoolSize is the maximum number of socket connections
	PoolSize int `yaml:"pool_size" mapstructure:"pool_size" envconfig:"CACHE_POOL_SIZE"`

	// MaxRetries is the maximum number of retries before giving up.
	// Set to -1 to disable retries.
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries" envconfig:"CACHE_MAX_RETRIES" default:"3"`

	// DialTimeout is the timeout for establishing new connections
	DialTimeout time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout" envconfig:"CACHE_DIAL_TIMEOUT" default:"5s"`

	// ReadTimeout is the timeout for socket reads
	ReadTimeout time.Duration `yaml:"read_timeout" mapstructure:"read_timeout" envconfig:"CACHE_READ_TIMEOUT" default:"3s"`

	// WriteTimeout is the timeout for socket writes. Zero means ReadTimeout.
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout" envconfig:"CACHE_WRITE_TIMEOUT"`

	// TLS contains TLS/SSL configuration
	TLS TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// TLSConfig contains TLS/SSL configuration parameters.
type TLSConfig struct {
	// Enabled determines whether to use TLS/SSL for the connection
	Enabled bool `yaml:"enabled" mapstructure:"enabled" envconfig:"CACHE_TLS_ENABLED"`

	// CACertPath is the file path to the CA certificate for verifying the server
	CACertPath string `yaml:"ca_cert_path" mapstructure:"ca_cert_path" envconfig:"CACHE_TLS_CA_CERT_PATH"`

	// ClientCertPath is the file path to the client certificate
	ClientCertPath string `yaml:"client_cert_path" mapstructure:"client_cert_path" envconfig:"CACHE_TLS_CLIENT_CERT_PATH"`

	// ClientKeyPath is the file path to the client certificate's private key
	ClientKeyPath string `yaml:"client_key_path" mapstructure:"client_key_path" envconfig:"CACHE_TLS_CLIENT_KEY_PATH"`

	// InsecureSkipVerify skips verification of the server's certificate.
	// Only for testing.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify" mapstructure:"insecure_skip_verify" envconfig:"CACHE_TLS_INSECURE_SKIP_VERIFY"`

	// ServerName is used to verify the hostname on the returned certificates.
	// If empty, Host is used.
	ServerName string `yaml:"server_name" mapstructure:"server_name" envconfig:"CACHE_TLS_SERVER_NAME"`
}

func (c Config) withDefaults() Config {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = DefaultKeyPrefix
	}
	if c.TTL == 0 {
		c.TTL = DefaultTTL
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = DefaultDialTimeout
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	return c
}
