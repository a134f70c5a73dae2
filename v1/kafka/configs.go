package kafka

import "time"

const (
	DefaultRequiredAcks      = -1
	DefaultBatchSize         = 100
	DefaultBatchTimeout      = 10 * time.Millisecond
	DefaultMaxAttempts       = 3
	DefaultWriteTimeout      = 10 * time.Second
	DefaultPartitions        = 1
	DefaultReplicationFactor = 1
	DefaultBreakerFailures   = 5
	DefaultBreakerTimeout    = 30 * time.Second
)

// Config defines the producer and topic administration settings.
type Config struct {
	// Brokers lists the bootstrap brokers, e.g. ["localhost:9092"].
	Brokers []string `yaml:"brokers" mapstructure:"brokers" envconfig:"KAFKA_BROKERS" default:"localhost:9092"`

	// Topic is the default topic messages are written to.
	Topic string `yaml:"topic" mapstructure:"topic" envconfig:"KAFKA_TOPIC"`

	// RequiredAcks is -1 (all replicas) or 1 (leader). Zero means all.
	RequiredAcks int `yaml:"required_acks" mapstructure:"required_acks" envconfig:"KAFKA_REQUIRED_ACKS" default:"-1"`

	// Async returns from writes before the broker acknowledges them.
	Async bool `yaml:"async" mapstructure:"async" envconfig:"KAFKA_ASYNC"`

	BatchSize    int           `yaml:"batch_size" mapstructure:"batch_size" envconfig:"KAFKA_BATCH_SIZE" default:"100"`
	BatchTimeout time.Duration `yaml:"batch_timeout" mapstructure:"batch_timeout" envconfig:"KAFKA_BATCH_TIMEOUT" default:"10ms"`
	MaxAttempts  int           `yaml:"max_attempts" mapstructure:"max_attempts" envconfig:"KAFKA_MAX_ATTEMPTS" default:"3"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout" envconfig:"KAFKA_WRITE_TIMEOUT" default:"10s"`

	// CompressionCodec is one of "gzip", "snappy", "lz4", "zstd" or empty.
	CompressionCodec string `yaml:"compression_codec" mapstructure:"compression_codec" envconfig:"KAFKA_COMPRESSION_CODEC"`

	// RateLimit caps messages per second. Zero disables the limit.
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit" envconfig:"KAFKA_RATE_LIMIT"`
	RateBurst int     `yaml:"rate_burst" mapstructure:"rate_burst" envconfig:"KAFKA_RATE_BURST" default:"1"`

	// Partitions and ReplicationFactor apply to topics created by Admin.
	Partitions        int `yaml:"partitions" mapstructure:"partitions" envconfig:"KAFKA_PARTITIONS" default:"1"`
	ReplicationFactor int `yaml:"replication_factor" mapstructure:"replication_factor" envconfig:"KAFKA_REPLICATION_FACTOR" default:"1"`

	TLS     TLSConfig     `yaml:"tls" mapstructure:"tls"`
	SASL    SASLConfig    `yaml:"sasl" mapstructure:"sasl"`
	Breaker BreakerConfig `yaml:"breaker" mapstructure:"breaker"`
}

// TLSConfig enables TLS towards the brokers.
type TLSConfig struct {
	Enabled            bool   `yaml:"enabled" mapstructure:"enabled" envconfig:"KAFKA_TLS_ENABLED"`
	CACertPath         string `yaml:"ca_cert_path" mapstructure:"ca_cert_path" envconfig:"KAFKA_TLS_CA_CERT_PATH"`
	ClientCertPath     string `yaml:"client_cert_path" mapstructure:"client_cert_path" envconfig:"KAFKA_TLS_CLIENT_CERT_PATH"`
	ClientKeyPath      string `yaml:"client_key_path" mapstructure:"client_key_path" envconfig:"KAFKA_TLS_CLIENT_KEY_PATH"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify" mapstructure:"insecure_skip_verify" envconfig:"KAFKA_TLS_INSECURE_SKIP_VERIFY"`
}

// SASLConfig enables SASL authentication.
type SASLConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled" envconfig:"KAFKA_SASL_ENABLED"`

	// Mechanism is "PLAIN", "SCRAM-SHA-256" or "SCRAM-SHA-512".
	Mechanism string `yaml:"mechanism" mapstructure:"mechanism" envconfig:"KAFKA_SASL_MECHANISM"`
	Username  string `yaml:"username" mapstructure:"username" envconfig:"KAFKA_SASL_USERNAME"`
	Password  string `yaml:"password" mapstructure:"password" envconfig:"KAFKA_SASL_PASSWORD"`
}

// BreakerConfig tunes the circuit breaker around writes.
type BreakerConfig struct {
	// MaxFailures consecutive failed writes open the breaker.
	MaxFailures uint32 `yaml:"max_failures" mapstructure:"max_failures" envconfig:"KAFKA_BREAKER_MAX_FAILURES" default:"5"`

	// OpenTimeout is how long the breaker stays open before probing.
	OpenTimeout time.Duration `yaml:"open_timeout" mapstructure:"open_timeout" envconfig:"KAFKA_BREAKER_OPEN_TIMEOUT" default:"30s"`
}

func (c Config) withDefaults() Config {
	if c.RequiredAcks == 0 {
		c.RequiredAcks = DefaultRequiredAcks
	}
	if c.BatchSize == 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.BatchTimeout == 0 {
		c.BatchTimeout = DefaultBatchTimeout
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.Partitions == 0 {
		c.Partitions = DefaultPartitions
	}
	if c.ReplicationFactor == 0 {
		c.ReplicationFactor = DefaultReplicationFactor
	}
	if c.Breaker.MaxFailures == 0 {
		c.Breaker.MaxFailures = DefaultBreakerFailures
	}
	if c.Breaker.OpenTimeout == 0 {
		c.Breaker.OpenTimeout = DefaultBreakerTimeout
	}
	if c.RateBurst <= 0 {
		c.RateBurst = 1
	}
	return c
}
