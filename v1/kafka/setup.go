package kafka

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
	"google.golang.org/protobuf/proto"

	"github.com/Aleph-Alpha/testdatagen/v1/logger"
	"github.com/Aleph-Alpha/testdatagen/v1/metrics"
)

//go:generate mockgen -source=setup.go -destination=mock_writer.go -package=kafka

// Writer is the part of *kafka.Writer the producer uses.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Serializer encodes a protobuf message for a topic.
type Serializer interface {
	Serialize(ctx context.Context, topic string, msg proto.Message) ([]byte, error)
}

// Logger defines the logging contract the producer depends on.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Producer writes generated messages to Kafka through a rate limiter and
// a circuit breaker.
//
// Producer is safe for concurrent use.
type Producer struct {
	cfg        Config
	writer     Writer
	serializer Serializer
	breaker    *gobreaker.CircuitBreaker
	limiter    *rate.Limiter
	metrics    metrics.MetricsCollector
	logger     Logger

	closeOnce sync.Once
}

// Option configures a Producer.
type Option func(*Producer)

// WithWriter replaces the kafka-go writer, e.g. with a mock in tests.
func WithWriter(w Writer) Option {
	return func(p *Producer) { p.writer = w }
}

// WithSerializer sets how proto messages are encoded.
func WithSerializer(s Serializer) Option {
	return func(p *Producer) { p.serializer = s }
}

// WithMetrics records produced message counts.
func WithMetrics(m metrics.MetricsCollector) Option {
	return func(p *Producer) { p.metrics = m }
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l Logger) Option {
	return func(p *Producer) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewProducer creates a Producer from cfg.
//
// Example:
//
//	p, err := kafka.NewProducer(kafka.Config{Brokers: []string{"localhost:9092"}, Topic: "users"},
//	    kafka.WithSerializer(serializer))
//	defer p.Close()
//	err = p.ProduceProto(ctx, "", kafka.ProtoMessage{Value: msg})
func NewProducer(cfg Config, opts ...Option) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrNoBrokers
	}
	cfg = cfg.withDefaults()

	p := &Producer{cfg: cfg, logger: logger.NewNop()}
	for _, opt := range opts {
		opt(p)
	}

	if cfg.RateLimit > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}

	p.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "kafka-producer",
		Timeout: cfg.Breaker.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.Breaker.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			p.logger.Warn("Kafka circuit breaker state change", nil, map[string]interface{}{
				"name": name,
				"from": from.String(),
				"to":   to.String(),
			})
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	if p.writer == nil {
		dialer, err := newDialer(cfg)
		if err != nil {
			return nil, err
		}
		p.writer = createWriter(cfg, dialer, p.logger)
		p.logger.Info("Kafka producer initialized", nil, map[string]interface{}{
			"brokers": cfg.Brokers,
			"topic":   cfg.Topic,
		})
	}
	return p, nil
}

// Close flushes pending writes and closes the writer.
func (p *Producer) Close() error {
	var err error
	p.closeOnce.Do(func() {
		err = p.writer.Close()
	})
	return err
}

func newDialer(cfg Config) (*kafka.Dialer, error) {
	dialer := &kafka.Dialer{}
	if cfg.TLS.Enabled {
		tlsConfig, err := createTLSConfig(cfg.TLS)
		if err != nil {
			return nil, fmt.Errorf("kafka: create TLS config: %w", err)
		}
		dialer.TLS = tlsConfig
	}
	if cfg.SASL.Enabled {
		mechanism, err := createSASLMechanism(cfg.SASL)
		if err != nil {
			return nil, fmt.Errorf("kafka: create SASL mechanism: %w", err)
		}
		dialer.SASLMechanism = mechanism
	}
	return dialer, nil
}

func createErrorLogger(log Logger) kafka.LoggerFunc {
	return kafka.LoggerFunc(func(msg string, args ...interface{}) {
		log.Error("Kafka internal error", nil, map[string]interface{}{
			"error": fmt.Sprintf(msg, args...),
		})
	})
}

// createWriter creates a kafka-go writer. The topic is left to each message.
func createWriter(cfg Config, dialer *kafka.Dialer, log Logger) *kafka.Writer {
	writerConfig := kafka.WriterConfig{
		Brokers:      cfg.Brokers,
		Balancer:     &kafka.Hash{},
		MaxAttempts:  cfg.MaxAttempts,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: cfg.RequiredAcks,
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		Async:        cfg.Async,
		Dialer:       dialer,
		ErrorLogger:  createErrorLogger(log),
	}

	switch cfg.CompressionCodec {
	case "gzip":
		writerConfig.CompressionCodec = &compress.GzipCodec
	case "snappy":
		writerConfig.CompressionCodec = &compress.SnappyCodec
	case "lz4":
		writerConfig.CompressionCodec = &compress.Lz4Codec
	case "zstd":
		writerConfig.CompressionCodec = &compress.ZstdCodec
	}
	return kafka.NewWriter(writerConfig)
}

// createTLSConfig creates a TLS configuration from the provided config.
func createTLSConfig(cfg TLSConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}

	if cfg.CACertPath != "" {
		caCert, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA cert")
		}
		tlsConfig.RootCAs = caCertPool
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

// createSASLMechanism creates a SASL mechanism from the provided config.
func createSASLMechanism(cfg SASLConfig) (sasl.Mechanism, error) {
	switch cfg.Mechanism {
	case "PLAIN":
		return plain.Mechanism{Username: cfg.Username, Password: cfg.Password}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism: %s", cfg.Mechanism)
	}
}
