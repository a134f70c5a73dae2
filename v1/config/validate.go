package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Aleph-Alpha/testdatagen/v1/executor"
	"github.com/Aleph-Alpha/testdatagen/v1/logger"
	"github.com/Aleph-Alpha/testdatagen/v1/schema_registry"
	"github.com/Aleph-Alpha/testdatagen/v1/tracer"
	"github.com/Aleph-Alpha/testdatagen/v1/validator"
)

// Validate checks cross-field constraints and returns a *ValidationError
// listing every problem, or nil.
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...interface{}) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	switch strings.ToLower(c.Logger.Level) {
	case "", logger.Debug, logger.Info, logger.Warning, "warn", logger.Error:
	default:
		add("logger.level %q is not one of debug, info, warning, error", c.Logger.Level)
	}

	if c.Metrics.Serve && c.Metrics.Address == "" {
		add("metrics.address is required when metrics.serve is set")
	}

	if c.Tracer.SamplingRate < 0 || c.Tracer.SamplingRate > 1 {
		add("tracer.sampling_rate %v is outside [0, 1]", c.Tracer.SamplingRate)
	}

	switch c.Tracer.Protocol {
	case "", tracer.ProtocolHTTP, tracer.ProtocolGRPC:
	default:
		add("tracer.protocol %q is not http or grpc", c.Tracer.Protocol)
	}

	if c.Kafka.RateLimit < 0 {
		add("kafka.rate_limit must not be negative")
	}
	switch c.Kafka.CompressionCodec {
	case "", "gzip", "snappy", "lz4", "zstd":
	default:
		add("kafka.compression_codec %q is not supported", c.Kafka.CompressionCodec)
	}
	switch strings.ToUpper(c.Kafka.SASL.Mechanism) {
	case "", "PLAIN", "SCRAM-SHA-256", "SCRAM-SHA-512":
	default:
		add("kafka.sasl.mechanism %q is not supported", c.Kafka.SASL.Mechanism)
	}
	if c.Kafka.SASL.Enabled && c.Kafka.SASL.Username == "" {
		add("kafka.sasl.username is required when SASL is enabled")
	}

	if c.SchemaRegistry.URL != "" {
		if u, err := url.Parse(c.SchemaRegistry.URL); err != nil || u.Scheme == "" || u.Host == "" {
			add("schema_registry.url %q is not an absolute URL", c.SchemaRegistry.URL)
		}
	}
	if _, err := schema_registry.ParseSubjectNameStrategy(c.SchemaRegistry.SubjectStrategy); err != nil {
		add("schema_registry.subject_strategy: %v", err)
	}

	if c.Cache.Enabled && (c.Cache.Port < 0 || c.Cache.Port > 65535) {
		add("cache.port %d is out of range", c.Cache.Port)
	}
	if c.Cache.TTL < 0 {
		add("cache.ttl must not be negative")
	}

	if _, err := executor.ParseSecurityLevel(c.Executor.SecurityLevel); err != nil {
		add("executor.security_level: %v", err)
	}
	if c.Executor.Timeout < 0 {
		add("executor.timeout must not be negative")
	}

	if _, err := validator.ParseLevel(c.Validator.Level); err != nil {
		add("validator.level: %v", err)
	}
	if c.Manager.ValidationLevel != "" {
		if _, err := validator.ParseLevel(c.Manager.ValidationLevel); err != nil {
			add("manager.validation_level: %v", err)
		}
	}

	if c.Transformer.WatchMapping && c.Transformer.MappingFile == "" {
		add("transformer.watch_mapping needs transformer.mapping_file")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
