package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/Aleph-Alpha/testdatagen/v1/kafka"
	"github.com/Aleph-Alpha/testdatagen/v1/validator"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, -1, cfg.Kafka.RequiredAcks)
	assert.Equal(t, 10*time.Millisecond, cfg.Kafka.BatchTimeout)
	assert.Equal(t, uint32(5), cfg.Kafka.Breaker.MaxFailures)
	assert.Equal(t, 30*time.Second, cfg.Executor.Timeout)
	assert.Equal(t, "safe", cfg.Executor.SecurityLevel)
	assert.Equal(t, "standard", cfg.Validator.Level)
	assert.Equal(t, time.Second, cfg.Validator.ProbeTimeout)
	assert.Equal(t, "topic", cfg.SchemaRegistry.SubjectStrategy)
	assert.True(t, cfg.SchemaRegistry.AutoRegister)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "testdatagen", cfg.Metrics.Namespace)
	assert.Equal(t, 1.0, cfg.Tracer.SamplingRate)
}

func TestLoadFileAndEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	file := writeFile(t, "testdatagen.yaml", `
logger:
  level: debug
kafka:
  brokers: ["k1:9092", "k2:9092"]
  topic: users
  compression_codec: zstd
executor:
  security_level: sandbox
  timeout: 5s
faker:
  seed: 42
manager:
  validation_level: strict
`)
	t.Setenv("TESTDATA_KAFKA_TOPIC", "orders")
	t.Setenv("TESTDATA_CACHE_ENABLED", "true")
	t.Setenv("TESTDATA_KAFKA_BREAKER_OPEN_TIMEOUT", "1m")

	cfg, err := Load(Options{File: file})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "orders", cfg.Kafka.Topic, "environment wins over the file")
	assert.Equal(t, "zstd", cfg.Kafka.CompressionCodec)
	assert.Equal(t, time.Minute, cfg.Kafka.Breaker.OpenTimeout)
	assert.Equal(t, "sandbox", cfg.Executor.SecurityLevel)
	assert.Equal(t, 5*time.Second, cfg.Executor.Timeout)
	assert.Equal(t, uint64(42), cfg.Faker.Seed)
	assert.Equal(t, "strict", cfg.Manager.ValidationLevel)
	assert.True(t, cfg.Cache.Enabled)
}

func TestLoadDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	env := writeFile(t, "test.env", "TESTDATA_SCHEMA_REGISTRY_URL=http://registry:8081\nTESTDATA_KAFKA_BROKERS=a:1,b:2\n")
	t.Cleanup(func() {
		os.Unsetenv("TESTDATA_SCHEMA_REGISTRY_URL")
		os.Unsetenv("TESTDATA_KAFKA_BROKERS")
	})

	cfg, err := Load(Options{EnvFiles: []string{env, "missing.env"}})
	require.NoError(t, err)
	assert.Equal(t, "http://registry:8081", cfg.SchemaRegistry.URL)
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.Kafka.Brokers)
}

func TestLoadSearchesConfigsDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.Mkdir("configs", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("configs", "config.yaml"), []byte("kafka:\n  topic: found\n"), 0o600))

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, "found", cfg.Kafka.Topic)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(Options{File: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	t.Chdir(t.TempDir())
	file := writeFile(t, "bad.yaml", `
logger:
  level: loud
tracer:
  sampling_rate: 2
kafka:
  compression_codec: brotli
executor:
  security_level: jail
validator:
  level: extreme
transformer:
  watch_mapping: true
`)
	_, err := Load(Options{File: file})
	require.Error(t, err)
	assert.True(t, IsInvalid(err))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Problems, 6)
	assert.Contains(t, err.Error(), "logger.level")
	assert.Contains(t, err.Error(), "kafka.compression_codec")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidateSchemaRegistryURL(t *testing.T) {
	cfg := Config{}
	cfg.SchemaRegistry.URL = "registry:8081/path"
	cfg.Validator.Level = validator.Standard.String()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema_registry.url")
}

func TestFXModuleProvidesSections(t *testing.T) {
	cfg := &Config{}
	cfg.Kafka.Topic = "users"

	var got kafka.Config
	app := fxtest.New(t,
		fx.Supply(cfg),
		FXModule,
		fx.Populate(&got),
	)
	app.RequireStart().RequireStop()
	assert.Equal(t, "users", got.Topic)
}
