package config

import (
	"github.com/Aleph-Alpha/testdatagen/v1/cache"
	"github.com/Aleph-Alpha/testdatagen/v1/executor"
	"github.com/Aleph-Alpha/testdatagen/v1/faker"
	"github.com/Aleph-Alpha/testdatagen/v1/kafka"
	"github.com/Aleph-Alpha/testdatagen/v1/logger"
	"github.com/Aleph-Alpha/testdatagen/v1/manager"
	"github.com/Aleph-Alpha/testdatagen/v1/metrics"
	"github.com/Aleph-Alpha/testdatagen/v1/schema_registry"
	"github.com/Aleph-Alpha/testdatagen/v1/tracer"
	"github.com/Aleph-Alpha/testdatagen/v1/transformer"
	"github.com/Aleph-Alpha/testdatagen/v1/validator"
)

// EnvPrefix prefixes every environment variable read by Load, e.g.
// TESTDATA_KAFKA_TOPIC overrides kafka.topic.
const EnvPrefix = "TESTDATA"

// Config is the complete application configuration. Each section is the
// configuration type of the package it configures.
type Config struct {
	Logger         logger.Config          `yaml:"logger" mapstructure:"logger"`
	Metrics        metrics.Config         `yaml:"metrics" mapstructure:"metrics"`
	Tracer         tracer.Config          `yaml:"tracer" mapstructure:"tracer"`
	Kafka          kafka.Config           `yaml:"kafka" mapstructure:"kafka"`
	SchemaRegistry schema_registry.Config `yaml:"schema_registry" mapstructure:"schema_registry"`
	Cache          cache.Config           `yaml:"cache" mapstructure:"cache"`
	Transformer    transformer.Config     `yaml:"transformer" mapstructure:"transformer"`
	Executor       executor.Config        `yaml:"executor" mapstructure:"executor"`
	Validator      validator.Config       `yaml:"validator" mapstructure:"validator"`
	Faker          faker.Config           `yaml:"faker" mapstructure:"faker"`
	Manager        manager.Config         `yaml:"manager" mapstructure:"manager"`
}

// Options controls where Load looks for configuration.
type Options struct {
	// File is an explicit YAML config file. When empty, config.yaml is
	// searched for in the working directory and ./configs.
	File string

	// EnvFiles are dotenv files loaded before the environment is read.
	// Missing files are ignored. Defaults to ".env".
	EnvFiles []string
}
