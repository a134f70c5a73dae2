package config

import (
	"go.uber.org/fx"

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

// FXModule splits a *Config into its sections. The *Config itself must be
// supplied, typically with fx.Supply(cfg) after Load.
var FXModule = fx.Module("config",
	fx.Provide(
		func(c *Config) logger.Config { return c.Logger },
		func(c *Config) metrics.Config { return c.Metrics },
		func(c *Config) tracer.Config { return c.Tracer },
		func(c *Config) kafka.Config { return c.Kafka },
		func(c *Config) schema_registry.Config { return c.SchemaRegistry },
		func(c *Config) cache.Config { return c.Cache },
		func(c *Config) transformer.Config { return c.Transformer },
		func(c *Config) executor.Config { return c.Executor },
		func(c *Config) validator.Config { return c.Validator },
		func(c *Config) faker.Config { return c.Faker },
		func(c *Config) manager.Config { return c.Manager },
	),
)
