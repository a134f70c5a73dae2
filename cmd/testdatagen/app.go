package main

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"

	"github.com/Aleph-Alpha/testdatagen/v1/cache"
	"github.com/Aleph-Alpha/testdatagen/v1/config"
	"github.com/Aleph-Alpha/testdatagen/v1/executor"
	"github.com/Aleph-Alpha/testdatagen/v1/faker"
	"github.com/Aleph-Alpha/testdatagen/v1/kafka"
	"github.com/Aleph-Alpha/testdatagen/v1/logger"
	"github.com/Aleph-Alpha/testdatagen/v1/manager"
	"github.com/Aleph-Alpha/testdatagen/v1/metrics"
	"github.com/Aleph-Alpha/testdatagen/v1/registry"
	"github.com/Aleph-Alpha/testdatagen/v1/schema"
	"github.com/Aleph-Alpha/testdatagen/v1/schema_registry"
	"github.com/Aleph-Alpha/testdatagen/v1/tracer"
	"github.com/Aleph-Alpha/testdatagen/v1/transformer"
	"github.com/Aleph-Alpha/testdatagen/v1/validator"
)

// ambientModules provides configuration, logging, metrics and tracing.
func ambientModules(cfg *config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		config.FXModule,
		logger.FXModule,
		fx.WithLogger(func(l *logger.Logger) fxevent.Logger {
			zl := &fxevent.ZapLogger{Logger: l.Zap.Named("fx")}
			zl.UseLogLevel(zapcore.DebugLevel)
			return zl
		}),
		metrics.FXModule,
		tracer.FXModule,
	)
}

// coreModules provides the function registry and everything built on it,
// up to the *manager.Manager. The manager registers the faker generators
// itself, so only the generator is provided here.
func coreModules() fx.Option {
	return fx.Options(
		registry.FXModule,
		executor.FXModule,
		validator.FXModule,
		fx.Provide(faker.New),
		schema.FXModule,
		transformer.FXModule,
		manager.FXModule,
	)
}

// registryModules provides the schema registry client and serializer,
// backed by the artifact cache when it is enabled.
func registryModules(cfg *config.Config) fx.Option {
	opts := []fx.Option{schema_registry.FXModule}
	if cfg.Cache.Enabled {
		opts = append(opts,
			cache.FXModule,
			fx.Provide(func(c *cache.Cache) schema_registry.IDStore { return c }),
		)
	}
	return fx.Options(opts...)
}

// kafkaModules provides the producer and admin client. The producer
// serializes protobuf messages through the schema registry.
func kafkaModules() fx.Option {
	return fx.Options(
		kafka.FXModule,
		fx.Provide(func(s *schema_registry.ProtobufSerializer) kafka.Serializer { return s }),
	)
}

// withApp builds and starts an application from opts, runs fn and stops
// the application again.
func withApp(ctx context.Context, fn func(context.Context) error, opts ...fx.Option) error {
	app := fx.New(opts...)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(ctx, app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	runErr := fn(ctx)

	stopCtx, cancelStop := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancelStop()
	if err := app.Stop(stopCtx); err != nil && runErr == nil {
		return err
	}
	return runErr
}
