package manager

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/testdatagen/v1/executor"
	"github.com/Aleph-Alpha/testdatagen/v1/faker"
	"github.com/Aleph-Alpha/testdatagen/v1/logger"
	"github.com/Aleph-Alpha/testdatagen/v1/metrics"
	"github.com/Aleph-Alpha/testdatagen/v1/registry"
	"github.com/Aleph-Alpha/testdatagen/v1/tracer"
	"github.com/Aleph-Alpha/testdatagen/v1/transformer"
	"github.com/Aleph-Alpha/testdatagen/v1/validator"
)

// FXModule provides a *Manager and a *Recorder. The recorder is also
// provided as the transformer.Invoker, so transformer.FXModule routes
// function calls through the executor.
//
// Dependencies required by this module:
//   - a manager.Config instance
//   - *registry.Registry, *validator.Validator, *executor.Executor
//   - a *transformer.Transformer instance
//   - *faker.Generator, metrics.MetricsCollector, *tracer.Tracer and
//     *logger.Logger instances (all optional)
var FXModule = fx.Module("manager",
	fx.Provide(
		NewRecorderWithDI,
		func(r *Recorder) transformer.Invoker { return r.Invoke },
		NewWithDI,
	),
)

// RecorderParams groups the dependencies needed to create a Recorder.
type RecorderParams struct {
	fx.In

	Executor *executor.Executor
	Metrics  metrics.MetricsCollector `optional:"true"`
}

// NewRecorderWithDI creates a Recorder from injected dependencies.
func NewRecorderWithDI(params RecorderParams) *Recorder {
	return NewRecorder(params.Executor, params.Metrics)
}

// ManagerParams groups the dependencies needed to create a Manager.
type ManagerParams struct {
	fx.In

	Config      Config
	Registry    *registry.Registry
	Validator   *validator.Validator
	Executor    *executor.Executor
	Transformer *transformer.Transformer
	Recorder    *Recorder
	Faker       *faker.Generator         `optional:"true"`
	Metrics     metrics.MetricsCollector `optional:"true"`
	Tracer      *tracer.Tracer           `optional:"true"`
	Logger      *logger.Logger           `optional:"true"`
}

// NewWithDI creates a Manager from injected dependencies.
func NewWithDI(params ManagerParams) (*Manager, error) {
	deps := Dependencies{
		Registry:    params.Registry,
		Validator:   params.Validator,
		Executor:    params.Executor,
		Transformer: params.Transformer,
		Faker:       params.Faker,
		Recorder:    params.Recorder,
		Metrics:     params.Metrics,
		Tracer:      params.Tracer,
	}
	if params.Logger != nil {
		deps.Logger = params.Logger
	}
	return New(params.Config, deps)
}
