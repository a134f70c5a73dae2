package tracer

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/testdatagen/v1/logger"
)

// FXModule provides a *Tracer built from tracer.Config and flushes it on
// shutdown.
//
// Dependencies required by this module:
//   - a tracer.Config instance
//   - a *logger.Logger instance (optional)
var FXModule = fx.Module("tracer",
	fx.Provide(NewClient),
	fx.Invoke(RegisterTracerLifecycle),
)

// TracerLifecycleParams groups the dependencies of RegisterTracerLifecycle.
type TracerLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Tracer    *Tracer
	Logger    *logger.Logger `optional:"true"`
}

// RegisterTracerLifecycle shuts the provider down when the application
// stops so buffered spans reach the exporter.
func RegisterTracerLifecycle(params TracerLifecycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if params.Logger != nil {
				params.Logger.Info("Shutting down tracer", nil)
			}
			return params.Tracer.Shutdown(ctx)
		},
	})
}
