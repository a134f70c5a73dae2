package transformer

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/testdatagen/v1/logger"
	"github.com/Aleph-Alpha/testdatagen/v1/mapping"
	"github.com/Aleph-Alpha/testdatagen/v1/registry"
	"github.com/Aleph-Alpha/testdatagen/v1/schema"
)

// FXModule registers the built-in functions and provides a *Transformer
// built from transformer.Config. With WatchMapping set, the mapping
// document is reloaded for the lifetime of the application.
//
// Dependencies required by this module:
//   - a transformer.Config instance
//   - a *registry.Registry instance
//   - a *schema.Catalog instance
//   - a transformer.Invoker (optional, functions are called directly without one)
//   - a *logger.Logger instance (optional)
var FXModule = fx.Module("transformer",
	fx.Invoke(registerBuiltins),
	fx.Provide(NewWithDI),
)

func registerBuiltins(reg *registry.Registry) {
	RegisterBuiltins(reg)
}

// TransformerParams groups the dependencies needed to create a Transformer.
type TransformerParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    Config
	Registry  *registry.Registry
	Catalog   *schema.Catalog
	Invoker   Invoker        `optional:"true"`
	Logger    *logger.Logger `optional:"true"`
}

// NewWithDI creates a Transformer from injected dependencies.
func NewWithDI(params TransformerParams) (*Transformer, error) {
	log := params.Logger
	if log == nil {
		log = logger.NewNop()
	}

	t, err := Load(params.Config, params.Registry, params.Catalog, WithLogger(log), WithInvoker(params.Invoker))
	if err != nil {
		return nil, err
	}
	if !params.Config.WatchMapping || params.Config.MappingFile == "" {
		return t, nil
	}

	w, err := mapping.NewWatcher(params.Config.MappingFile, func(cfg *mapping.Config) {
		if err := t.SetConfig(cfg); err != nil {
			log.Warn("Reloaded mapping rejected", err)
		}
	}, mapping.WithWatchLogger(log))
	if err != nil {
		return nil, err
	}

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return w.Start(context.Background())
		},
		OnStop: func(ctx context.Context) error {
			return w.Stop()
		},
	})
	return t, nil
}
