package cache

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/testdatagen/v1/logger"
)

// FXModule provides a *Cache and closes it when the application stops.
//
// Usage:
//
//	app := fx.New(
//	    cache.FXModule,
//	    fx.Provide(func() cache.Config { return cache.Config{Enabled: true} }),
//	)
var FXModule = fx.Module("cache",
	fx.Provide(
		NewCacheWithDI,
	),
	fx.Invoke(RegisterCacheLifecycle),
)

// CacheParams groups the dependencies needed to create a Cache.
type CacheParams struct {
	fx.In

	Config Config
	Logger *logger.Logger `optional:"true"`
}

// NewCacheWithDI creates a Cache from injected dependencies.
func NewCacheWithDI(params CacheParams) (*Cache, error) {
	var opts []Option
	if params.Logger != nil {
		opts = append(opts, WithLogger(params.Logger))
	}
	return NewCache(params.Config, opts...)
}

// CacheLifecycleParams groups the dependencies for cache lifecycle management.
type CacheLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Cache     *Cache
	Logger    *logger.Logger `optional:"true"`
}

// RegisterCacheLifecycle pings Redis on start and closes the client on
// stop. An unreachable Redis is logged, not fatal: cache lookups then miss
// and consumers recompute.
func RegisterCacheLifecycle(params CacheLifecycleParams) {
	log := params.Logger
	if log == nil {
		log = logger.NewNop()
	}
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := params.Cache.Ping(ctx); err != nil {
				log.Warn("Cache unreachable on startup", err)
				return nil
			}
			log.Info("Cache client started and healthy", nil)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return params.Cache.Close()
		},
	})
}
