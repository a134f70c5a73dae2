package registry

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/testdatagen/v1/logger"
)

// FXModule provides a shared *Registry to the fx container.
//
// The registry starts empty; modules that contribute functions (faker
// generators, transformer built-ins) invoke their own Register functions
// against it.
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    registry.FXModule,
//	    // other modules...
//	)
//
// Dependencies required by this module:
//   - a *logger.Logger instance (optional)
var FXModule = fx.Module("registry",
	fx.Provide(NewWithDI),
)

// RegistryParams groups the dependencies needed to create a Registry.
type RegistryParams struct {
	fx.In

	Logger *logger.Logger `optional:"true"`
}

// NewWithDI creates a Registry from injected dependencies.
func NewWithDI(params RegistryParams) *Registry {
	if params.Logger == nil {
		return New(nil)
	}
	return New(params.Logger)
}
