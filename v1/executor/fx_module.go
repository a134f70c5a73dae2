package executor

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/testdatagen/v1/logger"
)

// FXModule provides an *Executor built from executor.Config.
//
// Dependencies required by this module:
//   - an executor.Config instance
//   - a *logger.Logger instance (optional)
var FXModule = fx.Module("executor",
	fx.Provide(NewWithDI),
)

// ExecutorParams groups the dependencies needed to create an Executor.
type ExecutorParams struct {
	fx.In

	Config Config
	Logger *logger.Logger `optional:"true"`
}

// NewWithDI creates an Executor from injected dependencies.
func NewWithDI(params ExecutorParams) (*Executor, error) {
	if params.Logger == nil {
		return New(params.Config, nil)
	}
	return New(params.Config, params.Logger)
}
