package validator

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/testdatagen/v1/executor"
	"github.com/Aleph-Alpha/testdatagen/v1/logger"
)

// FXModule provides a *Validator.
//
// Dependencies required by this module:
//   - a validator.Config instance
//   - an *executor.Executor, used for paranoid-level probes
//   - a *logger.Logger instance (optional)
var FXModule = fx.Module("validator",
	fx.Provide(NewWithDI),
)

// ValidatorParams groups the dependencies needed to create a Validator.
type ValidatorParams struct {
	fx.In

	Config   Config
	Executor *executor.Executor
	Logger   *logger.Logger `optional:"true"`
}

// NewWithDI creates a Validator from injected dependencies.
func NewWithDI(params ValidatorParams) (*Validator, error) {
	if params.Logger == nil {
		return New(params.Config, params.Executor, nil)
	}
	return New(params.Config, params.Executor, params.Logger)
}
