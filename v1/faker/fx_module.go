package faker

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/testdatagen/v1/registry"
)

// FXModule provides a *Generator and registers its functions in the
// shared registry.
//
// Dependencies required by this module:
//   - a faker.Config instance
//   - a *registry.Registry instance
var FXModule = fx.Module("faker",
	fx.Provide(New),
	fx.Invoke(RegisterGenerators),
)

// RegisterGenerators registers g's functions in reg.
func RegisterGenerators(g *Generator, reg *registry.Registry) {
	g.Register(reg)
}
