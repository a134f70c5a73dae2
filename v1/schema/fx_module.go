package schema

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/testdatagen/v1/logger"
)

// FXModule provides a shared *Catalog.
//
// Dependencies required by this module:
//   - a *logger.Logger instance (optional)
var FXModule = fx.Module("schema",
	fx.Provide(NewCatalogWithDI),
)

// CatalogParams groups the dependencies needed to create a Catalog.
type CatalogParams struct {
	fx.In

	Logger *logger.Logger `optional:"true"`
}

// NewCatalogWithDI creates a Catalog from injected dependencies.
func NewCatalogWithDI(params CatalogParams) *Catalog {
	if params.Logger == nil {
		return NewCatalog(nil)
	}
	return NewCatalog(params.Logger)
}
