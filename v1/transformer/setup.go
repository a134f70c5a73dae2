package transformer

import (
	"fmt"

	"github.com/Aleph-Alpha/testdatagen/v1/mapping"
	"github.com/Aleph-Alpha/testdatagen/v1/registry"
	"github.com/Aleph-Alpha/testdatagen/v1/schema"
)

// Load builds a Transformer from cfg. The mapping document is read from
// cfg.MappingFile and the default target is resolved through catalog after
// loading cfg.DescriptorSet into it. A nil catalog resolves only message
// types linked into the binary.
func Load(cfg Config, reg *registry.Registry, catalog *schema.Catalog, opts ...Option) (*Transformer, error) {
	var doc *mapping.Config
	if cfg.MappingFile != "" {
		d, err := mapping.Load(cfg.MappingFile)
		if err != nil {
			return nil, err
		}
		doc = d
	}

	target := cfg.TargetSchema
	if target == "" && doc != nil {
		target = doc.TargetSchema
	}
	if catalog == nil {
		catalog = schema.NewCatalog(nil)
	}
	if cfg.DescriptorSet != "" {
		if _, err := catalog.LoadFile(cfg.DescriptorSet); err != nil {
			return nil, err
		}
	}
	if target != "" {
		s, err := catalog.Lookup(target)
		if err != nil {
			return nil, fmt.Errorf("transformer: resolving target schema: %w", err)
		}
		opts = append([]Option{WithTarget(s)}, opts...)
	}
	return New(reg, doc, opts...)
}
