package schema_registry

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/testdatagen/v1/logger"
)

// FXModule provides the schema registry client, both as *Client and as
// Registry, and a *ProtobufSerializer using it.
//
// Usage:
//
//	app := fx.New(
//	    schema_registry.FXModule,
//	    fx.Provide(func() schema_registry.Config {
//	        return schema_registry.Config{URL: "http://localhost:8081"}
//	    }),
//	)
var FXModule = fx.Module("schema_registry",
	fx.Provide(
		NewClientWithDI,
		func(c *Client) Registry { return c },
		NewProtobufSerializerWithDI,
	),
	fx.Invoke(RegisterSchemaRegistryLifecycle),
)

// SchemaRegistryParams groups the dependencies needed to create a Schema Registry client.
type SchemaRegistryParams struct {
	fx.In

	Config Config
}

// NewClientWithDI creates a schema registry client from injected dependencies.
func NewClientWithDI(params SchemaRegistryParams) (*Client, error) {
	return NewClient(params.Config)
}

// SerializerParams groups the dependencies needed to create a ProtobufSerializer.
type SerializerParams struct {
	fx.In

	Config   Config
	Registry Registry
	IDStore  IDStore `optional:"true"`
}

// NewProtobufSerializerWithDI creates a ProtobufSerializer from injected dependencies.
func NewProtobufSerializerWithDI(params SerializerParams) (*ProtobufSerializer, error) {
	var opts []SerializerOption
	if params.IDStore != nil {
		opts = append(opts, WithIDStore(params.IDStore))
	}
	return NewProtobufSerializer(params.Registry, params.Config, opts...)
}

// SchemaRegistryLifecycleParams groups the dependencies for lifecycle logging.
type SchemaRegistryLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    Config
	Logger    *logger.Logger `optional:"true"`
}

// RegisterSchemaRegistryLifecycle logs client start and stop. The HTTP
// client holds no resources that need closing.
func RegisterSchemaRegistryLifecycle(params SchemaRegistryLifecycleParams) {
	log := params.Logger
	if log == nil {
		log = logger.NewNop()
	}
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Schema Registry client initialized", nil, map[string]interface{}{
				"url": params.Config.URL,
			})
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Schema Registry client shutdown", nil)
			return nil
		},
	})
}
