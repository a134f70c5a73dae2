package kafka

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/testdatagen/v1/logger"
	"github.com/Aleph-Alpha/testdatagen/v1/metrics"
)

// FXModule provides a *Producer and an *Admin and closes the producer
// when the application stops.
//
// Dependencies required by this module:
//   - a kafka.Config instance
//   - a kafka.Serializer (optional, needed for ProduceProto)
//   - metrics.MetricsCollector and *logger.Logger instances (optional)
var FXModule = fx.Module("kafka",
	fx.Provide(
		NewProducerWithDI,
		NewAdmin,
	),
	fx.Invoke(RegisterProducerLifecycle),
)

// ProducerParams groups the dependencies needed to create a Producer.
type ProducerParams struct {
	fx.In

	Config     Config
	Serializer Serializer               `optional:"true"`
	Metrics    metrics.MetricsCollector `optional:"true"`
	Logger     *logger.Logger           `optional:"true"`
}

// NewProducerWithDI creates a Producer from injected dependencies.
func NewProducerWithDI(params ProducerParams) (*Producer, error) {
	opts := []Option{WithSerializer(params.Serializer), WithMetrics(params.Metrics)}
	if params.Logger != nil {
		opts = append(opts, WithLogger(params.Logger))
	}
	return NewProducer(params.Config, opts...)
}

// RegisterProducerLifecycle closes the producer on stop, flushing pending writes.
func RegisterProducerLifecycle(lc fx.Lifecycle, p *Producer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return p.Close()
		},
	})
}
