package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/mock/gomock"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/Aleph-Alpha/testdatagen/v1/metrics"
)

type produceRecorder struct {
	metrics.MetricsCollector
	ok, failed map[string]int
}

func newProduceRecorder() *produceRecorder {
	return &produceRecorder{ok: map[string]int{}, failed: map[string]int{}}
}

func (r *produceRecorder) ObserveProduce(topic string, success bool, count int) {
	if success {
		r.ok[topic] += count
	} else {
		r.failed[topic] += count
	}
}

func newTestProducer(t *testing.T, cfg Config, opts ...Option) (*Producer, *MockWriter) {
	t.Helper()
	ctrl := gomock.NewController(t)
	w := NewMockWriter(ctrl)
	if len(cfg.Brokers) == 0 {
		cfg.Brokers = []string{"localhost:9092"}
	}
	p, err := NewProducer(cfg, append([]Option{WithWriter(w)}, opts...)...)
	require.NoError(t, err)
	return p, w
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer(Config{})
	assert.ErrorIs(t, err, ErrNoBrokers)
}

func TestProduce(t *testing.T) {
	rec := newProduceRecorder()
	p, w := newTestProducer(t, Config{Topic: "users"}, WithMetrics(rec))

	var written []kafka.Message
	w.EXPECT().WriteMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msgs ...kafka.Message) error {
			written = msgs
			return nil
		})

	err := p.Produce(context.Background(), "",
		Message{Key: []byte("k1"), Value: []byte("a"), Headers: map[string]string{"source": "test"}},
		Message{Value: []byte("b")},
	)
	require.NoError(t, err)
	require.Len(t, written, 2)

	assert.Equal(t, "users", written[0].Topic)
	assert.Equal(t, []byte("k1"), written[0].Key)
	assert.Equal(t, "test", headerCarrier{headers: &written[0].Headers}.Get("source"))

	_, err = uuid.ParseBytes(written[1].Key)
	assert.NoError(t, err, "missing keys become UUIDs")
	assert.Equal(t, 2, rec.ok["users"])
}

func TestProducePropagatesTraceContext(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	p, w := newTestProducer(t, Config{Topic: "users"})
	var written []kafka.Message
	w.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msgs ...kafka.Message) error {
			written = msgs
			return nil
		})

	ctx, span := sdktrace.NewTracerProvider().Tracer("test").Start(context.Background(), "produce")
	defer span.End()

	require.NoError(t, p.Produce(ctx, "", Message{Value: []byte("a")}))
	traceparent := headerCarrier{headers: &written[0].Headers}.Get("traceparent")
	assert.Contains(t, traceparent, span.SpanContext().TraceID().String())
}

func TestProduceErrors(t *testing.T) {
	p, _ := newTestProducer(t, Config{})

	assert.ErrorIs(t, p.Produce(context.Background(), "", Message{}), ErrNoTopic)
	assert.ErrorIs(t, p.ProduceProto(context.Background(), "users", ProtoMessage{}), ErrNoSerializer)
	assert.NoError(t, p.Produce(context.Background(), "users"))
}

func TestProduceProto(t *testing.T) {
	ctrl := gomock.NewController(t)
	ser := NewMockSerializer(ctrl)
	p, w := newTestProducer(t, Config{}, WithSerializer(ser))

	value := wrapperspb.String("hello")
	ser.EXPECT().Serialize(gomock.Any(), "greetings", value).Return([]byte("framed"), nil)
	w.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msgs ...kafka.Message) error {
			assert.Equal(t, []byte("framed"), msgs[0].Value)
			assert.Equal(t, "greetings", msgs[0].Topic)
			return nil
		})

	require.NoError(t, p.ProduceProto(context.Background(), "greetings", ProtoMessage{Value: value}))

	ser.EXPECT().Serialize(gomock.Any(), "greetings", gomock.Any()).Return(nil, errors.New("registry down"))
	err := p.ProduceProto(context.Background(), "greetings", ProtoMessage{Value: proto.Message(value)})
	assert.ErrorContains(t, err, "registry down")
}

func TestCircuitBreakerOpensAfterFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := NewMockLogger(ctrl)
	log.EXPECT().Error("Failed to produce messages", gomock.Any(), gomock.Any()).Times(3)
	log.EXPECT().Warn("Kafka circuit breaker state change", nil, gomock.Any()).Times(1)

	rec := newProduceRecorder()
	p, w := newTestProducer(t, Config{Topic: "users", Breaker: BreakerConfig{MaxFailures: 2}},
		WithLogger(log), WithMetrics(rec))

	w.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(errors.New("broker unavailable")).Times(2)

	ctx := context.Background()
	assert.Error(t, p.Produce(ctx, "", Message{Value: []byte("a")}))
	assert.Error(t, p.Produce(ctx, "", Message{Value: []byte("b")}))

	err := p.Produce(ctx, "", Message{Value: []byte("c")})
	require.Error(t, err)
	assert.True(t, IsBreakerOpen(err))
	assert.Equal(t, 3, rec.failed["users"])
}

func TestRateLimitHonoursContext(t *testing.T) {
	p, _ := newTestProducer(t, Config{Topic: "users", RateLimit: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.Produce(ctx, "", Message{Value: []byte("a")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCloseOnce(t *testing.T) {
	p, w := newTestProducer(t, Config{})
	w.EXPECT().Close().Return(nil).Times(1)

	assert.NoError(t, p.Close())
	assert.NoError(t, p.Close())
}

func TestHeaderCarrier(t *testing.T) {
	var headers []kafka.Header
	c := headerCarrier{headers: &headers}
	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("a", "3")

	assert.Equal(t, "3", c.Get("a"))
	assert.Equal(t, "", c.Get("missing"))
	assert.Equal(t, []string{"a", "b"}, c.Keys())
}

func TestSASLMechanisms(t *testing.T) {
	m, err := createSASLMechanism(SASLConfig{Mechanism: "PLAIN", Username: "u", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, "PLAIN", m.Name())

	m, err = createSASLMechanism(SASLConfig{Mechanism: "SCRAM-SHA-512", Username: "u", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, "SCRAM-SHA-512", m.Name())

	_, err = createSASLMechanism(SASLConfig{Mechanism: "GSSAPI"})
	assert.Error(t, err)
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, DefaultRequiredAcks, cfg.RequiredAcks)
	assert.Equal(t, DefaultMaxAttempts, cfg.MaxAttempts)
	assert.Equal(t, uint32(DefaultBreakerFailures), cfg.Breaker.MaxFailures)
	assert.Equal(t, 1, cfg.RateBurst)

	_, err := NewAdmin(Config{})
	assert.ErrorIs(t, err, ErrNoBrokers)
}
