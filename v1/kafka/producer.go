package kafka

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"google.golang.org/protobuf/proto"
)

// Message is one record to write. A nil Key is replaced by a random UUID.
type Message struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// ProtoMessage is a Message whose value is encoded by the producer's Serializer.
type ProtoMessage struct {
	Key     []byte
	Value   proto.Message
	Headers map[string]string
}

func (p *Producer) topic(topic string) (string, error) {
	if topic == "" {
		topic = p.cfg.Topic
	}
	if topic == "" {
		return "", ErrNoTopic
	}
	return topic, nil
}

// Produce writes msgs to topic (the configured topic when empty) in one
// batch. The current trace context is propagated in the message headers.
func (p *Producer) Produce(ctx context.Context, topic string, msgs ...Message) error {
	topic, err := p.topic(topic)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		return nil
	}

	out := make([]kafka.Message, len(msgs))
	for i, m := range msgs {
		if p.limiter != nil {
			if err := p.limiter.Wait(ctx); err != nil {
				return fmt.Errorf("kafka: rate limit wait: %w", err)
			}
		}
		key := m.Key
		if key == nil {
			key = []byte(uuid.NewString())
		}
		km := kafka.Message{Topic: topic, Key: key, Value: m.Value}
		for k, v := range m.Headers {
			km.Headers = append(km.Headers, kafka.Header{Key: k, Value: []byte(v)})
		}
		otel.GetTextMapPropagator().Inject(ctx, headerCarrier{headers: &km.Headers})
		out[i] = km
	}

	_, err = p.breaker.Execute(func() (interface{}, error) {
		return nil, p.writer.WriteMessages(ctx, out...)
	})
	if p.metrics != nil {
		p.metrics.ObserveProduce(topic, err == nil, len(out))
	}
	if err != nil {
		p.logger.Error("Failed to produce messages", err, map[string]interface{}{
			"topic":    topic,
			"messages": len(out),
			"breaker":  p.breaker.State().String(),
		})
		return fmt.Errorf("kafka: write %d message(s) to %s: %w", len(out), topic, err)
	}
	return nil
}

// ProduceProto serializes each value with the configured Serializer and
// writes the batch like Produce.
func (p *Producer) ProduceProto(ctx context.Context, topic string, msgs ...ProtoMessage) error {
	if p.serializer == nil {
		return ErrNoSerializer
	}
	topic, err := p.topic(topic)
	if err != nil {
		return err
	}
	raw := make([]Message, len(msgs))
	for i, m := range msgs {
		value, err := p.serializer.Serialize(ctx, topic, m.Value)
		if err != nil {
			return fmt.Errorf("kafka: serialize message %d: %w", i, err)
		}
		raw[i] = Message{Key: m.Key, Value: value, Headers: m.Headers}
	}
	return p.Produce(ctx, topic, raw...)
}

// headerCarrier adapts kafka headers to the otel TextMapCarrier.
type headerCarrier struct {
	headers *[]kafka.Header
}

func (c headerCarrier) Get(key string) string {
	for _, h := range *c.headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c headerCarrier) Set(key, value string) {
	for i, h := range *c.headers {
		if h.Key == key {
			(*c.headers)[i].Value = []byte(value)
			return
		}
	}
	*c.headers = append(*c.headers, kafka.Header{Key: key, Value: []byte(value)})
}

func (c headerCarrier) Keys() []string {
	out := make([]string, len(*c.headers))
	for i, h := range *c.headers {
		out[i] = h.Key
	}
	return out
}
