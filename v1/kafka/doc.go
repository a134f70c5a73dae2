// Package kafka writes generated test data to Apache Kafka.
//
// The Producer wraps a segmentio/kafka-go writer with:
//   - a token-bucket rate limit (golang.org/x/time/rate)
//   - a circuit breaker (sony/gobreaker) that stops hammering an
//     unavailable cluster after consecutive failed writes
//   - random UUID keys for messages without one
//   - trace context propagation through message headers
//   - Prometheus counters of produced messages per topic
//
// Proto messages are encoded by a Serializer, normally
// schema_registry.ProtobufSerializer, which frames them in the Confluent
// wire format.
//
// Basic Usage:
//
//	p, err := kafka.NewProducer(kafka.Config{
//	    Brokers:   []string{"localhost:9092"},
//	    Topic:     "users",
//	    RateLimit: 500,
//	}, kafka.WithSerializer(serializer), kafka.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	err = p.ProduceProto(ctx, "", kafka.ProtoMessage{Value: user})
//
// Topic administration:
//
//	admin, _ := kafka.NewAdmin(cfg)
//	err = admin.CreateTopic(ctx, "users", 3, 1)
//	topics, err := admin.ListTopics(ctx)
//
// Configuration:
//
//	KAFKA_BROKERS=localhost:9092,localhost:9093
//	KAFKA_TOPIC=users
//	KAFKA_COMPRESSION_CODEC=zstd
//	KAFKA_RATE_LIMIT=500
//	KAFKA_SASL_ENABLED=true
//	KAFKA_SASL_MECHANISM=SCRAM-SHA-512
//
// Producer and Admin are safe for concurrent use.
package kafka
