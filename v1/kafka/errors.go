package kafka

import (
	"errors"

	"github.com/sony/gobreaker"
)

var (
	// ErrNoBrokers is returned when Config.Brokers is empty.
	ErrNoBrokers = errors.New("kafka: no brokers configured")

	// ErrNoTopic is returned when neither the call nor the config names a topic.
	ErrNoTopic = errors.New("kafka: no topic")

	// ErrNoSerializer is returned when a proto message is produced without a serializer.
	ErrNoSerializer = errors.New("kafka: no serializer configured")
)

// IsBreakerOpen reports whether err means the circuit breaker refused the write.
func IsBreakerOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
