package kafka

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/segmentio/kafka-go"
)

// TopicInfo describes one topic.
type TopicInfo struct {
	Name       string `json:"name" yaml:"name"`
	Partitions int    `json:"partitions" yaml:"partitions"`
	Internal   bool   `json:"internal" yaml:"internal"`
}

// Admin creates, deletes and lists topics.
type Admin struct {
	client *kafka.Client
	cfg    Config
}

// NewAdmin creates an Admin talking to cfg.Brokers with the same TLS and
// SASL settings as the producer.
func NewAdmin(cfg Config) (*Admin, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrNoBrokers
	}
	cfg = cfg.withDefaults()
	dialer, err := newDialer(cfg)
	if err != nil {
		return nil, err
	}
	return &Admin{
		client: &kafka.Client{
			Addr: kafka.TCP(cfg.Brokers...),
			Transport: &kafka.Transport{
				TLS:  dialer.TLS,
				SASL: dialer.SASLMechanism,
			},
			Timeout: cfg.WriteTimeout,
		},
		cfg: cfg,
	}, nil
}

// CreateTopic creates name. Zero partitions or replication factor use the
// configured defaults. An existing topic is not an error.
func (a *Admin) CreateTopic(ctx context.Context, name string, partitions, replication int) error {
	if partitions <= 0 {
		partitions = a.cfg.Partitions
	}
	if replication <= 0 {
		replication = a.cfg.ReplicationFactor
	}
	resp, err := a.client.CreateTopics(ctx, &kafka.CreateTopicsRequest{
		Topics: []kafka.TopicConfig{{
			Topic:             name,
			NumPartitions:     partitions,
			ReplicationFactor: replication,
		}},
	})
	if err != nil {
		return fmt.Errorf("kafka: create topic %s: %w", name, err)
	}
	if err := resp.Errors[name]; err != nil && !errors.Is(err, kafka.TopicAlreadyExists) {
		return fmt.Errorf("kafka: create topic %s: %w", name, err)
	}
	return nil
}

// DeleteTopic deletes name.
func (a *Admin) DeleteTopic(ctx context.Context, name string) error {
	resp, err := a.client.DeleteTopics(ctx, &kafka.DeleteTopicsRequest{Topics: []string{name}})
	if err != nil {
		return fmt.Errorf("kafka: delete topic %s: %w", name, err)
	}
	if err := resp.Errors[name]; err != nil {
		return fmt.Errorf("kafka: delete topic %s: %w", name, err)
	}
	return nil
}

// ListTopics returns every topic, sorted by name.
func (a *Admin) ListTopics(ctx context.Context) ([]TopicInfo, error) {
	resp, err := a.client.Metadata(ctx, &kafka.MetadataRequest{})
	if err != nil {
		return nil, fmt.Errorf("kafka: list topics: %w", err)
	}
	out := make([]TopicInfo, 0, len(resp.Topics))
	for _, t := range resp.Topics {
		if t.Error != nil {
			continue
		}
		out = append(out, TopicInfo{Name: t.Name, Partitions: len(t.Partitions), Internal: t.Internal})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
