package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"bluepink-backend/pkg/logkey"

	"github.com/twmb/franz-go/pkg/kgo"
)

type Conf struct {
	client *kgo.Client
}

// NewConf builds a producer-only client against the given seed brokers.
func NewConf(brokers []string) (*Conf, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers provided")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating kafka client: %w", err)
	}
	return &Conf{client: client}, nil
}

// ProduceMessage sends one record asynchronously. Delivery failures are
// logged and never propagated; event emission must not fail a request.
func (c *Conf) ProduceMessage(topic string, key []byte, value []byte) error {
	if c == nil || c.client == nil {
		return nil
	}
	record := &kgo.Record{Topic: topic, Key: key, Value: value}
	c.client.Produce(context.Background(), record, func(r *kgo.Record, err error) {
		if err != nil {
			slog.Error("failed to deliver kafka record",
				slog.String("topic", topic), slog.String(logkey.ERROR, err.Error()))
		}
	})
	return nil
}

func (c *Conf) Close() {
	if c == nil || c.client == nil {
		return
	}
	c.client.Close()
}
