package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"notehub/internal/biz"
)

// ProducerConfig configures the event producer.
type ProducerConfig struct {
	Brokers    []string
	Topic      string
	MaxRetries int
	Timeout    time.Duration
}

// EventProducer publishes note events to Kafka. It is a synchronous producer:
// Publish returns after the broker acknowledges the write.
type EventProducer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewEventProducer creates an event producer.
func NewEventProducer(config *ProducerConfig) (*EventProducer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal
	saramaConfig.Producer.Retry.Max = config.MaxRetries
	if config.Timeout > 0 {
		saramaConfig.Producer.Timeout = config.Timeout
	}
	saramaConfig.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("create producer: %w", err)
	}

	return &EventProducer{
		producer: producer,
		topic:    config.Topic,
	}, nil
}

// Publish implements biz.EventPublisher. Events are keyed by note id so all
// events of one note land on the same partition, in order.
func (p *EventProducer) Publish(_ context.Context, event *biz.NoteEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.NoteID),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// Close shuts down the underlying producer.
func (p *EventProducer) Close() error {
	return p.producer.Close()
}
