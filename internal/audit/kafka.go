// Package audit exports render-lifecycle events to an external sink — a
// Kafka topic when configured, a discarding no-op otherwise — so an
// operator can reconstruct which tiles and renders landed without parsing
// coordinator logs.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"frakt.systems/frakt/internal/eventbus"
)

// Sink publishes one render event to an external system.
type Sink interface {
	Publish(ctx context.Context, event *eventbus.Event) error
	Close() error
}

// NoopSink discards every event. It is the default when auditing is
// disabled.
type NoopSink struct{}

// Publish implements Sink by discarding event.
func (NoopSink) Publish(context.Context, *eventbus.Event) error { return nil }

// Close implements Sink.
func (NoopSink) Close() error { return nil }

// KafkaSink writes render events to a Kafka topic as JSON, keyed by the
// event's Key so all events for the same job land on the same partition.
type KafkaSink struct {
	writer *kafka.Writer
}

// NewKafkaSink builds a KafkaSink writing to topic on brokers.
func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 100 * time.Millisecond,
			Async:        false,
		},
	}
}

// Publish serializes event and writes it to Kafka.
func (s *KafkaSink) Publish(ctx context.Context, event *eventbus.Event) error {
	record := struct {
		Topic   string      `json:"topic"`
		Key     string      `json:"key"`
		Payload interface{} `json:"payload"`
	}{Topic: event.Topic, Key: event.Key, Payload: event.Payload}

	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("audit: marshaling event: %w", err)
	}

	msg := kafka.Message{Key: []byte(event.Key), Value: value, Time: time.Now()}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("audit: writing to kafka: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying Kafka writer.
func (s *KafkaSink) Close() error {
	if err := s.writer.Close(); err != nil {
		return fmt.Errorf("audit: closing kafka writer: %w", err)
	}
	return nil
}
