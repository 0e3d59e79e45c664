package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

var jsonMarshal = json.Marshal

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink forwards bus events to a topic, keyed by aggregate id so every
// event of one employee lands on the same partition.
type KafkaSink struct {
	writer KafkaWriter
	logger *slog.Logger
}

type envelope struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	AggregateID string      `json:"aggregate_id"`
	OccurredAt  time.Time   `json:"occurred_at"`
	Data        interface{} `json:"data"`
}

func NewKafkaSink(brokers []string, topic string, logger *slog.Logger) *KafkaSink {
	return NewKafkaSinkWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}, logger)
}

func NewKafkaSinkWithWriter(writer KafkaWriter, logger *slog.Logger) *KafkaSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaSink{
		writer: writer,
		logger: logger.With("component", "kafka_sink"),
	}
}

// Handle is an events.Handler.
func (s *KafkaSink) Handle(ctx context.Context, event Event) error {
	value, err := jsonMarshal(envelope{
		ID:          event.EventID(),
		Type:        event.EventType(),
		AggregateID: event.AggregateID(),
		OccurredAt:  event.OccurredAt(),
		Data:        event.Payload(),
	})
	if err != nil {
		return fmt.Errorf("serialize event %s: %w", event.EventID(), err)
	}

	err = s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.AggregateID()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType())},
		},
	})
	if err != nil {
		s.logger.Error("failed to produce event",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"error", err)
		return err
	}
	return nil
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
