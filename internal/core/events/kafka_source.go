package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

type KafkaReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSource replays events produced by KafkaSink onto a local bus. A
// message is committed once its handlers have run, or when it cannot be
// decoded at all.
type KafkaSource struct {
	reader KafkaReader
	bus    *EventBus
	logger *slog.Logger
}

func NewKafkaSource(brokers []string, topic, groupID string, bus *EventBus, logger *slog.Logger) *KafkaSource {
	return NewKafkaSourceWithReader(kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0,
	}), bus, logger)
}

func NewKafkaSourceWithReader(reader KafkaReader, bus *EventBus, logger *slog.Logger) *KafkaSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaSource{
		reader: reader,
		bus:    bus,
		logger: logger.With("component", "kafka_source"),
	}
}

// Run consumes until ctx is cancelled. Handler failures are logged and the
// message is left uncommitted so the group redelivers it.
func (s *KafkaSource) Run(ctx context.Context) error {
	for {
		msg, err := s.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("fetch message: %w", err)
		}

		event, err := DecodeEvent(msg.Value)
		if err != nil {
			s.logger.Warn("dropping undecodable message",
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err)
			if err := s.reader.CommitMessages(ctx, msg); err != nil {
				return fmt.Errorf("commit message: %w", err)
			}
			continue
		}

		if err := s.bus.PublishSync(ctx, event); err != nil {
			s.logger.Error("event not handled, leaving uncommitted",
				"event_type", event.EventType(),
				"event_id", event.EventID(),
				"error", err)
			continue
		}

		if err := s.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("commit message: %w", err)
		}
	}
}

func (s *KafkaSource) Close() error {
	return s.reader.Close()
}

type wireEvent struct {
	ID          string                 `json:"id"`
	Type        string                 `json:"type"`
	AggregateID string                 `json:"aggregate_id"`
	OccurredAt  time.Time              `json:"occurred_at"`
	Data        map[string]interface{} `json:"data"`
}

// DecodeEvent reads one message value written by KafkaSink.
func DecodeEvent(value []byte) (BaseEvent, error) {
	var w wireEvent
	if err := json.Unmarshal(value, &w); err != nil {
		return BaseEvent{}, fmt.Errorf("decode event: %w", err)
	}
	if w.Type == "" || w.ID == "" {
		return BaseEvent{}, errors.New("decode event: missing id or type")
	}
	return BaseEvent{
		ID:        w.ID,
		Type:      w.Type,
		Aggregate: w.AggregateID,
		Timestamp: w.OccurredAt,
		Data:      w.Data,
	}, nil
}
