package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/frahmantamala/hr-records/internal/core/events"
	"github.com/frahmantamala/hr-records/pkg/logger"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Manage ledger events: publish test events to the audit log and, when configured, kafka`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test event",
	Long:  `Publish a test ledger event for testing and debugging the audit log and kafka wiring`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := publishTestEvent(args[0]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

var (
	eventData      string
	eventAggregate string
)

func sampleEvent(eventType string, aggregate uuid.UUID) (events.BaseEvent, error) {
	switch eventType {
	case events.EventTypeCompanyRegistered:
		return events.NewCompanyRegistered(aggregate, eventData), nil
	case events.EventTypeEmployeeRegistered:
		return events.NewEmployeeRegistered(uuid.New(), aggregate), nil
	case events.EventTypeEmployeeUpdated:
		return events.NewEmployeeUpdated(aggregate, []string{"turnoFuncionario"}), nil
	case events.EventTypeEmployeeDeleted:
		return events.NewEmployeeDeleted(uuid.New(), aggregate, eventData), nil
	case events.EventTypeWorkedDayRecorded:
		return events.NewWorkedDayRecorded(aggregate, uuid.New(), time.Now(), 480), nil
	case events.EventTypeEmployeeEventRecorded:
		return events.NewEmployeeEventRecorded(aggregate, uuid.New(), eventData), nil
	default:
		return events.BaseEvent{}, fmt.Errorf("unknown event type %q", eventType)
	}
}

func publishTestEvent(eventType string) error {
	config, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := logger.LoggerWrapper()

	aggregate := uuid.New()
	if eventAggregate != "" {
		if aggregate, err = uuid.Parse(eventAggregate); err != nil {
			return fmt.Errorf("invalid --aggregate: %w", err)
		}
	}

	testEvent, err := sampleEvent(eventType, aggregate)
	if err != nil {
		return err
	}

	eventBus := events.NewEventBus(logger)
	eventBus.SubscribeAll(events.AuditLogHandler(logger))

	if config.Events.Kafka.Enabled() {
		sink := events.NewKafkaSink(config.Events.Kafka.Brokers, config.Events.Kafka.Topic, logger)
		defer sink.Close()
		eventBus.SubscribeAll(sink.Handle)
	}

	logger.Info("publishing test event", "event_type", eventType, "event_id", testEvent.ID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := eventBus.PublishSync(ctx, testEvent); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	logger.Info("test event published successfully")
	return nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventData, "data", "test", "Name or key carried by the event")
	publishEventCmd.Flags().StringVar(&eventAggregate, "aggregate", "", "Aggregate id (random when empty)")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
