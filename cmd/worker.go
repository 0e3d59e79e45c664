package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/frahmantamala/hr-records/internal/core/events"
	"github.com/frahmantamala/hr-records/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start background workers that consume the ledger event stream.`,
}

// Event consumer command
var eventWorkerCmd = &cobra.Command{
	Use:   "events",
	Short: "Consume ledger events from kafka",
	Long:  `Read the ledger topic as a consumer group and write every event to the audit log.`,
	Run: func(cmd *cobra.Command, args []string) {
		startEventWorker()
	},
}

var (
	consumerGroup string
	topicOverride string
)

func startEventWorker() {
	config, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logger.LoggerWrapper()

	kafkaCfg := config.Events.Kafka
	kafkaCfg.Topic = getStringFlag(topicOverride, kafkaCfg.Topic)
	if !kafkaCfg.Enabled() {
		logger.Error("kafka is not configured; set events.kafka.brokers and events.kafka.topic")
		os.Exit(1)
	}

	eventBus := events.NewEventBus(logger)
	eventBus.SubscribeAll(events.AuditLogHandler(logger))

	source := events.NewKafkaSource(kafkaCfg.Brokers, kafkaCfg.Topic, consumerGroup, eventBus, logger)
	defer func() {
		if err := source.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("event worker started",
		"brokers", kafkaCfg.Brokers,
		"topic", kafkaCfg.Topic,
		"group", consumerGroup)

	if err := source.Run(ctx); err != nil {
		logger.Error("event worker stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("event worker stopped")
}

func getStringFlag(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func init() {
	eventWorkerCmd.Flags().StringVar(&consumerGroup, "group", "hr-records-audit", "Kafka consumer group")
	eventWorkerCmd.Flags().StringVar(&topicOverride, "topic", "", "Kafka topic (overrides config)")

	workerCmd.AddCommand(eventWorkerCmd)
	rootCmd.AddCommand(workerCmd)
}
