package events

import (
	"context"
	"log/slog"
)

// AuditLogHandler writes one structured line per ledger event.
func AuditLogHandler(logger *slog.Logger) Handler {
	return func(ctx context.Context, event Event) error {
		logger.InfoContext(ctx, "ledger event",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"aggregate_id", event.AggregateID(),
			"occurred_at", event.OccurredAt(),
			"payload", event.Payload())
		return nil
	}
}
