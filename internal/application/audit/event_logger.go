package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/techrefresher/backend/internal/domain/shared"
)

// EventLogger records every domain event as a structured audit entry.
// It subscribes to all event types and never fails the bus: an audit
// line that cannot be written is not worth retrying.
type EventLogger struct {
	logger *zap.Logger
}

func NewEventLogger(logger *zap.Logger) *EventLogger {
	return &EventLogger{logger: logger}
}

// EventTypes returns an empty slice so the bus delivers all events
func (l *EventLogger) EventTypes() []string {
	return nil
}

// Handle writes the audit entry
func (l *EventLogger) Handle(_ context.Context, event shared.DomainEvent) error {
	l.logger.Info("domain event",
		zap.String("event_id", event.EventID().String()),
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_type", event.AggregateType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.String("group_id", event.GroupID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	)
	return nil
}
