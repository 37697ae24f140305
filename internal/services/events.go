package services

import (
	"context"

	"go.uber.org/zap"

	"lottery-settlement/internal/models"
)

// EventPublisher pushes emitted records to live subscribers. The websocket
// hub implements it; a nil publisher silently drops.
type EventPublisher interface {
	PublishEvent(event *models.Event)
}

// emitEvent appends an audit record and fans it out. Emission is
// best-effort: the owning transition has already committed, so a failed
// append is logged, not surfaced.
func emitEvent(ctx context.Context, store Store, publisher EventPublisher, log *zap.Logger, event *models.Event) {
	if event.ID == "" {
		event.ID = models.GenerateEventID()
	}
	if err := store.AppendEvent(ctx, event); err != nil {
		log.Warn("failed to append event",
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
	if publisher != nil {
		publisher.PublishEvent(event)
	}
}
