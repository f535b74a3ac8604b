package service

import (
	"context"

	"github.com/fathima-sithara/chat-profile-service/internal/events"
	"go.uber.org/zap"
)

// publishEvent is best effort: a failed publish is logged and never fails
// the operation that produced the event.
func publishEvent(ctx context.Context, pub events.Publisher, log *zap.Logger, e events.Event) {
	if err := pub.Publish(ctx, e); err != nil {
		log.Warn("event publish failed",
			zap.String("event_id", e.ID),
			zap.String("event_type", string(e.Type)),
			zap.Error(err),
		)
	}
}
