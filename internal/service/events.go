package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/nail_salon/internal/logging"
	"github.com/Skotchmaster/nail_salon/internal/mykafka"
)

type Publisher interface {
	PublishEvent(ctx context.Context, topic string, event mykafka.Event) error
}

// publish never fails the caller; a lost event is logged.
func publish(ctx context.Context, pub Publisher, topic, eventType, id string, data any) {
	if pub == nil {
		return
	}
	ev := mykafka.Event{
		Type:       eventType,
		ID:         id,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
	if err := pub.PublishEvent(ctx, topic, ev); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "topic", topic, "type", eventType, "id", id, "error", err)
	}
}
