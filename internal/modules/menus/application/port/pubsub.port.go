package port

import (
	"context"

	"menuCms/internal/modules/menus/domain"
)

// EventPublisher emits menu change notifications (Kafka or in-process).
type EventPublisher interface {
	Publish(ctx context.Context, msg *domain.Message) error
}

// Broadcaster delivers messages to connected websocket clients.
type Broadcaster interface {
	Broadcast(ctx context.Context, msg *domain.Message)
}

// TopicHandler handles messages consumed from one event topic.
type TopicHandler interface {
	Topic() string
	Handle(ctx context.Context, msg *domain.Message) error
}
