package port

import (
	"context"

	"qrMenu/internal/modules/realtime/domain"
)

// PubSubPort is the optional change feed. Consume blocks until ctx ends, handing every decoded
// event to handler.
type PubSubPort interface {
	Consume(ctx context.Context, topic string, handler func(*domain.Message) error) error
}

// Broadcaster delivers a message to every viewer whose subscription and scope match it.
type Broadcaster interface {
	Broadcast(ctx context.Context, msg *domain.Message)
}

// TopicHandler reacts to one change feed topic, e.g. menus.updated.
type TopicHandler interface {
	Topic() string
	Handle(ctx context.Context, msg *domain.Message) error
}
