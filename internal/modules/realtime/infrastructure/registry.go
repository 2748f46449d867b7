package infrastructure

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"qrMenu/internal/modules/realtime/application/port"
	"qrMenu/internal/modules/realtime/domain"
)

// HandlerRegistry routes change feed messages to the handler registered for their topic.
type HandlerRegistry struct {
	handlers map[string]port.TopicHandler
	logger   *zap.Logger
}

func NewHandlerRegistry(logger *zap.Logger) *HandlerRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HandlerRegistry{handlers: make(map[string]port.TopicHandler), logger: logger.Named("registry")}
}

func (r *HandlerRegistry) Register(h port.TopicHandler) {
	r.handlers[h.Topic()] = h
}

// Topics lists the registered topics in a stable order.
func (r *HandlerRegistry) Topics() []string {
	topics := make([]string, 0, len(r.handlers))
	for topic := range r.handlers {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}

func (r *HandlerRegistry) Dispatch(ctx context.Context, msg *domain.Message) error {
	if msg == nil {
		return nil
	}
	if handler, ok := r.handlers[msg.Topic]; ok {
		return handler.Handle(ctx, msg)
	}
	r.logger.Debug("no handler for topic", zap.String("topic", msg.Topic))
	return nil
}
