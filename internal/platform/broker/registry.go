package broker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"qrMenu/internal/modules/realtime/application/port"
	"qrMenu/internal/modules/realtime/domain"
	"qrMenu/internal/modules/realtime/infrastructure"
)

// StartConsumers consumes every topic on its own goroutine and dispatches through registry.
// The returned wait blocks until all consumers have stopped.
func StartConsumers(ctx context.Context, source port.PubSubPort, registry *infrastructure.HandlerRegistry, topics []string, logger *zap.Logger) (wait func()) {
	var wg sync.WaitGroup
	if source == nil || len(topics) == 0 {
		return wg.Wait
	}
	if logger == nil {
		logger = zap.L()
	}
	for _, topic := range topics {
		wg.Add(1)
		go func(tp string) {
			defer wg.Done()
			err := source.Consume(ctx, tp, func(msg *domain.Message) error {
				return registry.Dispatch(ctx, msg)
			})
			if err != nil && ctx.Err() == nil {
				logger.Error("change feed consumer stopped", zap.String("topic", tp), zap.Error(err))
			}
		}(topic)
	}
	return wg.Wait
}

// StartKafkaConsumers starts Kafka consumers for topics. No brokers means no change feed.
func StartKafkaConsumers(ctx context.Context, registry *infrastructure.HandlerRegistry, brokers []string, groupID string, topics []string, logger *zap.Logger) (wait func()) {
	if len(brokers) == 0 {
		return func() {}
	}
	return StartConsumers(ctx, NewKafkaSource(brokers, groupID, logger), registry, topics, logger)
}
