package broker

import (
	"context"
	"log/slog"

	"menuCms/internal/modules/menus/domain"
)

// Dispatcher routes a message to the handlers registered for its topic.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg *domain.Message) error
}

// ConsumerConfig selects the brokers and topics to follow.
type ConsumerConfig struct {
	Brokers []string
	GroupID string
	Topics  []string
}

// StartMenuConsumers runs one consumer goroutine per topic until ctx is done. Without
// brokers nothing is started and the caller publishes in-process instead.
func StartMenuConsumers(ctx context.Context, cfg ConsumerConfig, dispatcher Dispatcher) int {
	if len(cfg.Brokers) == 0 {
		return 0
	}
	started := 0
	for _, topic := range cfg.Topics {
		if topic == "" {
			continue
		}
		consumer := NewMenuEventConsumer(cfg.Brokers, cfg.GroupID, topic)
		go func(kafkaTopic string) {
			err := consumer.Run(ctx, dispatcher)
			slog.Info("menu event consumer stopped", slog.String("kafkaTopic", kafkaTopic), slog.Any("reason", err))
		}(topic)
		started++
	}
	return started
}
