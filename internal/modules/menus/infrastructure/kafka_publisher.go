package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"menuCms/internal/modules/menus/application/port"
	"menuCms/internal/modules/menus/domain"
)

// DefaultMenuTopic is the Kafka topic carrying menu change events.
const DefaultMenuTopic = "menus.events"

// KafkaPublisher writes menu change events to Kafka, keyed by restaurant-week.
type KafkaPublisher struct {
	writer *kafka.Writer
	topic  string
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultMenuTopic
	}
	return &KafkaPublisher{
		topic: topic,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			WriteTimeout:           5 * time.Second,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, msg *domain.Message) error {
	if msg == nil {
		return nil
	}
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode menu event: %w", err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.ResourceID),
		Value: value,
		Time:  msg.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("publish menu event to %s: %w", p.topic, err)
	}
	slog.Debug("menu event published", slog.String("kafkaTopic", p.topic), slog.String("topic", msg.Topic), slog.String("resourceId", msg.ResourceID))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

var _ port.EventPublisher = (*KafkaPublisher)(nil)
