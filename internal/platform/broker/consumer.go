package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"menuCms/internal/modules/menus/domain"
)

// retryDelay is the pause after a failed fetch before polling the broker again.
const retryDelay = time.Second

var errEmptyEvent = errors.New("empty menu event")

// MenuEventConsumer reads menu change events written by the Kafka publisher of any
// instance and hands them to the local dispatcher.
type MenuEventConsumer struct {
	reader *kafka.Reader
	topic  string
}

func NewMenuEventConsumer(brokers []string, groupID, topic string) *MenuEventConsumer {
	return &MenuEventConsumer{
		topic: topic,
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			GroupID:  groupID,
			Topic:    topic,
			MinBytes: 1,
			MaxBytes: 1 << 20,
			MaxWait:  500 * time.Millisecond,
		}),
	}
}

// Run blocks until ctx is done. Undecodable records are skipped; dispatch failures are
// logged and do not stop the loop.
func (c *MenuEventConsumer) Run(ctx context.Context, dispatcher Dispatcher) error {
	defer func() {
		if err := c.reader.Close(); err != nil {
			slog.Warn("kafka reader close failed", slog.String("kafkaTopic", c.topic), slog.Any("error", err))
		}
	}()
	for {
		record, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("kafka fetch failed", slog.String("kafkaTopic", c.topic), slog.Any("error", err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryDelay):
			}
			continue
		}

		msg, err := decodeMenuEvent(record)
		if err != nil {
			slog.Warn("menu event skipped", slog.String("kafkaTopic", record.Topic), slog.Int64("offset", record.Offset), slog.Any("error", err))
			continue
		}
		slog.Debug("menu event received",
			slog.String("topic", msg.Topic),
			slog.String("resourceId", msg.ResourceID),
			slog.Int("partition", record.Partition),
			slog.Int64("offset", record.Offset),
		)
		if err := dispatcher.Dispatch(ctx, msg); err != nil {
			slog.Warn("menu event dispatch failed", slog.String("topic", msg.Topic), slog.Any("error", err))
		}
	}
}

// decodeMenuEvent turns a record into a menu message. The action falls back to the
// suffix of a per-action Kafka topic ("menus.copied"), the resource id to the record key
// and the restaurant to the first part of the resource id.
func decodeMenuEvent(record kafka.Message) (*domain.Message, error) {
	if len(strings.TrimSpace(string(record.Value))) == 0 {
		return nil, errEmptyEvent
	}
	var msg domain.Message
	if err := json.Unmarshal(record.Value, &msg); err != nil {
		return nil, fmt.Errorf("decode menu event: %w", err)
	}

	if msg.Entity == "" {
		msg.Entity = domain.MenusEntity
	}
	if msg.Entity != domain.MenusEntity {
		return nil, fmt.Errorf("unexpected entity %q", msg.Entity)
	}
	if msg.Action == "" {
		msg.Action = actionFromTopic(msg.Topic)
	}
	if msg.Action == "" {
		msg.Action = actionFromTopic(record.Topic)
	}
	if msg.Action == "" {
		return nil, fmt.Errorf("menu event without action on %s", record.Topic)
	}
	msg.Topic = domain.MenuTopic(msg.Action)

	if msg.ResourceID == "" {
		msg.ResourceID = string(record.Key)
	}
	if msg.Restaurant() == "" {
		if restaurantID, _, ok := strings.Cut(msg.ResourceID, ":"); ok && restaurantID != "" {
			if msg.Metadata == nil {
				msg.Metadata = map[string]string{}
			}
			msg.Metadata["restaurant"] = restaurantID
		}
	}

	switch {
	case !msg.Timestamp.IsZero():
	case !record.Time.IsZero():
		msg.Timestamp = record.Time.UTC()
	default:
		msg.Timestamp = time.Now().UTC()
	}
	return &msg, nil
}

func actionFromTopic(topic string) string {
	entity, action, ok := strings.Cut(strings.TrimSpace(topic), ".")
	if !ok || entity != domain.MenusEntity {
		return ""
	}
	switch action {
	case domain.ActionSaved, domain.ActionPublished, domain.ActionCopied:
		return action
	}
	return ""
}
