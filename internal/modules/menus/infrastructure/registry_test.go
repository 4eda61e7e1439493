package infrastructure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menuCms/internal/modules/menus/domain"
)

type countingHandler struct {
	topic string
	seen  int
}

func (h *countingHandler) Topic() string { return h.topic }

func (h *countingHandler) Handle(context.Context, *domain.Message) error {
	h.seen++
	return nil
}

func TestLocalPublisherDispatchesByTopic(t *testing.T) {
	registry := NewHandlerRegistry()
	published := &countingHandler{topic: "menus.published"}
	registry.Register(published)
	pub := NewLocalPublisher(registry)

	require.NoError(t, pub.Publish(context.Background(), menuMessage("bufet")))
	require.NoError(t, pub.Publish(context.Background(), &domain.Message{Topic: "menus.unknown"}))
	require.NoError(t, pub.Publish(context.Background(), nil))

	assert.Equal(t, 1, published.seen)
}
