package handler

import (
	"context"
	"log/slog"
	"strings"

	"menuCms/internal/modules/menus/application/port"
	"menuCms/internal/modules/menus/domain"
)

// MenuChangedHandler forwards one kind of menu change event to websocket clients.
type MenuChangedHandler struct {
	action      string
	broadcaster port.Broadcaster
}

func NewMenuChangedHandler(action string, broadcaster port.Broadcaster) *MenuChangedHandler {
	return &MenuChangedHandler{action: strings.ToLower(strings.TrimSpace(action)), broadcaster: broadcaster}
}

// MenuChangedHandlers returns a handler for every menu action.
func MenuChangedHandlers(broadcaster port.Broadcaster) []*MenuChangedHandler {
	return []*MenuChangedHandler{
		NewMenuChangedHandler(domain.ActionSaved, broadcaster),
		NewMenuChangedHandler(domain.ActionPublished, broadcaster),
		NewMenuChangedHandler(domain.ActionCopied, broadcaster),
	}
}

func (h *MenuChangedHandler) Topic() string { return domain.MenuTopic(h.action) }

func (h *MenuChangedHandler) Handle(ctx context.Context, msg *domain.Message) error {
	if msg == nil {
		return nil
	}
	if msg.Restaurant() == "" {
		slog.Debug("menu event without restaurant ignored", slog.String("topic", msg.Topic), slog.String("resourceId", msg.ResourceID))
		return nil
	}
	h.broadcaster.Broadcast(ctx, msg)
	return nil
}

var _ port.TopicHandler = (*MenuChangedHandler)(nil)
