package infrastructure

import (
	"log/slog"
	"strings"
	"time"

	"menuCms/internal/modules/menus/domain"
)

// Command is a client request received over the websocket.
type Command struct {
	Action     string `json:"action"`
	Restaurant string `json:"restaurant,omitempty"`
}

type CommandHandler func(client *Client, cmd Command)

type CommandProcessor struct {
	hub      *Hub
	handlers map[string]CommandHandler
}

func NewCommandProcessor(hub *Hub) *CommandProcessor {
	processor := &CommandProcessor{
		hub:      hub,
		handlers: make(map[string]CommandHandler),
	}
	processor.Register("subscribe", processor.handleSubscribe)
	processor.Register("unsubscribe", processor.handleUnsubscribe)
	processor.Register("ping", processor.handlePing)
	return processor
}

func (p *CommandProcessor) Register(action string, handler CommandHandler) {
	key := normalizeKey(action)
	if handler == nil || key == "" {
		return
	}
	p.handlers[key] = handler
}

func (p *CommandProcessor) Process(client *Client, cmd Command) {
	if client == nil {
		return
	}
	action := normalizeKey(cmd.Action)
	handler, ok := p.handlers[action]
	if !ok {
		slog.Debug("ws command ignored", slog.String("clientId", client.id), slog.String("action", action))
		return
	}
	handler(client, cmd)
}

func (p *CommandProcessor) handleSubscribe(client *Client, cmd Command) {
	restaurantID := normalizeKey(cmd.Restaurant)
	if restaurantID == "" {
		return
	}
	p.hub.subscribe(client, restaurantID)
	slog.Debug("ws subscribe", slog.String("clientId", client.id), slog.String("restaurant", restaurantID))
}

func (p *CommandProcessor) handleUnsubscribe(client *Client, cmd Command) {
	restaurantID := normalizeKey(cmd.Restaurant)
	if restaurantID == "" {
		return
	}
	p.hub.unsubscribe(client, restaurantID)
}

func (p *CommandProcessor) handlePing(client *Client, _ Command) {
	client.SendDomainMessage(&domain.Message{
		Topic:     "system.pong",
		Entity:    "system",
		Action:    "pong",
		Timestamp: time.Now().UTC(),
	})
}

func normalizeKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
