package domain

import (
	"strings"
	"time"
)

// MenusEntity is the entity name carried by menu change messages.
const MenusEntity = "menus"

const (
	ActionSaved     = "saved"
	ActionPublished = "published"
	ActionCopied    = "copied"
)

// Message is a menu change notification, shared by the event bus and websocket clients.
type Message struct {
	Topic      string            `json:"topic"`
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID string            `json:"resourceId,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Data       any               `json:"data,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// MenuTopic returns the canonical topic for a menu action.
func MenuTopic(action string) string {
	cleanAction := strings.TrimSpace(action)
	if cleanAction == "" {
		return ""
	}
	return MenusEntity + "." + cleanAction
}

// MenuResourceID identifies a restaurant-week, e.g. "bufet:2024-01-15".
func MenuResourceID(restaurantID string, weekStart Date) string {
	return restaurantID + ":" + WeekStartOf(weekStart).String()
}

// BuildMenuMessage composes the notification for a change of one restaurant-week.
func BuildMenuMessage(action, restaurantID string, week WeekMenu, user string, at time.Time) *Message {
	metadata := map[string]string{
		"restaurant": restaurantID,
		"week":       week.WeekStart.String(),
		"status":     string(week.Status),
	}
	if strings.TrimSpace(user) != "" {
		metadata["user"] = user
	}
	return &Message{
		Topic:      MenuTopic(action),
		Entity:     MenusEntity,
		Action:     action,
		ResourceID: MenuResourceID(restaurantID, week.WeekStart),
		Metadata:   metadata,
		Timestamp:  at.UTC(),
	}
}

// Restaurant returns the restaurant the message refers to.
func (m *Message) Restaurant() string {
	if m == nil || m.Metadata == nil {
		return ""
	}
	return strings.TrimSpace(m.Metadata["restaurant"])
}
