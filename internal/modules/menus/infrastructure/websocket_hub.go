package infrastructure

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	"menuCms/internal/modules/menus/application/port"
	"menuCms/internal/modules/menus/domain"
)

// AllRestaurants subscribes a client to the changes of every restaurant.
const AllRestaurants = "*"

// Hub fans menu change messages out to websocket clients subscribed per restaurant.
type Hub struct {
	restaurants map[string]map[*Client]struct{}
	clients     map[string]*Client
	global      map[*Client]struct{}
	mu          sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		restaurants: make(map[string]map[*Client]struct{}),
		clients:     make(map[string]*Client),
		global:      make(map[*Client]struct{}),
	}
}

func (h *Hub) registerClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.clients[c.id]; ok && existing != c {
		h.detachLocked(existing)
	}
	h.clients[c.id] = c
	slog.Info("ws client registered", slog.String("clientId", c.id), slog.String("userId", c.userID))
}

func (h *Hub) subscribe(c *Client, restaurantID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if restaurantID == AllRestaurants {
		h.global[c] = struct{}{}
		c.subscribed[restaurantID] = struct{}{}
		return
	}
	if h.restaurants[restaurantID] == nil {
		h.restaurants[restaurantID] = make(map[*Client]struct{})
	}
	h.restaurants[restaurantID][c] = struct{}{}
	c.subscribed[restaurantID] = struct{}{}
}

func (h *Hub) unsubscribe(c *Client, restaurantID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unsubscribeLocked(c, restaurantID)
	slog.Debug("ws client unsubscribed", slog.String("clientId", c.id), slog.String("restaurant", restaurantID))
}

func (h *Hub) unsubscribeLocked(c *Client, restaurantID string) {
	if restaurantID == AllRestaurants {
		delete(h.global, c)
	} else if subs, ok := h.restaurants[restaurantID]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.restaurants, restaurantID)
		}
	}
	delete(c.subscribed, restaurantID)
}

func (h *Hub) detachClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(c)
}

func (h *Hub) detachLocked(c *Client) {
	if c == nil {
		return
	}
	for restaurantID := range c.subscribed {
		h.unsubscribeLocked(c, restaurantID)
	}
	if current, ok := h.clients[c.id]; ok && current == c {
		delete(h.clients, c.id)
	}
	c.close()
	slog.Info("ws client detached", slog.String("clientId", c.id), slog.String("userId", c.userID))
}

// Broadcast sends msg to the clients watching its restaurant and to global subscribers.
// Slow clients whose buffer is full are dropped.
func (h *Hub) Broadcast(_ context.Context, msg *domain.Message) {
	if msg == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("broadcast marshal error", slog.Any("error", err))
		return
	}

	restaurantID := strings.ToLower(msg.Restaurant())

	h.mu.RLock()
	subscribers := h.restaurants[restaurantID]
	clients := make([]*Client, 0, len(subscribers)+len(h.global))
	seen := make(map[*Client]struct{}, len(subscribers)+len(h.global))
	for c := range subscribers {
		clients = append(clients, c)
		seen[c] = struct{}{}
	}
	for c := range h.global {
		if _, ok := seen[c]; ok {
			continue
		}
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if !c.trySend(data) {
			go h.detachClient(c)
		}
	}
	slog.Debug("menu change broadcast", slog.String("topic", msg.Topic), slog.String("restaurant", restaurantID), slog.Int("clients", len(clients)))
}

// AttachClient registers the client and subscribes it to the given restaurants.
func (h *Hub) AttachClient(c *Client, restaurantIDs []string) {
	h.registerClient(c)
	for _, id := range restaurantIDs {
		if trimmed := strings.ToLower(strings.TrimSpace(id)); trimmed != "" {
			h.subscribe(c, trimmed)
		}
	}
	slog.Info("ws client attached", slog.String("clientId", c.id), slog.String("userId", c.userID), slog.Any("restaurants", restaurantIDs))
}

// ClientCount reports the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close detaches every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		h.detachLocked(c)
	}
}

var _ port.Broadcaster = (*Hub)(nil)
