// Package ws is the outbound event stream: every withdrawal transition and
// commission credit is broadcast to the affected user's connections and to
// connected admins. The hub only emits; delivery guarantees are out of scope.
package ws

import (
	"encoding/json"
	"sync"

	"gradepay/internal/domain"
)

// Client is one WebSocket connection with user context.
type Client struct {
	UserID uint
	Role   string
	Send   chan []byte
	hub    *Hub
	once   sync.Once
}

func (c *Client) Close() {
	c.once.Do(func() {
		close(c.Send)
		if c.hub != nil {
			c.hub.unregister(c)
		}
	})
}

// Hub maintains the set of active clients and broadcasts events to them.
type Hub struct {
	mu     sync.RWMutex
	byUser map[uint]map[*Client]struct{}
	admins map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		byUser: make(map[uint]map[*Client]struct{}),
		admins: make(map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	if h.byUser[c.UserID] == nil {
		h.byUser[c.UserID] = make(map[*Client]struct{})
	}
	h.byUser[c.UserID][c] = struct{}{}
	if c.Role == domain.RoleAdmin {
		h.admins[c] = struct{}{}
	}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m := h.byUser[c.UserID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byUser, c.UserID)
		}
	}
	delete(h.admins, c)
}

// BroadcastToUser sends payload to every connection of one user. Slow clients
// are skipped rather than blocking the emitter.
func (h *Hub) BroadcastToUser(userID uint, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.byUser[userID]))
	for c := range h.byUser[userID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		select {
		case c.Send <- data:
		default:
		}
	}
}

// BroadcastToAdmins sends payload to every connected admin.
func (h *Hub) BroadcastToAdmins(payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.admins))
	for c := range h.admins {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		select {
		case c.Send <- data:
		default:
		}
	}
}
