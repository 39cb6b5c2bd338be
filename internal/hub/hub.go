package hub

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Event is a real-time event delivered to a user's open streams.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

const (
	EventNotification     = "notification"
	EventFriendshipUpdate = "friendship_update"
)

// Client is one open stream. The SSE handler drains it until it is closed.
type Client chan []byte

// clientBuffer bounds how far a slow stream may fall behind before events
// are dropped for it.
const clientBuffer = 16

// Hub fans events out to every stream a user has open.
type Hub struct {
	users map[uint]map[Client]bool
	mu    sync.RWMutex
}

func New() *Hub {
	return &Hub{
		users: make(map[uint]map[Client]bool),
	}
}

// Subscribe opens a new stream for userID.
func (h *Hub) Subscribe(userID uint) Client {
	client := make(Client, clientBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.users[userID]; !ok {
		h.users[userID] = make(map[Client]bool)
	}
	h.users[userID][client] = true
	return client
}

// Unsubscribe closes a stream and forgets it.
func (h *Hub) Unsubscribe(userID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.users[userID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client)
			if len(clients) == 0 {
				delete(h.users, userID)
			}
		}
	}
}

// Publish sends event to every stream of userID without blocking.
func (h *Hub) Publish(userID uint, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.users[userID]
	if !ok {
		return
	}
	msg, err := json.Marshal(event)
	if err != nil {
		slog.Error("hub: marshal event", "type", event.Type, "error", err)
		return
	}
	for client := range clients {
		select {
		case client <- msg:
		default:
			slog.Warn("hub: dropping event for slow client", "user_id", userID, "type", event.Type)
		}
	}
}

// Subscribers returns the number of open streams of userID.
func (h *Hub) Subscribers(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}
