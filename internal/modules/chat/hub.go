package chat

import (
	"sync"

	"eventgenie/internal/domain"

	"github.com/gorilla/websocket"
)

// ClientKey identifies a connected user. Customer, vendor and admin IDs live
// in separate tables, so the role is part of the key.
type ClientKey struct {
	Role   domain.ParticipantRole
	UserID int64
}

// client pairs a connection with a write lock. gorilla/websocket supports at
// most one concurrent writer, and frames come from several goroutines: the
// hub fan-out, the read loop's replies and the ping ticker.
type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *client) writeJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *client) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

func (c *client) close() {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.Close()
}

type Hub struct {
	clients map[ClientKey]*client
	mutex   sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[ClientKey]*client),
	}
}

// Register replaces any existing connection for the key and returns the
// wrapper all writes for this connection must go through.
func (h *Hub) Register(key ClientKey, conn *websocket.Conn) *client {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if old, exists := h.clients[key]; exists && old != nil {
		old.close()
	}

	cl := &client{conn: conn}
	h.clients[key] = cl
	return cl
}

func (h *Hub) Unregister(key ClientKey) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if cl, exists := h.clients[key]; exists && cl != nil {
		cl.close()
		delete(h.clients, key)
	}
}

func (h *Hub) SendTo(key ClientKey, event interface{}) bool {
	h.mutex.RLock()
	cl, exists := h.clients[key]
	h.mutex.RUnlock()

	if !exists || cl == nil {
		return false
	}

	if err := cl.writeJSON(event); err != nil {
		h.Unregister(key)
		return false
	}

	return true
}

func (h *Hub) IsOnline(key ClientKey) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	_, exists := h.clients[key]
	return exists
}

func (h *Hub) OnlineCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.clients)
}

// Broadcast delivers an event to every participant of a conversation that is
// currently connected.
func (h *Hub) Broadcast(participants []domain.Participant, event interface{}) {
	for _, p := range participants {
		h.SendTo(ClientKey{Role: p.Role, UserID: p.UserID}, event)
	}
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for key, cl := range h.clients {
		if cl != nil {
			cl.close()
		}
		delete(h.clients, key)
	}
}
