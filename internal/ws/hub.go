// Package ws holds the websocket connection registry used for notification
// fan-out. The hub is an explicit object passed to the services that need it;
// nothing in this package is process-global.
package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
	sendQueue = 16
)

// Client is one authenticated websocket connection.
type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
	Send   chan []byte
	hub    *Hub
}

// Hub maintains the set of active clients keyed by user id.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run processes register/unregister events. Call once from a goroutine at
// startup.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[*Client]bool)
			}
			h.clients[client.UserID][client] = true
			h.mu.Unlock()
			h.logger.Debug("websocket client connected", "user_id", client.UserID)

		case client := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.clients[client.UserID]; ok {
				if conns[client] {
					delete(conns, client)
					close(client.Send)
				}
				if len(conns) == 0 {
					delete(h.clients, client.UserID)
				}
			}
			h.mu.Unlock()
			h.logger.Debug("websocket client disconnected", "user_id", client.UserID)
		}
	}
}

// NewClient wraps an upgraded connection and registers it with the hub.
func (h *Hub) NewClient(userID uuid.UUID, conn *websocket.Conn) *Client {
	client := &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, sendQueue),
		hub:    h,
	}
	h.register <- client
	return client
}

// SendToUser delivers payload to every live connection of the user. A user
// with no connections is not an error; delivery is best-effort.
func (h *Hub) SendToUser(userID uuid.UUID, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to marshal websocket payload", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[userID] {
		select {
		case client.Send <- data:
		default:
			// Slow consumer; drop the message rather than block fan-out.
			h.logger.Warn("dropping websocket message for slow client", "user_id", userID)
		}
	}
}

// WritePump drains the send queue onto the connection. Runs in its own
// goroutine per client.
func (c *Client) WritePump() {
	defer c.Conn.Close()
	for message := range c.Send {
		c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// ReadPump discards inbound frames and unregisters on error. Clients only
// receive; the read loop exists to detect disconnects.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.Conn.Close()
	}()
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
