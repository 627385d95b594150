// Package board fans waitlist changes out to the owner dashboards connected
// over WebSocket, grouped by restaurant.
package board

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/huey-app/huey/utils"
	"github.com/sirupsen/logrus"
)

const (
	writeWait = 5 * time.Second
	// sendBuffer is how many events a board may lag behind before it is
	// dropped.
	sendBuffer = 64
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// client owns the only goroutine that writes data frames to conn.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub keeps the live connections of each restaurant's board. Publish only
// queues frames; each connection has its own writer, so a stalled board
// never holds up the caller or the other boards.
type Hub struct {
	mu      sync.Mutex
	clients map[uint]map[*websocket.Conn]*client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uint]map[*websocket.Conn]*client)}
}

func (h *Hub) Register(restaurantID uint, conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	conns, ok := h.clients[restaurantID]
	if !ok {
		conns = make(map[*websocket.Conn]*client)
		h.clients[restaurantID] = conns
	}
	conns[conn] = c
	h.mu.Unlock()

	go h.writePump(restaurantID, c)
}

// Unregister drops conn and closes it. Unknown connections are ignored.
func (h *Hub) Unregister(restaurantID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(restaurantID, conn)
}

func (h *Hub) removeLocked(restaurantID uint, conn *websocket.Conn) {
	conns, ok := h.clients[restaurantID]
	if !ok {
		return
	}
	c, ok := conns[conn]
	if !ok {
		return
	}
	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.clients, restaurantID)
	}
	close(c.send)
	conn.Close()
}

func (h *Hub) writePump(restaurantID uint, c *client) {
	for payload := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			utils.InfoLogger.WithField("restaurant_id", restaurantID).
				WithError(err).Warn("Dropping board connection after failed write")
			h.Unregister(restaurantID, c.conn)
			return
		}
	}
}

// Subscribers returns the number of open boards for a restaurant.
func (h *Hub) Subscribers(restaurantID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[restaurantID])
}

// Publish queues event for every board of restaurantID and returns without
// waiting on the network. A board whose queue is full is unregistered.
func (h *Hub) Publish(restaurantID uint, event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		utils.ErrorLogger.WithError(err).Errorf("Error marshaling board event %s", event)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn, c := range h.clients[restaurantID] {
		select {
		case c.send <- payload:
		default:
			utils.InfoLogger.WithFields(logrus.Fields{
				"restaurant_id": restaurantID,
				"event":         event,
			}).Warn("Dropping board connection that fell behind")
			h.removeLocked(restaurantID, conn)
		}
	}
}
