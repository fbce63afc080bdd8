package events

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 5 * time.Second

// Hub fans availability events out to every connected client. Clients are
// anonymous listeners keyed by a connection id; a write failure drops the
// connection.
type Hub struct {
	connections map[string]*websocket.Conn
	mutex       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]*websocket.Conn),
	}
}

func (h *Hub) Register(clientID string, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if oldConn, exists := h.connections[clientID]; exists && oldConn != nil {
		_ = oldConn.Close()
	}

	h.connections[clientID] = conn
}

func (h *Hub) Unregister(clientID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if conn, exists := h.connections[clientID]; exists && conn != nil {
		_ = conn.Close()
		delete(h.connections, clientID)
	}
}

func (h *Hub) Broadcast(message interface{}) {
	h.mutex.RLock()
	conns := make(map[string]*websocket.Conn, len(h.connections))
	for id, conn := range h.connections {
		conns[id] = conn
	}
	h.mutex.RUnlock()

	for id, conn := range conns {
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(message); err != nil {
			h.Unregister(id)
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.connections)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for id, conn := range h.connections {
		if conn != nil {
			_ = conn.Close()
		}
		delete(h.connections, id)
	}
}
