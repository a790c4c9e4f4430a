package server

import (
	"sync"

	"github.com/gorilla/websocket"

	"hanabi/internal/logger"
)

// Hub fans events out to every connected websocket subscriber. It is the
// coordinator's notification hook.
type Hub struct {
	mut    sync.Mutex
	conns  map[*websocket.Conn]bool
	Logger logger.Logger
}

func NewHub() *Hub {
	return &Hub{
		conns:  make(map[*websocket.Conn]bool),
		Logger: logger.New("hub"),
	}
}

func (h *Hub) Add(conn *websocket.Conn) {
	h.mut.Lock()
	defer h.mut.Unlock()
	h.conns[conn] = true
}

func (h *Hub) Remove(conn *websocket.Conn) {
	h.mut.Lock()
	defer h.mut.Unlock()
	delete(h.conns, conn)
	conn.Close()
}

// Emit broadcasts an event to every subscriber. Connections that fail to
// take the write are dropped.
func (h *Hub) Emit(event string, data any) {
	message := map[string]any{"event": event, "data": data}
	h.mut.Lock()
	defer h.mut.Unlock()
	for conn := range h.conns {
		if err := conn.WriteJSON(message); err != nil {
			h.Logger.Error("Failed to push event to subscriber", err)
			delete(h.conns, conn)
			conn.Close()
		}
	}
}
