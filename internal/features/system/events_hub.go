package system

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// ImportEvent is pushed to connected portal clients as import lifecycles move
type ImportEvent struct {
	Type    string      `json:"type"` // preview_ready | commit_finished | snapshot_restored | snapshot_reapplied
	Payload interface{} `json:"payload,omitempty"`
	At      time.Time   `json:"at"`
}

// EventsHub fans import lifecycle events out to websocket subscribers
type EventsHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	logger  *zap.Logger
}

func NewEventsHub(logger *zap.Logger) *EventsHub {
	return &EventsHub{
		clients: make(map[*websocket.Conn]bool),
		logger:  logger,
	}
}

func (h *EventsHub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
}

func (h *EventsHub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

// Broadcast sends an event to every subscriber. Dead connections are dropped
// on write failure rather than failing the caller.
func (h *EventsHub) Broadcast(eventType string, payload interface{}) {
	event := ImportEvent{Type: eventType, Payload: payload, At: time.Now().UTC()}
	msg, err := json.Marshal(event)
	if err != nil {
		h.logger.Warn("failed to encode import event", zap.String("type", eventType), zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}
