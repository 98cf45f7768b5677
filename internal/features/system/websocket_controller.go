package system

import (
	"log"

	"github.com/gofiber/contrib/websocket"
)

type WebSocketController struct {
	hub *EventsHub
}

func NewWebSocketController(hub *EventsHub) *WebSocketController {
	return &WebSocketController{hub: hub}
}

// HandleWebSocket keeps the connection subscribed to import events until the
// client goes away. Inbound frames are ignored; the socket is push-only.
func (h *WebSocketController) HandleWebSocket(c *websocket.Conn) {
	h.hub.Register(c)
	defer h.hub.Unregister(c)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			log.Println("read:", err)
			break
		}
	}
}
