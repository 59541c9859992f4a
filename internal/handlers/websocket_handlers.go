package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"

	ws "jamp-chat/internal/websocket"
	"jamp-chat/pkg/logger"
)

type WebSocketHandlers struct {
	hub      *ws.Hub
	opts     ws.ClientOptions
	upgrader websocket.Upgrader
}

func NewWebSocketHandlers(hub *ws.Hub, opts ws.ClientOptions) *WebSocketHandlers {
	return &WebSocketHandlers{
		hub:  hub,
		opts: opts,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // Configure for production
		},
	}
}

// HandleWebSocket upgrades the request. The client becomes a room member only after it
// sends a join frame.
func (h *WebSocketHandlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Upgrade error: %v", err)
		return
	}

	client := ws.NewClient(h.hub, conn, h.opts)
	if !h.hub.Register(client) {
		logger.Warn("Hub stopped, refusing connection %s", client.ID())
		conn.Close()
		return
	}

	// Start client pumps
	go client.WritePump()
	go client.ReadPump()
}
