package handler

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/AmityTek/chat-node-next/internal/hub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The core does no origin-based auth; TLS/origin policy is the
	// terminating proxy's job.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebsocketHandler upgrades HTTP requests to WebSocket connections and
// hands them to the hub.
type WebsocketHandler struct {
	hub    *hub.Hub
	logger zerolog.Logger
}

// NewWebsocketHandler creates a new WebsocketHandler.
func NewWebsocketHandler(h *hub.Hub, logger zerolog.Logger) *WebsocketHandler {
	return &WebsocketHandler{
		hub:    h,
		logger: logger.With().Str("component", "ws_handler").Logger(),
	}
}

// HandleConnection handles GET /ws.
func (h *WebsocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	h.hub.ServeWs(conn)
}
