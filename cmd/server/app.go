package main

import (
	"github.com/rs/zerolog"

	"github.com/AmityTek/chat-node-next/internal/config"
	"github.com/AmityTek/chat-node-next/internal/handler"
	"github.com/AmityTek/chat-node-next/internal/hub"
)

// App is the main application container.
type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Hub       *hub.Hub
	WsHandler *handler.WebsocketHandler
	Health    *handler.HealthHandler
}
