//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/AmityTek/chat-node-next/internal/config"
	"github.com/AmityTek/chat-node-next/internal/handler"
	"github.com/AmityTek/chat-node-next/internal/hub"
	"github.com/AmityTek/chat-node-next/internal/presence"
	"github.com/AmityTek/chat-node-next/internal/repository/mongo"
	"github.com/AmityTek/chat-node-next/internal/service"
)

// InitializeApp creates a new application.
func InitializeApp() (*App, func(), error) {
	wire.Build(
		config.Load,
		// Infrastructure Providers
		wire.NewSet(
			provideContext,
			provideLogger,
			provideMongoDB,
			provideBus,
		),
		// Presence Provider
		wire.NewSet(
			presence.NewTracker,
			wire.Bind(new(service.IPresenceTracker), new(*presence.Tracker)),
		),
		// Repository Providers
		wire.NewSet(
			mongo.NewMessageRepository,
			wire.Bind(new(service.IMessageRepository), new(*mongo.MessageRepository)),
		),
		// Service Providers
		wire.NewSet(
			service.NewChatService,
		),
		// Hub & Handler Providers
		hub.NewHub,
		handler.NewWebsocketHandler,
		handler.NewHealthHandler,
		// App Provider
		wire.NewSet(
			wire.Struct(new(App), "*"),
		),
	)
	return nil, nil, nil
}
