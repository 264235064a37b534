package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/AmityTek/chat-node-next/internal/bus"
	"github.com/AmityTek/chat-node-next/internal/config"
	"github.com/AmityTek/chat-node-next/internal/presence"
	"github.com/AmityTek/chat-node-next/internal/repository/mongo"
	"github.com/AmityTek/chat-node-next/internal/service"
)

func provideContext() (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	return ctx, func() { cancel() }
}

func provideLogger(cfg *config.Config) zerolog.Logger {
	if cfg.IsDevelopment() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	}
	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Logger()
}

func provideMongoDB(ctx context.Context, cfg *config.Config) (*mongodriver.Database, func(), error) {
	db, err := mongo.NewDB(ctx, cfg.MongoURL)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { db.Client().Disconnect(ctx) }
	return db, cleanup, nil
}

// provideBus picks the fanout substrate: redis when configured, the
// in-process bus otherwise (standalone instance).
func provideBus(ctx context.Context, cfg *config.Config, tracker *presence.Tracker, logger zerolog.Logger) (service.IFanoutBus, func(), error) {
	if cfg.RedisURL == "" {
		logger.Warn().Msg("REDIS_URL not set, running without cross-instance fanout")
		node := bus.NewLocalBus().Attach(tracker.LocalMembers)
		return node, func() { node.Close() }, nil
	}

	redisBus, err := bus.NewRedisBus(ctx, cfg.RedisURL, tracker.LocalMembers, logger)
	if err != nil {
		return nil, nil, err
	}
	return redisBus, func() { redisBus.Close() }, nil
}
