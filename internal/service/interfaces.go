package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AmityTek/chat-node-next/internal/bus"
	"github.com/AmityTek/chat-node-next/internal/domain"
)

// --- Repository Interfaces ---

// IMessageRepository defines the interface for message persistence.
type IMessageRepository interface {
	Create(ctx context.Context, message *domain.Message) (*domain.Message, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Message, error)
	FindRecent(ctx context.Context, room string, limit int64) ([]domain.ResolvedMessage, error)
	UpdateBody(ctx context.Context, id primitive.ObjectID, newBody string) (*domain.Message, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*domain.Message, error)
}

// --- Infrastructure Interfaces ---

// IFanoutBus defines the interface for cross-instance room fanout.
type IFanoutBus interface {
	Publish(ctx context.Context, room string, data []byte) error
	Events() <-chan bus.Event
	QueryMembers(ctx context.Context, room string) ([]string, error)
	Ping(ctx context.Context) error
	Close() error
}

// IPresenceTracker defines the interface for the instance-local
// connection -> room membership map.
type IPresenceTracker interface {
	Join(connID, room string) (prev string)
	Leave(connID string) (room string)
	Room(connID string) string
	LocalMembers(room string) []string
}
