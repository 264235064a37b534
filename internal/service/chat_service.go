package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AmityTek/chat-node-next/internal/config"
	"github.com/AmityTek/chat-node-next/internal/domain"
	"github.com/AmityTek/chat-node-next/internal/metrics"
)

// ChatService implements the room chat operations: history retrieval and
// the store-then-publish pipelines for send, edit and delete. The store
// write and the bus publish are two independent steps; a publish failure
// never rolls back a persisted write, because the store is the
// durability source of truth and a rejoin re-syncs clients from it.
type ChatService struct {
	repo         IMessageRepository
	bus          IFanoutBus
	logger       zerolog.Logger
	historyLimit int64
}

// NewChatService creates a new ChatService.
func NewChatService(cfg *config.Config, repo IMessageRepository, fanout IFanoutBus, logger zerolog.Logger) *ChatService {
	return &ChatService{
		repo:         repo,
		bus:          fanout,
		logger:       logger.With().Str("component", "chat_service").Logger(),
		historyLimit: cfg.HistoryLimit,
	}
}

// History returns the most recent messages of a room, newest first, with
// reply references resolved.
func (s *ChatService) History(ctx context.Context, room string) ([]domain.ResolvedMessage, error) {
	if room == "" {
		return nil, fmt.Errorf("%w: room is required", domain.ErrValidation)
	}
	return s.repo.FindRecent(ctx, room, s.historyLimit)
}

// Send validates, persists and fans out a new message, and returns the
// persisted message in its client-facing shape.
func (s *ChatService) Send(ctx context.Context, author, room, body string, replyTo *domain.ReplyTarget) (*domain.ResolvedMessage, error) {
	if room == "" {
		return nil, fmt.Errorf("%w: room is required", domain.ErrValidation)
	}
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: message body is empty", domain.ErrValidation)
	}

	// A reply target that cannot be resolved to an existing message in
	// the same room is treated as no reply at all.
	var replyID *primitive.ObjectID
	var replied *domain.Message
	if replyTo != nil && replyTo.ID != "" {
		if id, err := primitive.ObjectIDFromHex(replyTo.ID); err == nil {
			ref, err := s.repo.FindByID(ctx, id)
			switch {
			case err == nil && ref.Room == room:
				replyID = &ref.ID
				replied = ref
			case err == nil:
			case errors.Is(err, domain.ErrNotFound):
			default:
				return nil, err
			}
		}
	}

	msg, err := s.repo.Create(ctx, &domain.Message{
		Room:    room,
		Author:  author,
		Body:    body,
		ReplyTo: replyID,
	})
	if err != nil {
		return nil, err
	}
	metrics.MessagesSent.Inc()

	resolved := msg.Resolved()
	if replied != nil {
		resolved.ReplyTo = &domain.ReplyRef{ID: replied.ID, Author: replied.Author, Body: replied.Body}
	}

	s.publish(ctx, room, domain.Event{Type: domain.EventReceiveMessage, Payload: resolved})
	return &resolved, nil
}

// Edit replaces a message's body in place, preserving its id, room and
// reply reference, and republishes the updated message to its room.
func (s *ChatService) Edit(ctx context.Context, messageID, newBody string) (*domain.ResolvedMessage, error) {
	if strings.TrimSpace(newBody) == "" {
		return nil, fmt.Errorf("%w: message body is empty", domain.ErrValidation)
	}
	id, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	msg, err := s.repo.UpdateBody(ctx, id, newBody)
	if err != nil {
		return nil, err
	}
	metrics.MessagesEdited.Inc()

	resolved := msg.Resolved()
	ref, err := s.resolveReply(ctx, msg.ReplyTo)
	if err != nil {
		return nil, err
	}
	resolved.ReplyTo = ref

	s.publish(ctx, msg.Room, domain.Event{Type: domain.EventReceiveMessage, Payload: resolved})
	return &resolved, nil
}

// Delete physically removes a message and publishes a deletion notice to
// its room. Messages replying to the deleted one keep their reference;
// it resolves to an unavailable marker on later reads.
func (s *ChatService) Delete(ctx context.Context, messageID string) (*domain.Message, error) {
	id, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	msg, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	metrics.MessagesDeleted.Inc()

	s.publish(ctx, msg.Room, domain.Event{Type: domain.EventMessageDeleted, Payload: msg.ID.Hex()})
	return msg, nil
}

// BroadcastPresence recomputes a room's cluster-wide member set and
// publishes the complete list to the room. Full lists, not diffs: a lost
// update is corrected by the next one without reconciliation logic.
func (s *ChatService) BroadcastPresence(ctx context.Context, room string) {
	members, err := s.bus.QueryMembers(ctx, room)
	if err != nil {
		s.logger.Warn().Err(err).Str("room", room).Msg("presence query failed")
		return
	}
	s.publish(ctx, room, domain.Event{Type: domain.EventUpdateUsers, Payload: members})
}

// resolveReply expands a reply reference, mapping a vanished referent to
// an unavailable marker.
func (s *ChatService) resolveReply(ctx context.Context, id *primitive.ObjectID) (*domain.ReplyRef, error) {
	if id == nil {
		return nil, nil
	}
	ref, err := s.repo.FindByID(ctx, *id)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.ReplyRef{ID: *id, Unavailable: true}, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.ReplyRef{ID: ref.ID, Author: ref.Author, Body: ref.Body}, nil
}

// publish fans an event out to the room. Failures are logged, never
// propagated: the write that preceded them is already durable, and a
// rejoining client recovers current state from the store.
func (s *ChatService) publish(ctx context.Context, room string, event domain.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Error().Err(err).Str("type", event.Type).Msg("event marshal failed")
		return
	}
	if err := s.bus.Publish(ctx, room, data); err != nil {
		s.logger.Warn().Err(err).Str("room", room).Str("type", event.Type).Msg("fanout degraded")
		return
	}
	metrics.FanoutPublished.WithLabelValues(event.Type).Inc()
}
