package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/AmityTek/chat-node-next/internal/bus"
	"github.com/AmityTek/chat-node-next/internal/domain"
	"github.com/AmityTek/chat-node-next/internal/metrics"
	"github.com/AmityTek/chat-node-next/internal/service"
)

// Hub is the per-instance connection gateway. Its run loop owns the set
// of locally attached clients and delivers incoming fanout events to the
// ones joined to the event's room. Client requests are handled on each
// connection's read goroutine, so one connection's store I/O never
// blocks another's, while events from a single connection stay in the
// order the client issued them.
type Hub struct {
	logger   zerolog.Logger
	chat     *service.ChatService
	presence service.IPresenceTracker
	fanout   service.IFanoutBus

	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a new Hub.
func NewHub(chat *service.ChatService, presence service.IPresenceTracker, fanout service.IFanoutBus, logger zerolog.Logger) *Hub {
	return &Hub{
		logger:     logger.With().Str("component", "hub").Logger(),
		chat:       chat,
		presence:   presence,
		fanout:     fanout,
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes client registration and fanout delivery until the
// process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client.ID] = client
			metrics.ConnectionsActive.Inc()
		case client := <-h.unregister:
			h.dropClient(client)
		case event := <-h.fanout.Events():
			h.deliverLocal(event)
		}
	}
}

// ServeWs attaches a new websocket connection to the hub under a fresh
// connection id.
func (h *Hub) ServeWs(conn *websocket.Conn) {
	client := &Client{ID: uuid.NewString(), Hub: h, Conn: conn, Send: make(chan []byte, 256), done: make(chan struct{})}
	h.register <- client
	go client.writePump()
	go client.readPump()
	h.logger.Debug().Str("conn", client.ID).Msg("client connected")
}

// dropClient removes a client from the instance and broadcasts the
// shrunken member list to the room it was in.
func (h *Hub) dropClient(client *Client) {
	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	delete(h.clients, client.ID)
	// Send is never closed; writePump and sendEvent watch done instead,
	// so a handler mid-send cannot hit a closed channel.
	close(client.done)
	metrics.ConnectionsActive.Dec()

	if room := h.presence.Leave(client.ID); room != "" {
		go h.chat.BroadcastPresence(context.Background(), room)
	}
	h.logger.Debug().Str("conn", client.ID).Msg("client disconnected")
}

// deliverLocal forwards one fanout event to every local client joined to
// its room. A client whose send buffer is full is dropped; it re-syncs
// on reconnect from the store.
func (h *Hub) deliverLocal(event bus.Event) {
	for _, id := range h.presence.LocalMembers(event.Room) {
		client, ok := h.clients[id]
		if !ok {
			continue
		}
		select {
		case client.Send <- event.Data:
			metrics.FanoutDelivered.Inc()
		default:
			h.logger.Warn().Str("conn", id).Msg("send buffer full, dropping client")
			h.dropClient(client)
		}
	}
}

// dispatch handles one client event. It runs on the client's read
// goroutine: per-connection order is the transport order, and store or
// bus I/O here suspends only this connection.
func (h *Hub) dispatch(client *Client, event *domain.Event) {
	ctx := context.Background()

	switch event.Type {
	case domain.EventJoinRoom:
		h.handleJoinRoom(ctx, client, event)
	case domain.EventSendMessage:
		h.handleSendMessage(ctx, client, event)
	case domain.EventEditMessage:
		h.handleEditMessage(ctx, client, event)
	case domain.EventDeleteMessage:
		h.handleDeleteMessage(ctx, client, event)
	default:
		client.sendError(event.Type, fmt.Errorf("%w: unknown event type %q", domain.ErrValidation, event.Type))
	}
}

// handleJoinRoom records the membership (replacing any previous room),
// returns the room's recent history to the joining connection alone, and
// broadcasts the recomputed member list to the whole room.
func (h *Hub) handleJoinRoom(ctx context.Context, client *Client, event *domain.Event) {
	var room string
	if err := parsePayload(event.Payload, &room); err != nil || room == "" {
		client.sendError(event.Type, fmt.Errorf("%w: room is required", domain.ErrValidation))
		return
	}

	// Membership first, history second: a message arriving in between is
	// delivered twice rather than lost, which is the at-least-once
	// contract clients already dedupe by id.
	h.presence.Join(client.ID, room)

	history, err := h.chat.History(ctx, room)
	if err != nil {
		client.sendError(event.Type, err)
		return
	}
	client.sendEvent(domain.Event{Type: domain.EventLoadMessages, Payload: history})
	h.chat.BroadcastPresence(ctx, room)
}

func (h *Hub) handleSendMessage(ctx context.Context, client *Client, event *domain.Event) {
	var payload domain.SendMessagePayload
	if err := parsePayload(event.Payload, &payload); err != nil {
		client.sendError(event.Type, fmt.Errorf("%w: invalid payload", domain.ErrValidation))
		return
	}
	if _, err := h.chat.Send(ctx, client.ID, payload.Room, payload.Message, payload.ReplyTo); err != nil {
		client.sendError(event.Type, err)
	}
}

func (h *Hub) handleEditMessage(ctx context.Context, client *Client, event *domain.Event) {
	var payload domain.EditMessagePayload
	if err := parsePayload(event.Payload, &payload); err != nil {
		client.sendError(event.Type, fmt.Errorf("%w: invalid payload", domain.ErrValidation))
		return
	}
	if _, err := h.chat.Edit(ctx, payload.MessageID, payload.NewMessage); err != nil {
		client.sendError(event.Type, err)
	}
}

func (h *Hub) handleDeleteMessage(ctx context.Context, client *Client, event *domain.Event) {
	var payload domain.DeleteMessagePayload
	if err := parsePayload(event.Payload, &payload); err != nil {
		client.sendError(event.Type, fmt.Errorf("%w: invalid payload", domain.ErrValidation))
		return
	}
	if _, err := h.chat.Delete(ctx, payload.MessageID); err != nil {
		client.sendError(event.Type, err)
	}
}

// parsePayload re-marshals a decoded payload into its concrete type.
func parsePayload(payload interface{}, result interface{}) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return errors.New("failed to marshal payload")
	}
	return json.Unmarshal(payloadBytes, result)
}
