package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/AmityTek/chat-node-next/internal/domain"
	"github.com/AmityTek/chat-node-next/internal/metrics"
)

const (
	roomChannelPrefix    = "room."
	presenceQueryChannel = "presence.query"
	presenceReplyPrefix  = "presence.reply."

	// How long a presence aggregation waits for instance replies.
	// Instances that miss the window are simply absent from the result.
	presenceReplyWindow = 250 * time.Millisecond
)

// presenceQuery is the broadcast request for a room's local members.
// Each instance answers on the query's private reply channel.
type presenceQuery struct {
	Room  string `json:"room"`
	Reply string `json:"reply"`
}

// RedisBus mirrors room events across instances over redis pub/sub. Each
// room maps to its own logical channel, so one room's traffic never
// serializes another's; redis preserves publish order per channel.
type RedisBus struct {
	client       *redis.Client
	localMembers MembersFunc
	events       chan Event
	logger       zerolog.Logger
	roomSub      *redis.PubSub
	querySub     *redis.PubSub
}

// NewRedisBus connects to redis and starts the room and presence-query
// subscriptions.
func NewRedisBus(ctx context.Context, redisURL string, localMembers MembersFunc, logger zerolog.Logger) (*RedisBus, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	b := &RedisBus{
		client:       client,
		localMembers: localMembers,
		events:       make(chan Event, 256),
		logger:       logger.With().Str("component", "redis_bus").Logger(),
	}

	b.roomSub = client.PSubscribe(ctx, roomChannelPrefix+"*")
	b.querySub = client.Subscribe(ctx, presenceQueryChannel)

	go b.receiveRooms()
	go b.answerQueries(ctx)

	return b, nil
}

// Publish sends a room event to every instance, including this one.
func (b *RedisBus) Publish(ctx context.Context, room string, data []byte) error {
	if err := b.client.Publish(ctx, roomChannelPrefix+room, data).Err(); err != nil {
		return fmt.Errorf("publish to %q: %w: %v", room, domain.ErrBusUnavailable, err)
	}
	return nil
}

// Events yields room events in per-room publish order.
func (b *RedisBus) Events() <-chan Event {
	return b.events
}

// QueryMembers computes the cluster-wide member set of a room: it
// broadcasts a query, collects each instance's local members for a short
// window, and returns the union. This instance's members are merged in
// directly, so a lone instance never waits on its own reply.
func (b *RedisBus) QueryMembers(ctx context.Context, room string) ([]string, error) {
	metrics.PresenceQueries.Inc()

	replyChannel := presenceReplyPrefix + uuid.NewString()
	sub := b.client.Subscribe(ctx, replyChannel)
	defer sub.Close()

	// Confirm the subscription before publishing so no reply is missed.
	if _, err := sub.Receive(ctx); err != nil {
		return nil, fmt.Errorf("presence query: %w: %v", domain.ErrBusUnavailable, err)
	}

	query, err := json.Marshal(presenceQuery{Room: room, Reply: replyChannel})
	if err != nil {
		return nil, err
	}
	if err := b.client.Publish(ctx, presenceQueryChannel, query).Err(); err != nil {
		return nil, fmt.Errorf("presence query: %w: %v", domain.ErrBusUnavailable, err)
	}

	seen := make(map[string]struct{})
	for _, id := range b.localMembers(room) {
		seen[id] = struct{}{}
	}

	window := time.NewTimer(presenceReplyWindow)
	defer window.Stop()
	replies := sub.Channel()

collect:
	for {
		select {
		case msg, ok := <-replies:
			if !ok {
				break collect
			}
			var ids []string
			if err := json.Unmarshal([]byte(msg.Payload), &ids); err != nil {
				b.logger.Warn().Err(err).Msg("malformed presence reply")
				continue
			}
			for _, id := range ids {
				seen[id] = struct{}{}
			}
		case <-window.C:
			break collect
		case <-ctx.Done():
			break collect
		}
	}

	members := make([]string, 0, len(seen))
	for id := range seen {
		members = append(members, id)
	}
	sort.Strings(members)
	return members, nil
}

// Ping checks the redis connection.
func (b *RedisBus) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Close shuts down the subscriptions and the client.
func (b *RedisBus) Close() error {
	b.roomSub.Close()
	b.querySub.Close()
	return b.client.Close()
}

func (b *RedisBus) receiveRooms() {
	for msg := range b.roomSub.Channel() {
		room := strings.TrimPrefix(msg.Channel, roomChannelPrefix)
		b.events <- Event{Room: room, Data: []byte(msg.Payload)}
	}
}

func (b *RedisBus) answerQueries(ctx context.Context) {
	for msg := range b.querySub.Channel() {
		var query presenceQuery
		if err := json.Unmarshal([]byte(msg.Payload), &query); err != nil {
			b.logger.Warn().Err(err).Msg("malformed presence query")
			continue
		}

		members := b.localMembers(query.Room)
		reply, err := json.Marshal(members)
		if err != nil {
			continue
		}
		if err := b.client.Publish(ctx, query.Reply, reply).Err(); err != nil {
			b.logger.Warn().Err(err).Str("room", query.Room).Msg("presence reply failed")
		}
	}
}
