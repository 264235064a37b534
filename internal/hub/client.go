package hub

import (
	"encoding/json"

	"github.com/gorilla/websocket"

	"github.com/AmityTek/chat-node-next/internal/domain"
)

// Client is the mediator between one WebSocket connection and the Hub.
// Its id is the connection's only identity; it lives exactly as long as
// the transport session.
type Client struct {
	ID   string
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte
	done chan struct{}
}

// readPump reads events from the WebSocket and handles them in arrival
// order. It exits on any read error, which covers both voluntary
// disconnects and transport failures.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		var event domain.Event
		if err := c.Conn.ReadJSON(&event); err != nil {
			c.Hub.logger.Debug().Err(err).Str("conn", c.ID).Msg("read loop closed")
			break
		}
		c.Hub.dispatch(c, &event)
	}
}

// writePump forwards the Send channel to the WebSocket until the hub
// drops the client.
func (c *Client) writePump() {
	defer c.Conn.Close()

	for {
		select {
		case message := <-c.Send:
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.Hub.logger.Debug().Err(err).Str("conn", c.ID).Msg("write loop closed")
				return
			}
		case <-c.done:
			return
		}
	}
}

// sendEvent delivers an event to this connection only. Never blocks: a
// full buffer means a client that stopped reading, and it re-syncs on
// reconnect anyway.
func (c *Client) sendEvent(event domain.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	select {
	case c.Send <- data:
	case <-c.done:
	default:
		c.Hub.logger.Warn().Str("conn", c.ID).Msg("dropping direct event, send buffer full")
	}
}

// sendError acknowledges a failed operation to the connection that
// issued it. Nothing is broadcast.
func (c *Client) sendError(op string, err error) {
	c.sendEvent(domain.Event{
		Type:    domain.EventError,
		Payload: domain.ErrorPayload{Op: op, Reason: err.Error()},
	})
}
