package domain

// Event is the standard framing for every message exchanged between a
// client and the server, in either direction.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Client -> server event types.
const (
	EventJoinRoom      = "joinRoom"
	EventSendMessage   = "sendMessage"
	EventEditMessage   = "editMessage"
	EventDeleteMessage = "deleteMessage"
)

// Server -> client event types.
const (
	EventLoadMessages   = "loadMessages"
	EventReceiveMessage = "receiveMessage"
	EventUpdateUsers    = "updateUsers"
	EventMessageDeleted = "messageDeleted"
	EventError          = "error"
)

// ReplyTarget carries the id of the message being replied to. Clients
// send the full message object they are replying to; only the id matters
// server-side.
type ReplyTarget struct {
	ID string `json:"_id"`
}

// SendMessagePayload is the payload of a sendMessage event.
type SendMessagePayload struct {
	Room    string       `json:"room"`
	Message string       `json:"message"`
	ReplyTo *ReplyTarget `json:"replyTo,omitempty"`
}

// EditMessagePayload is the payload of an editMessage event.
//
// Any connection may edit any message by id: identity is the transport
// session, so an author-equality check would lock every message the
// moment its sender reconnects.
type EditMessagePayload struct {
	MessageID  string `json:"messageId"`
	NewMessage string `json:"newMessage"`
}

// DeleteMessagePayload is the payload of a deleteMessage event.
type DeleteMessagePayload struct {
	MessageID string `json:"messageId"`
}

// ErrorPayload is the failure acknowledgement sent to the connection
// whose operation failed. Other connections never see it.
type ErrorPayload struct {
	Op     string `json:"op"`
	Reason string `json:"reason"`
}
