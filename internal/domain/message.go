package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a chat message as stored in MongoDB. The bson field names
// are the wire names the clients already speak, so a document round-trips
// unchanged.
type Message struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	Room      string              `bson:"room"`
	Author    string              `bson:"user"`
	Body      string              `bson:"message"`
	ReplyTo   *primitive.ObjectID `bson:"replyTo,omitempty"`
	CreatedAt time.Time           `bson:"createdAt"`
}

// ResolvedMessage is the client-facing shape of a Message, with the
// replyTo reference expanded to the referenced message's content.
type ResolvedMessage struct {
	ID        primitive.ObjectID `json:"_id"`
	Room      string             `json:"room"`
	Author    string             `json:"user"`
	Body      string             `json:"message"`
	ReplyTo   *ReplyRef          `json:"replyTo"`
	CreatedAt time.Time          `json:"createdAt"`
}

// ReplyRef is an expanded reply target. Unavailable is set when the
// referenced message no longer exists; the id is still reported so
// clients can render a tombstone instead of crashing on a dangling
// reference.
type ReplyRef struct {
	ID          primitive.ObjectID `json:"_id"`
	Author      string             `json:"user,omitempty"`
	Body        string             `json:"message,omitempty"`
	Unavailable bool               `json:"unavailable,omitempty"`
}

// Resolved converts a stored message to its client-facing shape without
// expanding the reply target. Callers that know the referenced message
// fill in ReplyTo themselves.
func (m *Message) Resolved() ResolvedMessage {
	return ResolvedMessage{
		ID:        m.ID,
		Room:      m.Room,
		Author:    m.Author,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
	}
}
