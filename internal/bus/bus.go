// Package bus implements the cross-instance room fanout layer: every
// room-scoped event published by any instance is mirrored to all
// instances, which then deliver to their locally attached clients.
package bus

// Event is one room-scoped fanout delivery. Data is the JSON-encoded
// protocol event, passed through opaquely so every instance forwards the
// exact bytes the publisher produced.
type Event struct {
	Room string
	Data []byte
}

// MembersFunc reports the connection ids this instance currently has in
// a room. The bus uses it to answer cluster-wide presence queries.
type MembersFunc func(room string) []string
