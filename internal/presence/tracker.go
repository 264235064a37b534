package presence

import (
	"sort"
	"sync"
)

// Tracker is the authoritative, instance-local view of which connections
// on this instance are in which room. A connection holds at most one
// room; joining another room replaces the previous membership. The map
// is never shared across instances — cluster-wide views are computed by
// fan-out query over the bus.
type Tracker struct {
	mu    sync.RWMutex
	rooms map[string]string // connection id -> room
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{rooms: make(map[string]string)}
}

// Join records connID as a member of room, replacing any previous
// membership, and returns the room the connection was in before ("" if
// none).
func (t *Tracker) Join(connID, room string) (prev string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	prev = t.rooms[connID]
	t.rooms[connID] = room
	return prev
}

// Leave removes connID's membership and returns the room it was in (""
// if none).
func (t *Tracker) Leave(connID string) (room string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	room = t.rooms[connID]
	delete(t.rooms, connID)
	return room
}

// Room returns the room connID is currently in, or "".
func (t *Tracker) Room(connID string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rooms[connID]
}

// LocalMembers returns the ids of this instance's connections currently
// in room, sorted for stable output.
func (t *Tracker) LocalMembers(room string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var members []string
	for id, r := range t.rooms {
		if r == room {
			members = append(members, id)
		}
	}
	sort.Strings(members)
	return members
}
