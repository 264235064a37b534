package bus

import (
	"context"
	"sort"
	"sync"
)

// LocalBus is an in-process fanout substrate. It backs single-instance
// deployments (no redis configured) and tests, where each attached node
// plays the role of one server instance.
type LocalBus struct {
	mu    sync.RWMutex
	nodes []*LocalNode
}

// NewLocalBus creates an empty in-process bus.
func NewLocalBus() *LocalBus {
	return &LocalBus{}
}

// Attach registers one instance on the bus and returns its node.
func (b *LocalBus) Attach(localMembers MembersFunc) *LocalNode {
	n := &LocalNode{
		bus:          b,
		localMembers: localMembers,
		events:       make(chan Event, 64),
	}
	b.mu.Lock()
	b.nodes = append(b.nodes, n)
	b.mu.Unlock()
	return n
}

// LocalNode is one instance's view of a LocalBus.
type LocalNode struct {
	bus          *LocalBus
	localMembers MembersFunc
	events       chan Event
}

// Publish mirrors the event to every attached node, the publisher
// included. Nodes whose event buffer is full are skipped rather than
// blocking unrelated traffic.
func (n *LocalNode) Publish(ctx context.Context, room string, data []byte) error {
	n.bus.mu.RLock()
	nodes := make([]*LocalNode, len(n.bus.nodes))
	copy(nodes, n.bus.nodes)
	n.bus.mu.RUnlock()

	for _, node := range nodes {
		select {
		case node.events <- Event{Room: room, Data: data}:
		default:
		}
	}
	return nil
}

// Events yields room events in publish order.
func (n *LocalNode) Events() <-chan Event {
	return n.events
}

// QueryMembers returns the union of every attached node's local members.
func (n *LocalNode) QueryMembers(ctx context.Context, room string) ([]string, error) {
	n.bus.mu.RLock()
	nodes := make([]*LocalNode, len(n.bus.nodes))
	copy(nodes, n.bus.nodes)
	n.bus.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, node := range nodes {
		for _, id := range node.localMembers(room) {
			seen[id] = struct{}{}
		}
	}

	members := make([]string, 0, len(seen))
	for id := range seen {
		members = append(members, id)
	}
	sort.Strings(members)
	return members, nil
}

// Ping always succeeds; the bus lives in process memory.
func (n *LocalNode) Ping(ctx context.Context) error {
	return nil
}

// Close detaches the node from the bus.
func (n *LocalNode) Close() error {
	n.bus.mu.Lock()
	defer n.bus.mu.Unlock()
	for i, node := range n.bus.nodes {
		if node == n {
			n.bus.nodes = append(n.bus.nodes[:i], n.bus.nodes[i+1:]...)
			break
		}
	}
	return nil
}
