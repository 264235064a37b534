package bus

import (
	"context"
	"reflect"
	"testing"
	"time"
)

func noMembers(string) []string { return nil }

func recvEvent(t *testing.T, n *LocalNode) Event {
	t.Helper()
	select {
	case ev := <-n.Events():
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for bus event")
		return Event{}
	}
}

func TestPublishReachesAllNodes(t *testing.T) {
	b := NewLocalBus()
	a := b.Attach(noMembers)
	c := b.Attach(noMembers)

	if err := a.Publish(context.Background(), "general", []byte(`one`)); err != nil {
		t.Fatal(err)
	}

	for _, node := range []*LocalNode{a, c} {
		ev := recvEvent(t, node)
		if ev.Room != "general" || string(ev.Data) != "one" {
			t.Fatalf("unexpected event %q in room %q", ev.Data, ev.Room)
		}
	}
}

func TestPublishOrderPreservedPerRoom(t *testing.T) {
	b := NewLocalBus()
	a := b.Attach(noMembers)
	c := b.Attach(noMembers)

	payloads := []string{"m1", "m2", "m3"}
	for _, p := range payloads {
		if err := a.Publish(context.Background(), "general", []byte(p)); err != nil {
			t.Fatal(err)
		}
	}

	for i, want := range payloads {
		if got := string(recvEvent(t, c).Data); got != want {
			t.Fatalf("event %d: expected %q, got %q", i, want, got)
		}
	}
}

func TestQueryMembersUnion(t *testing.T) {
	b := NewLocalBus()
	a := b.Attach(func(room string) []string {
		if room == "general" {
			return []string{"c2", "c1"}
		}
		return nil
	})
	b.Attach(func(room string) []string {
		if room == "general" {
			return []string{"c3", "c1"}
		}
		return nil
	})

	members, err := a.QueryMembers(context.Background(), "general")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"c1", "c2", "c3"}
	if !reflect.DeepEqual(members, want) {
		t.Fatalf("expected %v, got %v", want, members)
	}

	empty, err := a.QueryMembers(context.Background(), "random")
	if err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no members, got %v", empty)
	}
}

func TestCloseDetachesNode(t *testing.T) {
	b := NewLocalBus()
	a := b.Attach(noMembers)
	c := b.Attach(noMembers)

	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if err := a.Publish(context.Background(), "general", []byte(`after`)); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-c.Events():
		t.Fatalf("closed node received event %q", ev.Data)
	default:
	}
	recvEvent(t, a)
}
