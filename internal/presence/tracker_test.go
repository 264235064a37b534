package presence

import (
	"fmt"
	"reflect"
	"sync"
	"testing"
)

func TestJoinReplacesPreviousRoom(t *testing.T) {
	tr := NewTracker()

	if prev := tr.Join("c1", "general"); prev != "" {
		t.Fatalf("expected no previous room, got %q", prev)
	}
	if prev := tr.Join("c1", "random"); prev != "general" {
		t.Fatalf("expected previous room %q, got %q", "general", prev)
	}

	if got := tr.LocalMembers("general"); len(got) != 0 {
		t.Fatalf("expected old room empty, got %v", got)
	}
	if got := tr.LocalMembers("random"); !reflect.DeepEqual(got, []string{"c1"}) {
		t.Fatalf("expected [c1], got %v", got)
	}
}

func TestRejoinIsIdempotent(t *testing.T) {
	tr := NewTracker()

	tr.Join("c1", "general")
	if prev := tr.Join("c1", "general"); prev != "general" {
		t.Fatalf("expected previous room %q, got %q", "general", prev)
	}

	if got := tr.LocalMembers("general"); !reflect.DeepEqual(got, []string{"c1"}) {
		t.Fatalf("expected exactly one membership, got %v", got)
	}
}

func TestLeave(t *testing.T) {
	tr := NewTracker()

	tr.Join("c1", "general")
	if room := tr.Leave("c1"); room != "general" {
		t.Fatalf("expected room %q, got %q", "general", room)
	}
	if room := tr.Leave("c1"); room != "" {
		t.Fatalf("expected no room on second leave, got %q", room)
	}
	if got := tr.LocalMembers("general"); len(got) != 0 {
		t.Fatalf("expected empty room, got %v", got)
	}
}

func TestRoom(t *testing.T) {
	tr := NewTracker()

	if got := tr.Room("c1"); got != "" {
		t.Fatalf("expected empty room for unknown connection, got %q", got)
	}
	tr.Join("c1", "general")
	if got := tr.Room("c1"); got != "general" {
		t.Fatalf("expected %q, got %q", "general", got)
	}
}

func TestLocalMembersSorted(t *testing.T) {
	tr := NewTracker()

	tr.Join("c3", "general")
	tr.Join("c1", "general")
	tr.Join("c2", "general")
	tr.Join("other", "random")

	want := []string{"c1", "c2", "c3"}
	if got := tr.LocalMembers("general"); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestConcurrentJoinLeave(t *testing.T) {
	tr := NewTracker()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("c%d", n)
			tr.Join(id, "general")
			tr.LocalMembers("general")
			if n%2 == 0 {
				tr.Leave(id)
			}
		}(i)
	}
	wg.Wait()

	if got := len(tr.LocalMembers("general")); got != 25 {
		t.Fatalf("expected 25 remaining members, got %d", got)
	}
}
