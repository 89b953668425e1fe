package chat

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func newTestClient(t *testing.T, h *Hub) *Client {
	t.Helper()
	c := NewClient(h, nil, uuid.New())
	h.Register(c)
	return c
}

func drain(c *Client) {
	for {
		select {
		case <-c.Send:
		default:
			return
		}
	}
}

func recvEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case data, ok := <-c.Send:
		if !ok {
			t.Fatal("send channel closed")
		}
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("bad event frame: %v", err)
		}
		return ev
	default:
		t.Fatal("no event queued")
	}
	return Event{}
}

func expectNoEvent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.Send:
		t.Fatalf("unexpected event: %s", data)
	default:
	}
}

func TestJoinRoomEnforcesSingleMembership(t *testing.T) {
	h := NewHub()
	c := newTestClient(t, h)

	h.JoinRoom(c, "general", "alice", "")
	h.JoinRoom(c, "random", "alice", "")
	drain(c)

	if got := c.Room(); got != "random" {
		t.Fatalf("room = %q, want %q", got, "random")
	}
	if members := h.RoomMembers("general"); len(members) != 0 {
		t.Fatalf("still subscribed to previous room: %v", members)
	}

	h.Broadcast("general", EventReceiveMessage, "stale")
	expectNoEvent(t, c)

	h.Broadcast("random", EventReceiveMessage, "fresh")
	ev := recvEvent(t, c)
	if ev.Name != EventReceiveMessage {
		t.Fatalf("event = %q, want %q", ev.Name, EventReceiveMessage)
	}
}

func TestBroadcastReachesWholeRoomIncludingSender(t *testing.T) {
	h := NewHub()
	sender := newTestClient(t, h)
	peer := newTestClient(t, h)
	outsider := newTestClient(t, h)

	h.JoinRoom(sender, "general", "alice", "")
	h.JoinRoom(peer, "general", "bob", "")
	h.JoinRoom(outsider, "random", "carol", "")
	drain(sender)
	drain(peer)
	drain(outsider)

	h.Broadcast("general", EventReceiveMessage, MessagePayload{ID: "m1", Body: "hi"})

	for _, c := range []*Client{sender, peer} {
		ev := recvEvent(t, c)
		if ev.Name != EventReceiveMessage {
			t.Fatalf("event = %q, want %q", ev.Name, EventReceiveMessage)
		}
		var payload MessagePayload
		if err := json.Unmarshal(ev.Data, &payload); err != nil {
			t.Fatal(err)
		}
		if payload.ID != "m1" || payload.Body != "hi" {
			t.Fatalf("payload = %+v", payload)
		}
	}

	expectNoEvent(t, outsider)
}

func TestRelayExceptSkipsSender(t *testing.T) {
	h := NewHub()
	sender := newTestClient(t, h)
	peer := newTestClient(t, h)

	h.JoinRoom(sender, "general", "alice", "")
	h.JoinRoom(peer, "general", "bob", "")
	drain(sender)
	drain(peer)

	h.RelayExcept(sender.ID, "general", EventDisplayTyping, TypingIndicator{Body: "alice is typing..."})

	ev := recvEvent(t, peer)
	if ev.Name != EventDisplayTyping {
		t.Fatalf("event = %q, want %q", ev.Name, EventDisplayTyping)
	}
	expectNoEvent(t, sender)

	h.RelayExcept(sender.ID, "general", EventDisplayTyping, TypingIndicator{})
	ev = recvEvent(t, peer)
	var indicator TypingIndicator
	if err := json.Unmarshal(ev.Data, &indicator); err != nil {
		t.Fatal(err)
	}
	if indicator.Body != "" {
		t.Fatalf("clearing indicator carries text %q", indicator.Body)
	}
}

func TestBroadcastToUnknownRoomIsNoop(t *testing.T) {
	h := NewHub()
	c := newTestClient(t, h)
	h.JoinRoom(c, "general", "alice", "")
	drain(c)

	h.Broadcast("nowhere", EventReceiveMessage, "lost")
	expectNoEvent(t, c)
}

func TestJoinRoomBroadcastsPresenceGlobally(t *testing.T) {
	h := NewHub()
	joined := newTestClient(t, h)
	lurker := newTestClient(t, h) // подключен, комнату еще не выбрал

	h.JoinRoom(joined, "general", "alice", "pic.png")

	for _, c := range []*Client{joined, lurker} {
		ev := recvEvent(t, c)
		if ev.Name != EventActiveUsers {
			t.Fatalf("event = %q, want %q", ev.Name, EventActiveUsers)
		}
		var entries []PresenceEntry
		if err := json.Unmarshal(ev.Data, &entries); err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 || entries[0].Username != "alice" || entries[0].Room != "general" {
			t.Fatalf("entries = %+v", entries)
		}
	}
}

func TestUnregisterCleansUpPresenceAndTyping(t *testing.T) {
	h := NewHub()
	leaving := newTestClient(t, h)
	staying := newTestClient(t, h)

	h.JoinRoom(leaving, "general", "alice", "")
	h.JoinRoom(staying, "general", "bob", "")
	drain(leaving)
	drain(staying)

	h.Unregister(leaving)

	// Сначала обновленное присутствие, затем гашение индикатора
	ev := recvEvent(t, staying)
	if ev.Name != EventActiveUsers {
		t.Fatalf("event = %q, want %q", ev.Name, EventActiveUsers)
	}
	var entries []PresenceEntry
	if err := json.Unmarshal(ev.Data, &entries); err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Username == "alice" {
			t.Fatal("departed user still present in snapshot")
		}
	}

	ev = recvEvent(t, staying)
	if ev.Name != EventDisplayTyping {
		t.Fatalf("event = %q, want %q", ev.Name, EventDisplayTyping)
	}
	var indicator TypingIndicator
	if err := json.Unmarshal(ev.Data, &indicator); err != nil {
		t.Fatal(err)
	}
	if indicator.Body != "" {
		t.Fatalf("disconnect indicator carries text %q", indicator.Body)
	}

	// Повторный Unregister безвреден
	h.Unregister(leaving)
}

func TestRejoinSameUsernameKeepsSinglePresenceEntry(t *testing.T) {
	h := NewHub()
	c := newTestClient(t, h)

	h.JoinRoom(c, "general", "alice", "")
	h.JoinRoom(c, "general", "alice", "")

	snapshot := h.Presence().Snapshot()
	if len(snapshot) != 1 {
		t.Fatalf("expected single presence entry, got %d", len(snapshot))
	}
}
