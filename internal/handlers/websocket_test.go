package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/thereayou/echochat/internal/chat"
	"github.com/thereayou/echochat/internal/middleware"
)

const wsReadTimeout = 2 * time.Second

func newWSTestServer(t *testing.T) (*httptest.Server, *fixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := newFixture()
	wsH := NewWebSocketHandler(f.hub, f.handler)

	r := gin.New()
	// Аутентификация здесь не участвует: кладем userID напрямую
	r.GET("/ws", func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uuid.New())
		wsH.HandleWebSocket(c)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	t.Cleanup(f.hub.Stop)
	return srv, f
}

func wsDial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func wsSend(t *testing.T, conn *websocket.Conn, name string, payload interface{}) {
	t.Helper()

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(chat.Event{Name: name, Data: data}); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func wsRead(t *testing.T, conn *websocket.Conn) chat.Event {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	var ev chat.Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read: %v", err)
	}
	return ev
}

func decodePresence(t *testing.T, ev chat.Event) []chat.PresenceEntry {
	t.Helper()

	if ev.Name != chat.EventActiveUsers {
		t.Fatalf("event = %q, want %q", ev.Name, chat.EventActiveUsers)
	}
	var entries []chat.PresenceEntry
	if err := json.Unmarshal(ev.Data, &entries); err != nil {
		t.Fatal(err)
	}
	return entries
}

func TestWebSocketSessionLifecycle(t *testing.T) {
	srv, f := newWSTestServer(t)

	alice := wsDial(t, srv)

	// Сразу после апгрейда приходит текущий список присутствия
	if entries := decodePresence(t, wsRead(t, alice)); len(entries) != 0 {
		t.Fatalf("initial snapshot = %+v", entries)
	}

	wsSend(t, alice, chat.EventJoinRoom, chat.JoinRoomPayload{Username: "alice", Room: "general"})
	entries := decodePresence(t, wsRead(t, alice))
	if len(entries) != 1 || entries[0].Username != "alice" || entries[0].Room != "general" {
		t.Fatalf("snapshot after join = %+v", entries)
	}

	bob := wsDial(t, srv)
	if entries := decodePresence(t, wsRead(t, bob)); len(entries) != 1 || entries[0].Username != "alice" {
		t.Fatalf("connect snapshot = %+v", entries)
	}

	// Событие комнаты до join_room отбрасывается: ни записи, ни рассылки
	wsSend(t, bob, chat.EventSendMessage, chat.MessagePayload{ID: "m0", Room: "general", Author: "bob", Body: "early"})
	wsSend(t, bob, chat.EventJoinRoom, chat.JoinRoomPayload{Username: "bob", Room: "general"})

	// Кадры одного соединения обрабатываются по порядку: прошел бы
	// "m0" — alice получила бы receive_message раньше этого снапшота
	ev := wsRead(t, alice)
	if ev.Name != chat.EventActiveUsers {
		t.Fatalf("after pre-join send got %q, want %q", ev.Name, chat.EventActiveUsers)
	}
	if entries := decodePresence(t, ev); len(entries) != 2 {
		t.Fatalf("snapshot after bob join = %+v", entries)
	}
	if ids := f.store.savedIDs(); len(ids) != 0 {
		t.Fatalf("pre-join message persisted: %v", ids)
	}
	if entries := decodePresence(t, wsRead(t, bob)); len(entries) != 2 {
		t.Fatalf("bob snapshot after join = %+v", entries)
	}

	// Обычная отправка: эхо отправителю и доставка соседу
	wsSend(t, bob, chat.EventSendMessage, chat.MessagePayload{
		ID:     "m1",
		Room:   "general",
		Author: "bob",
		Body:   "hi",
		SentAt: "10:42",
	})

	for _, conn := range []*websocket.Conn{alice, bob} {
		got := wsRead(t, conn)
		if got.Name != chat.EventReceiveMessage {
			t.Fatalf("event = %q, want %q", got.Name, chat.EventReceiveMessage)
		}
		var payload chat.MessagePayload
		if err := json.Unmarshal(got.Data, &payload); err != nil {
			t.Fatal(err)
		}
		if payload.ID != "m1" || payload.Body != "hi" {
			t.Fatalf("payload = %+v", payload)
		}
	}
	if ids := f.store.savedIDs(); len(ids) != 1 || ids[0] != "m1" {
		t.Fatalf("saved ids = %v", ids)
	}

	// Обрыв без прощаний проходит тот же путь очистки, что и
	// штатное закрытие: присутствие, затем гашение индикатора
	bob.Close()

	entries = decodePresence(t, wsRead(t, alice))
	for _, e := range entries {
		if e.Username == "bob" {
			t.Fatal("departed user still present in snapshot")
		}
	}

	ev = wsRead(t, alice)
	if ev.Name != chat.EventDisplayTyping {
		t.Fatalf("event = %q, want %q", ev.Name, chat.EventDisplayTyping)
	}
	var indicator chat.TypingIndicator
	if err := json.Unmarshal(ev.Data, &indicator); err != nil {
		t.Fatal(err)
	}
	if indicator.Body != "" {
		t.Fatalf("disconnect indicator carries text %q", indicator.Body)
	}
}
