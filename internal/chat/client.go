package chat

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Время ожидания записи
	writeWait = 10 * time.Second

	// Время ожидания pong от клиента
	pongWait = 60 * time.Second

	// Интервал отправки ping
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер события
	maxEventSize = 512 * 1024 // 512KB
)

// EventHandler обрабатывает события комнаты: отправку, правку,
// удаление и индикатор набора текста
type EventHandler interface {
	HandleEvent(client *Client, ev *Event) error
}

// Client это серверная сторона одного соединения: от подключения до
// разрыва. Состояния: подключен без комнаты -> в комнате -> закрыт.
type Client struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Conn   *websocket.Conn
	Send   chan []byte
	Hub    *Hub

	mu       sync.RWMutex
	room     string
	username string
	avatar   string
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID) *Client {
	return &Client{
		ID:     uuid.New(),
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		Hub:    hub,
	}
}

// Room возвращает текущую комнату; пустая строка — комната не выбрана
func (c *Client) Room() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.room
}

// Username возвращает имя, заявленное при входе в комнату
func (c *Client) Username() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.username
}

// Avatar возвращает аватар, заявленный при входе в комнату
func (c *Client) Avatar() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.avatar
}

func (c *Client) setSession(room, username, avatar string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.room = room
	c.username = username
	c.avatar = avatar
}

// ReadPump читает события от клиента. join_room обрабатывается здесь,
// остальные события уходят в handler. Любой выход из цикла — сетевой
// сбой или штатное закрытие — заканчивается одной и той же очисткой.
func (c *Client) ReadPump(handler EventHandler) {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxEventSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var ev Event
		err := c.Conn.ReadJSON(&ev)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket error: %v", err)
			}
			break
		}

		if ev.Name == EventJoinRoom {
			var payload JoinRoomPayload
			if err := json.Unmarshal(ev.Data, &payload); err != nil || payload.Room == "" {
				log.Printf("invalid join_room payload from %s", c.ID)
				continue
			}
			c.Hub.JoinRoom(c, payload.Room, payload.Username, payload.ProfilePic)
			continue
		}

		// События комнаты до входа в комнату молча игнорируются
		if c.Room() == "" {
			log.Printf("event %q from %s rejected: %v", ev.Name, c.ID, ErrNotInRoom)
			continue
		}

		if handler != nil {
			if err := handler.HandleEvent(c, &ev); err != nil {
				log.Printf("error handling %q: %v", ev.Name, err)
			}
		}
	}
}

// WritePump отправляет события клиенту и держит соединение живым
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub закрыл канал
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendEvent кладет событие в очередь этого соединения
func (c *Client) SendEvent(name string, payload interface{}) error {
	data, err := encodeEvent(name, payload)
	if err != nil {
		return err
	}

	select {
	case c.Send <- data:
		return nil
	default:
		return ErrClientQueueFull
	}
}
