package chat

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// Hub маршрутизирует события по комнатам. Соединение состоит максимум
// в одной комнате; смена комнаты — это атомарное удаление плюс
// добавление, членство никогда не суммируется.
type Hub struct {
	clients  map[uuid.UUID]*Client
	rooms    map[string]map[uuid.UUID]*Client
	presence *Presence

	mu sync.RWMutex
}

// NewHub создает новый Hub
func NewHub() *Hub {
	return &Hub{
		clients:  make(map[uuid.UUID]*Client),
		rooms:    make(map[string]map[uuid.UUID]*Client),
		presence: NewPresence(),
	}
}

// Presence отдает реестр присутствия
func (h *Hub) Presence() *Presence {
	return h.presence
}

// Register регистрирует новое соединение. Комната на этом этапе
// еще не выбрана — клиент в состоянии "подключен, не вошел".
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()

	log.Printf("client connected: %s", client.ID)
}

// Unregister снимает соединение с учета: комната, присутствие,
// глобальная рассылка нового списка. Обрыв сети и явный выход
// проходят через один и тот же путь.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.ID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.ID)
	h.detachFromRoom(client)
	h.mu.Unlock()

	close(client.Send)

	room := client.Room()
	h.presence.Leave(client.ID)
	h.BroadcastAll(EventActiveUsers, h.presence.Snapshot())

	// Если соединение оборвалось посреди набора текста, клиенты
	// сами stop_typing уже не получат — гасим индикатор за них
	if room != "" {
		h.RelayExcept(client.ID, room, EventDisplayTyping, TypingIndicator{})
	}

	log.Printf("client disconnected: %s", client.ID)
}

// JoinRoom переводит соединение в комнату: выход из предыдущей,
// вход в новую, обновление присутствия и глобальная рассылка списка
func (h *Hub) JoinRoom(client *Client, room, username, avatar string) {
	h.mu.Lock()
	h.detachFromRoom(client)

	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[uuid.UUID]*Client)
	}
	h.rooms[room][client.ID] = client
	h.mu.Unlock()

	client.setSession(room, username, avatar)

	log.Printf("%s joined %s", username, room)

	h.presence.Join(client.ID, username, room, avatar)
	h.BroadcastAll(EventActiveUsers, h.presence.Snapshot())
}

// detachFromRoom убирает клиента из его текущей комнаты.
// Вызывается под h.mu.
func (h *Hub) detachFromRoom(client *Client) {
	room := client.Room()
	if room == "" {
		return
	}

	if members, ok := h.rooms[room]; ok {
		delete(members, client.ID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Broadcast доставляет событие всем в комнате, включая отправителя:
// его интерфейс обновляется тем же каналом, что и у остальных.
// Неизвестная комната — это комната без подписчиков, no-op.
func (h *Hub) Broadcast(room, event string, payload interface{}) {
	data, err := encodeEvent(event, payload)
	if err != nil {
		log.Printf("encode %s failed: %v", event, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.rooms[room] {
		h.push(client, data)
	}
}

// RelayExcept доставляет событие всем в комнате, кроме отправителя.
// Используется только для индикатора набора текста.
func (h *Hub) RelayExcept(senderID uuid.UUID, room, event string, payload interface{}) {
	data, err := encodeEvent(event, payload)
	if err != nil {
		log.Printf("encode %s failed: %v", event, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.rooms[room] {
		if client.ID != senderID {
			h.push(client, data)
		}
	}
}

// BroadcastAll доставляет событие каждому соединению независимо от
// комнаты; присутствие глобально
func (h *Hub) BroadcastAll(event string, payload interface{}) {
	data, err := encodeEvent(event, payload)
	if err != nil {
		log.Printf("encode %s failed: %v", event, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		h.push(client, data)
	}
}

// RoomMembers возвращает идентификаторы соединений в комнате
func (h *Hub) RoomMembers(room string) []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members := make([]uuid.UUID, 0, len(h.rooms[room]))
	for id := range h.rooms[room] {
		members = append(members, id)
	}
	return members
}

// Stop закрывает все соединения
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, client := range h.clients {
		delete(h.clients, id)
		close(client.Send)
		if client.Conn != nil {
			client.Conn.Close()
		}
	}
	h.rooms = make(map[string]map[uuid.UUID]*Client)
}

func (h *Hub) push(client *Client, data []byte) {
	select {
	case client.Send <- data:
	default:
		log.Printf("client %s send channel full, dropping event", client.ID)
	}
}
