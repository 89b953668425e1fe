package chat

import (
	"encoding/json"
)

// Имена событий клиент -> сервер
const (
	EventJoinRoom      = "join_room"
	EventSendMessage   = "send_message"
	EventEditMessage   = "edit_message"
	EventDeleteMessage = "delete_message"
	EventTyping        = "typing"
	EventStopTyping    = "stop_typing"
)

// Имена событий сервер -> клиент
const (
	EventReceiveMessage       = "receive_message"
	EventReceiveEditMessage   = "receive_edit_message"
	EventReceiveDeleteMessage = "receive_delete_message"
	EventActiveUsers          = "active_users"
	EventDisplayTyping        = "display_typing"
)

// Event это конверт протокола: имя события плюс произвольный payload
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data"`
}

// JoinRoomPayload переключает соединение в комнату
type JoinRoomPayload struct {
	Username   string `json:"username"`
	Room       string `json:"room"`
	ProfilePic string `json:"profilePic"`
}

// MessagePayload это сообщение на проводе: id генерирует клиент,
// time уже отформатировано для показа
type MessagePayload struct {
	ID        string `json:"id"`
	Room      string `json:"room"`
	Author    string `json:"author"`
	AuthorPic string `json:"authorPic"`
	Kind      string `json:"type"`
	Body      string `json:"message"`
	SentAt    string `json:"time"`
}

type EditMessagePayload struct {
	ID      string `json:"id"`
	Room    string `json:"room"`
	NewText string `json:"newText"`
}

// EditBroadcast уходит всем в комнате после правки
type EditBroadcast struct {
	ID      string `json:"id"`
	NewText string `json:"newText"`
}

type DeleteMessagePayload struct {
	ID      string `json:"id"`
	Room    string `json:"room"`
	Kind    string `json:"type"`
	FileURL string `json:"fileUrl"`
}

type TypingPayload struct {
	Room string `json:"room"`
	Body string `json:"message"`
}

// TypingIndicator рассылается остальным в комнате; пустой текст
// означает "убрать индикатор"
type TypingIndicator struct {
	Body string `json:"message"`
}

// encodeEvent упаковывает payload в конверт протокола
func encodeEvent(name string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Event{Name: name, Data: data})
}
