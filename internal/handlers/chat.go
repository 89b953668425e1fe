package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/thereayou/echochat/internal/chat"
	"github.com/thereayou/echochat/internal/database"
	"github.com/thereayou/echochat/internal/models"
)

// MessageStore это часть хранилища, нужная real-time событиям
type MessageStore interface {
	SaveMessage(message *models.Message) error
	UpdateMessageBody(id, body string) error
	DeleteMessage(id string) (*models.Message, error)
}

// AssetRemover чистит загруженный файл по его публичному URL
type AssetRemover interface {
	Remove(fileURL string) error
}

// ChatHandler обрабатывает события комнат. Любой сбой хранилища
// гасится на этой границе: событие просто не рассылается, соединение
// живет дальше, отдельного события об ошибке в протоколе нет.
type ChatHandler struct {
	store  MessageStore
	assets AssetRemover
	hub    *chat.Hub
}

func NewChatHandler(store MessageStore, assets AssetRemover, hub *chat.Hub) *ChatHandler {
	return &ChatHandler{
		store:  store,
		assets: assets,
		hub:    hub,
	}
}

func (h *ChatHandler) HandleEvent(client *chat.Client, ev *chat.Event) error {
	switch ev.Name {
	case chat.EventSendMessage:
		return h.handleSendMessage(ev)

	case chat.EventEditMessage:
		return h.handleEditMessage(ev)

	case chat.EventDeleteMessage:
		return h.handleDeleteMessage(ev)

	case chat.EventTyping:
		return h.handleTyping(client, ev)

	case chat.EventStopTyping:
		return h.handleStopTyping(client, ev)

	default:
		log.Printf("unknown event: %s", ev.Name)
		return nil
	}
}

// handleSendMessage сохраняет сообщение и рассылает его комнате.
// Рассылка идет только после успешной записи; повторный id означает
// потерянную доставку, а не упавшую сессию.
func (h *ChatHandler) handleSendMessage(ev *chat.Event) error {
	var payload chat.MessagePayload
	if err := json.Unmarshal(ev.Data, &payload); err != nil {
		return chat.ErrInvalidEvent
	}

	kind := payload.Kind
	if kind == "" {
		kind = models.KindText
	}

	message := &models.Message{
		ID:           payload.ID,
		Room:         payload.Room,
		Author:       payload.Author,
		AuthorAvatar: payload.AuthorPic,
		Kind:         kind,
		Body:         payload.Body,
		SentAt:       payload.SentAt,
		CreatedAt:    time.Now(),
	}

	if err := h.store.SaveMessage(message); err != nil {
		if errors.Is(err, database.ErrDuplicateID) {
			log.Printf("duplicate message id %s, broadcast dropped", payload.ID)
			return nil
		}
		log.Printf("failed to save message %s: %v", payload.ID, err)
		return nil
	}

	h.hub.Broadcast(payload.Room, chat.EventReceiveMessage, message)
	return nil
}

// handleEditMessage меняет текст по id. Проверки авторства нет —
// поведение совместимо с исходным клиентом.
func (h *ChatHandler) handleEditMessage(ev *chat.Event) error {
	var payload chat.EditMessagePayload
	if err := json.Unmarshal(ev.Data, &payload); err != nil {
		return chat.ErrInvalidEvent
	}

	if err := h.store.UpdateMessageBody(payload.ID, payload.NewText); err != nil {
		if errors.Is(err, database.ErrMessageNotFound) {
			log.Printf("edit of missing message %s, broadcast dropped", payload.ID)
			return nil
		}
		log.Printf("failed to edit message %s: %v", payload.ID, err)
		return nil
	}

	h.hub.Broadcast(payload.Room, chat.EventReceiveEditMessage, chat.EditBroadcast{
		ID:      payload.ID,
		NewText: payload.NewText,
	})
	return nil
}

// handleDeleteMessage удаляет запись и, для image/audio, связанный
// файл. Отсутствие файла не мешает ни удалению записи, ни рассылке.
// Повторное удаление того же id — no-op.
func (h *ChatHandler) handleDeleteMessage(ev *chat.Event) error {
	var payload chat.DeleteMessagePayload
	if err := json.Unmarshal(ev.Data, &payload); err != nil {
		return chat.ErrInvalidEvent
	}

	removed, err := h.store.DeleteMessage(payload.ID)
	if err != nil {
		if errors.Is(err, database.ErrMessageNotFound) {
			return nil
		}
		log.Printf("failed to delete message %s: %v", payload.ID, err)
		return nil
	}

	if removed.HasAsset() && removed.Body != "" {
		if err := h.assets.Remove(removed.Body); err != nil {
			log.Printf("failed to remove asset for message %s: %v", payload.ID, err)
		}
	}

	h.hub.Broadcast(payload.Room, chat.EventReceiveDeleteMessage, payload.ID)
	return nil
}

// handleTyping транслирует индикатор остальным в комнате; отправителю
// эхо не нужно
func (h *ChatHandler) handleTyping(client *chat.Client, ev *chat.Event) error {
	var payload chat.TypingPayload
	if err := json.Unmarshal(ev.Data, &payload); err != nil {
		return chat.ErrInvalidEvent
	}

	h.hub.RelayExcept(client.ID, payload.Room, chat.EventDisplayTyping, chat.TypingIndicator{Body: payload.Body})
	return nil
}

// handleStopTyping гасит индикатор пустым текстом
func (h *ChatHandler) handleStopTyping(client *chat.Client, ev *chat.Event) error {
	var payload chat.TypingPayload
	if err := json.Unmarshal(ev.Data, &payload); err != nil {
		return chat.ErrInvalidEvent
	}

	h.hub.RelayExcept(client.ID, payload.Room, chat.EventDisplayTyping, chat.TypingIndicator{})
	return nil
}
