package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/thereayou/echochat/internal/chat"
	"github.com/thereayou/echochat/internal/middleware"
)

// WebSocketHandler управляет WebSocket соединениями
type WebSocketHandler struct {
	hub         *chat.Hub
	chatHandler *ChatHandler
	upgrader    websocket.Upgrader
}

// NewWebSocketHandler создает новый WebSocket handler
func NewWebSocketHandler(hub *chat.Hub, chatHandler *ChatHandler) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		chatHandler: chatHandler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// TODO: Проверить origin в prod
				return true
			},
		},
	}
}

// HandleWebSocket обрабатывает WebSocket соединения
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := chat.NewClient(h.hub, conn, userID.(uuid.UUID))

	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.chatHandler)

	// Новому соединению сразу отдаем текущий список присутствия,
	// не дожидаясь его собственного join_room
	if err := client.SendEvent(chat.EventActiveUsers, h.hub.Presence().Snapshot()); err != nil {
		log.Printf("failed to send presence snapshot to %s: %v", client.ID, err)
	}
}
