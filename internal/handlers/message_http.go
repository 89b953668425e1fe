package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/echochat/internal/database"
)

type HTTPMessageHandler struct {
	db *database.Database
}

func NewHTTPMessageHandler(db *database.Database) *HTTPMessageHandler {
	return &HTTPMessageHandler{db: db}
}

// GetRoomMessages отдает историю комнаты, старые сообщения первыми
func (h *HTTPMessageHandler) GetRoomMessages(c *gin.Context) {
	room := c.Param("room")

	messages, err := h.db.RoomMessages(room)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch history"})
		return
	}

	c.JSON(http.StatusOK, messages)
}
