package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/echochat/internal/database"
)

type UserHandler struct {
	db *database.Database
}

func NewUserHandler(db *database.Database) *UserHandler {
	return &UserHandler{db: db}
}

// ListUsers возвращает имена и аватары всех пользователей
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.db.Users()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch users"})
		return
	}

	result := make([]gin.H, len(users))
	for i, user := range users {
		result[i] = gin.H{
			"username":   user.Username,
			"profilePic": user.AvatarURL,
		}
	}

	c.JSON(http.StatusOK, result)
}
