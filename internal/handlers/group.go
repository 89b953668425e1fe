package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/echochat/internal/database"
)

type GroupHandler struct {
	db *database.Database
}

func NewGroupHandler(db *database.Database) *GroupHandler {
	return &GroupHandler{db: db}
}

// ListGroups возвращает созданные группы; комната "general" существует
// неявно и в список не входит
func (h *GroupHandler) ListGroups(c *gin.Context) {
	groups, err := h.db.Groups()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch groups"})
		return
	}

	c.JSON(http.StatusOK, groups)
}

// CreateGroup создает группу с уникальным именем
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "group name required"})
		return
	}

	group, err := h.db.CreateGroup(req.Name)
	if err != nil {
		if err == database.ErrGroupExists {
			c.JSON(http.StatusBadRequest, gin.H{"error": "group already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create group"})
		return
	}

	c.JSON(http.StatusCreated, group)
}
