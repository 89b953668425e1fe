package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/thereayou/echochat/internal/database"
	"github.com/thereayou/echochat/internal/handlers/dto"
	"github.com/thereayou/echochat/internal/models"
	"github.com/thereayou/echochat/pkg/auth"
)

// Аватар по умолчанию, если при регистрации не передали свой
const defaultAvatarURL = "https://cdn-icons-png.flaticon.com/512/149/149071.png"

type AuthHandler struct {
	db         *database.Database
	jwtManager *auth.JWTManager
	redis      *redis.Client
}

func NewAuthHandler(db *database.Database, jwtMgr *auth.JWTManager, rdb *redis.Client) *AuthHandler {
	return &AuthHandler{db: db, jwtManager: jwtMgr, redis: rdb}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot hash password"})
		return
	}

	avatar := req.ProfilePic
	if avatar == "" {
		avatar = defaultAvatarURL
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     req.Username,
		PasswordHash: string(hash),
		AvatarURL:    avatar,
		CreatedAt:    time.Now(),
	}

	if err := h.db.SaveUser(user); err != nil {
		if err == database.ErrUserExists {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "user registered"})
}

// Login выдаёт JWT и обновляет last_seen
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.db.FindUserByUsername(req.Username)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if err := h.db.UpdateLastSeen(user.Username); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update last seen"})
		return
	}

	token, err := h.jwtManager.Generate(user.ID.String(), user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"username":   user.Username,
		"profilePic": user.AvatarURL,
	})
}

// Logout ставит токен в черный список в Redis до истечения
func (h *AuthHandler) Logout(c *gin.Context) {
	rawToken, err := auth.ExtractTokenFromHeader(c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exp, err := h.jwtManager.Expiry(rawToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	ttl := time.Until(exp)
	h.redis.Set(context.Background(), "blacklist:"+rawToken, 1, ttl)

	c.Status(http.StatusOK)
}
