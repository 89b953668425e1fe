package server

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/thereayou/echochat/internal/handlers"
	"github.com/thereayou/echochat/internal/middleware"
	"github.com/thereayou/echochat/pkg/auth"
)

func APIEndpoints(
	r *gin.Engine,
	jwtMgr *auth.JWTManager,
	rdb *redis.Client,
	authH *handlers.AuthHandler,
	groupH *handlers.GroupHandler,
	messageH *handlers.HTTPMessageHandler,
	userH *handlers.UserHandler,
	uploadH *handlers.UploadHandler,
	wsH *handlers.WebSocketHandler,
) {
	// Auth endpoints
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authH.Register)
		authGroup.POST("/login", authH.Login)
		authGroup.POST("/logout", authH.Logout)
	}

	// API endpoints
	api := r.Group("/", middleware.AuthMiddleware(jwtMgr, rdb))
	{
		api.GET("/users", userH.ListUsers)
		api.GET("/groups", groupH.ListGroups)
		api.POST("/groups", groupH.CreateGroup)
		api.GET("/messages/:room", messageH.GetRoomMessages)
		api.POST("/upload", uploadH.Upload)
	}

	// WebSocket: токен приходит query-параметром
	r.GET("/ws", middleware.WSAuthMiddleware(jwtMgr, rdb), wsH.HandleWebSocket)
}
