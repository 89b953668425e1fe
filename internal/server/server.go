package server

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/thereayou/echochat/internal/chat"
	"github.com/thereayou/echochat/internal/config"
	"github.com/thereayou/echochat/internal/database"
	"github.com/thereayou/echochat/internal/handlers"
	"github.com/thereayou/echochat/internal/uploads"
	"github.com/thereayou/echochat/pkg/auth"
)

type Server struct {
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	JWTManager *auth.JWTManager
	Hub        *chat.Hub
	Uploads    *uploads.Store

	cfg config.Config
}

func NewServer() *Server {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println(".env not found, using environment variables")
		}
	}

	cfg := config.Load()

	dbConn := &database.Database{}
	if err := dbConn.Connect(cfg.DatabaseURL); err != nil {
		log.Fatalf("Postgres connect failed: %v", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Redis connect failed: %v", err)
	}

	jwtMgr := auth.NewJWTManager(
		cfg.JWTSecret,
		24*time.Hour,
	)

	uploadStore, err := uploads.NewStore(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		log.Fatalf("upload store init failed: %v", err)
	}

	hub := chat.NewHub()

	chatH := handlers.NewChatHandler(dbConn, uploadStore, hub)
	authH := handlers.NewAuthHandler(dbConn, jwtMgr, rdb)
	groupH := handlers.NewGroupHandler(dbConn)
	messageH := handlers.NewHTTPMessageHandler(dbConn)
	userH := handlers.NewUserHandler(dbConn)
	uploadH := handlers.NewUploadHandler(uploadStore)
	wsH := handlers.NewWebSocketHandler(hub, chatH)

	router := gin.Default()
	router.Static("/uploads", uploadStore.Dir())
	APIEndpoints(router, jwtMgr, rdb, authH, groupH, messageH, userH, uploadH, wsH)

	return &Server{
		Router:     router,
		DB:         dbConn,
		Redis:      rdb,
		JWTManager: jwtMgr,
		Hub:        hub,
		Uploads:    uploadStore,
		cfg:        cfg,
	}
}

func (s *Server) Run() {
	defer s.Hub.Stop()

	log.Printf("Server starting on port %s", s.cfg.Port)
	if err := s.Router.Run(":" + s.cfg.Port); err != nil {
		log.Fatalf("Server run error: %v", err)
	}
}
