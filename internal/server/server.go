package server

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"github.com/thereayou/storyweaver/internal/config"
	"github.com/thereayou/storyweaver/internal/database"
	"github.com/thereayou/storyweaver/internal/generation"
	"github.com/thereayou/storyweaver/internal/handlers"
	"github.com/thereayou/storyweaver/internal/service"
	"github.com/thereayou/storyweaver/internal/storage"
	ws "github.com/thereayou/storyweaver/internal/websocket"
	"github.com/thereayou/storyweaver/internal/worker"
	"github.com/thereayou/storyweaver/pkg/auth"
)

type Server struct {
	Router *gin.Engine
	DB     *database.Database
	Redis  *redis.Client
	Hub    *ws.Hub
	Worker *worker.Server

	cfg *config.Config
}

func NewServer() *Server {
	cfg := config.Load()

	dbConn, err := database.Connect()
	if err != nil {
		logrus.Fatalf("Postgres connect failed: %v", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logrus.Fatalf("invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("Redis connect failed: %v", err)
	}

	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, 24*time.Hour)

	hub := ws.NewHub()

	// Коллабораторы оркестратора
	storageClient := storage.NewClient(cfg.StorageURL, cfg.StorageKey, cfg.StorageBucket)
	diskStore := storage.NewDiskStore(cfg.ImageDir)
	imageClient := generation.NewImageClient(cfg.ImageAPIURL)
	textClient := generation.NewTextClient(cfg.TextAPIURL)

	roomSvc := service.NewRoomService(dbConn, hub)
	panelSvc := service.NewPanelService(dbConn, dbConn, imageClient, textClient, storageClient, diskStore, hub)
	profileSvc := service.NewProfileService(dbConn)
	cleanupSvc := service.NewCleanupService(dbConn, storageClient, diskStore, hub)

	asynqOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		logrus.Fatalf("invalid REDIS_URL for worker: %v", err)
	}
	wrk, err := worker.NewServer(asynqOpt, cleanupSvc, cfg.CleanupCron, int(cfg.RoomTTL.Hours()))
	if err != nil {
		logrus.Fatalf("Worker setup failed: %v", err)
	}

	authH := handlers.NewAuthHandler(jwtMgr, rdb)
	roomH := handlers.NewRoomHandler(roomSvc)
	panelH := handlers.NewPanelHandler(panelSvc)
	userH := handlers.NewUserHandler(profileSvc)
	imageH := handlers.NewImageHandler(diskStore)
	wsH := handlers.NewWebSocketHandler(hub, roomSvc)

	router := gin.Default()
	APIEndpoints(router, jwtMgr, rdb, authH, roomH, panelH, userH, imageH, wsH)

	return &Server{
		Router: router,
		DB:     dbConn,
		Redis:  rdb,
		Hub:    hub,
		Worker: wrk,
		cfg:    cfg,
	}
}

func (s *Server) Run() {
	go s.Hub.Run()
	go s.Worker.Start()

	logrus.Infof("Server starting on port %s", s.cfg.Port)
	if err := s.Router.Run(":" + s.cfg.Port); err != nil {
		logrus.Fatalf("Server run error: %v", err)
	}
}
