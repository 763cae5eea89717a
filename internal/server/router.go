package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/thereayou/storyweaver/internal/handlers"
	"github.com/thereayou/storyweaver/internal/middleware"
	"github.com/thereayou/storyweaver/pkg/auth"
)

func APIEndpoints(
	r *gin.Engine,
	jwtMgr *auth.JWTManager,
	rdb *redis.Client,
	authH *handlers.AuthHandler,
	roomH *handlers.RoomHandler,
	panelH *handlers.PanelHandler,
	userH *handlers.UserHandler,
	imageH *handlers.ImageHandler,
	wsH *handlers.WebSocketHandler,
) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Auth endpoints
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/logout", authH.Logout)
	}

	// Картинки локального fallback'а отдаются без токена:
	// их запрашивают <img> теги
	images := r.Group("/api/images")
	{
		images.GET("/list/:roomId", imageH.ListImages)
		images.GET("/:roomId/:filename", imageH.GetImage)
	}

	// API endpoints
	api := r.Group("/api", middleware.AuthMiddleware(jwtMgr, rdb))
	{
		api.POST("/rooms", roomH.CreateRoom)
		api.POST("/rooms/join/:code", roomH.JoinRoomByCode)
		api.POST("/rooms/:id/join", roomH.JoinRoom)
		api.GET("/rooms/:id", roomH.GetRoomState)

		api.POST("/panels", panelH.CreatePanel)
		api.GET("/panels/room/:roomId", panelH.ListPanels)

		api.GET("/users/me", userH.GetMe)
		api.POST("/users/me", userH.UpsertMe)
		api.POST("/users/profiles", userH.GetProfiles)
	}

	// События комнаты по WebSocket
	r.GET("/ws", middleware.WSAuthMiddleware(jwtMgr, rdb), wsH.HandleWebSocket)
}
