package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/thereayou/storyweaver/internal/middleware"
	"github.com/thereayou/storyweaver/internal/service"
	ws "github.com/thereayou/storyweaver/internal/websocket"
)

// WebSocketHandler подключает клиентов к потоку событий комнаты
type WebSocketHandler struct {
	hub      *ws.Hub
	rooms    *service.RoomService
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(hub *ws.Hub, rooms *service.RoomService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:   hub,
		rooms: rooms,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// TODO: проверять origin в prod
				return true
			},
		},
	}
}

// HandleWebSocket подписывает соединение на события комнаты из ?room=
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	roomID, err := uuid.Parse(c.Query("room"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	// Комната должна существовать
	if _, err := h.rooms.GetRoomState(c.Request.Context(), roomID); err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := ws.NewClient(h.hub, conn, userID.(uuid.UUID), roomID)

	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
