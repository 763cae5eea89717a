package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thereayou/storyweaver/internal/handlers/dto"
	"github.com/thereayou/storyweaver/internal/middleware"
	"github.com/thereayou/storyweaver/internal/service"
)

type PanelHandler struct {
	panels *service.PanelService
}

func NewPanelHandler(panels *service.PanelService) *PanelHandler {
	return &PanelHandler{panels: panels}
}

// CreatePanel принимает промпт пользователя и запускает полный цикл
// создания панели. Долгий запрос: внутри генерация изображения.
func (h *PanelHandler) CreatePanel(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req dto.CreatePanelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	panel, err := h.panels.CreatePanel(c.Request.Context(), req.RoomID, userID, req.Prompt)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, panel)
}

// ListPanels возвращает историю комнаты в порядке создания панелей
func (h *PanelHandler) ListPanels(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("roomId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	panels, err := h.panels.ListPanels(c.Request.Context(), roomID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"panels": panels})
}
