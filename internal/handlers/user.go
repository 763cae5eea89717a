package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thereayou/storyweaver/internal/handlers/dto"
	"github.com/thereayou/storyweaver/internal/middleware"
	"github.com/thereayou/storyweaver/internal/service"
)

type UserHandler struct {
	profiles *service.ProfileService
}

func NewUserHandler(profiles *service.ProfileService) *UserHandler {
	return &UserHandler{profiles: profiles}
}

// GetMe возвращает профиль текущего пользователя
func (h *UserHandler) GetMe(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	profile, err := h.profiles.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpsertMe создает или обновляет профиль текущего пользователя
func (h *UserHandler) UpsertMe(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req dto.UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profiles.UpsertProfile(c.Request.Context(), userID, req.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetProfiles возвращает профили по списку ID
func (h *UserHandler) GetProfiles(c *gin.Context) {
	var req dto.ProfilesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profiles, err := h.profiles.GetProfiles(c.Request.Context(), req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}
