package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thereayou/storyweaver/internal/storage"
)

// ImageHandler раздает изображения, сохраненные локальным fallback'ом.
type ImageHandler struct {
	store *storage.DiskStore
}

func NewImageHandler(store *storage.DiskStore) *ImageHandler {
	return &ImageHandler{store: store}
}

// GetImage отдает локально сохраненный файл панели
func (h *ImageHandler) GetImage(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("roomId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	filename := c.Param("filename")
	// Не даем выйти за каталог комнаты
	if filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filename"})
		return
	}

	path := h.store.Path(roomID, filename)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
		return
	}

	c.Header("Content-Disposition", "inline; filename=\""+filename+"\"")
	c.Header("Content-Type", "image/jpeg")
	c.File(path)
}

// ListImages возвращает имена локальных файлов комнаты
func (h *ImageHandler) ListImages(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("roomId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	names, err := h.store.ListRoom(roomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list images"})
		return
	}

	c.JSON(http.StatusOK, names)
}
