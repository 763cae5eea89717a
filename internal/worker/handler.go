package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"github.com/thereayou/storyweaver/internal/service"
	"github.com/thereayou/storyweaver/internal/tasks"
)

// RoomCleanupHandler выполняет задачу room:cleanup.
type RoomCleanupHandler struct {
	cleanup *service.CleanupService
	log     *logrus.Entry
}

func NewRoomCleanupHandler(cleanup *service.CleanupService) *RoomCleanupHandler {
	return &RoomCleanupHandler{
		cleanup: cleanup,
		log:     logrus.WithField("component", "room_cleanup"),
	}
}

func (h *RoomCleanupHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload tasks.RoomCleanupPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		h.log.WithError(err).Error("Invalid cleanup task payload")
		return err
	}
	if payload.TTLHours <= 0 {
		payload.TTLHours = 24
	}

	deleted, err := h.cleanup.CleanupStaleRooms(ctx, time.Duration(payload.TTLHours)*time.Hour)
	if err != nil {
		h.log.WithError(err).Error("Room cleanup sweep failed")
		return err
	}

	h.log.WithField("deleted", deleted).Info("Room cleanup sweep finished")
	return nil
}
