package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Типы фоновых задач
const (
	TypeRoomCleanup = "room:cleanup" // удаление неактивных комнат
)

// RoomCleanupPayload — параметры задачи очистки.
type RoomCleanupPayload struct {
	TTLHours int `json:"ttl_hours"`
}

// NewRoomCleanupTask создает задачу очистки неактивных комнат.
func NewRoomCleanupTask(ttlHours int) (*asynq.Task, error) {
	payload, err := json.Marshal(RoomCleanupPayload{TTLHours: ttlHours})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRoomCleanup, payload), nil
}
