package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// CleanupService удаляет комнаты без активности дольше порога вместе
// с их изображениями. Запускается внешним планировщиком.
type CleanupService struct {
	rooms    RoomStore
	uploader Uploader
	local    LocalStore
	notifier Notifier
}

func NewCleanupService(rooms RoomStore, uploader Uploader, local LocalStore, notifier Notifier) *CleanupService {
	return &CleanupService{rooms: rooms, uploader: uploader, local: local, notifier: notifier}
}

// CleanupStaleRooms удаляет комнаты с last_activity_at раньше
// now - threshold. Ошибка одной комнаты не прерывает обход остальных.
// Возвращает количество удаленных комнат.
func (s *CleanupService) CleanupStaleRooms(ctx context.Context, threshold time.Duration) (int, error) {
	before := time.Now().Add(-threshold)
	logCtx := logrus.WithField("before", before)

	stale, err := s.rooms.StaleRooms(ctx, before)
	if err != nil {
		logCtx.WithError(err).Error("Failed to query stale rooms")
		return 0, ErrInternal
	}
	if len(stale) == 0 {
		return 0, nil
	}
	logCtx.Infof("Found %d stale room(s)", len(stale))

	deleted := 0
	for _, room := range stale {
		roomCtx := logCtx.WithField("room_id", room.ID)

		// Сначала строка в базе: порог перепроверяется под блокировкой,
		// чтобы не снести комнату, в которую прямо сейчас пишут панель.
		ok, err := s.rooms.DeleteRoomIfStale(ctx, room.ID, before)
		if err != nil {
			roomCtx.WithError(err).Error("Failed to delete stale room")
			continue
		}
		if !ok {
			roomCtx.Info("Room became active again, skipping")
			continue
		}

		if err := s.uploader.DeletePrefix(ctx, room.ID.String()+"/"); err != nil {
			roomCtx.WithError(err).Error("Failed to delete room storage prefix")
		}
		if err := s.local.DeleteRoom(room.ID); err != nil {
			roomCtx.WithError(err).Error("Failed to delete local room images")
		}

		if s.notifier != nil {
			s.notifier.RoomDeleted(room.ID)
		}

		deleted++
		roomCtx.Info("Deleted stale room")
	}

	return deleted, nil
}
