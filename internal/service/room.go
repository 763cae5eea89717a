package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/thereayou/storyweaver/internal/database"
	"github.com/thereayou/storyweaver/internal/models"
)

type RoomService struct {
	rooms    RoomStore
	notifier Notifier
}

func NewRoomService(rooms RoomStore, notifier Notifier) *RoomService {
	return &RoomService{rooms: rooms, notifier: notifier}
}

// RoomState — комната вместе со списком участников в порядке вступления.
type RoomState struct {
	Room    *models.Room `json:"room"`
	Members []uuid.UUID  `json:"members"`
}

// CreateRoom создает комнату: создатель становится первым участником
// и первым владельцем хода.
func (s *RoomService) CreateRoom(ctx context.Context, creatorID uuid.UUID) (*models.Room, error) {
	logCtx := logrus.WithField("creator_id", creatorID)

	code, err := s.generateUniqueCode(ctx)
	if err != nil {
		logCtx.WithError(err).Error("Failed to generate unique room code")
		return nil, ErrInternal
	}

	room := &models.Room{
		Code:              code,
		CurrentTurnUserID: creatorID,
		LastActivityAt:    time.Now(),
	}

	if err := s.rooms.CreateRoom(ctx, room); err != nil {
		logCtx.WithError(err).Error("Failed to save new room")
		return nil, ErrInternal
	}

	membership := &models.RoomMembership{
		RoomID: room.ID,
		UserID: creatorID,
	}
	if err := s.rooms.AddMembership(ctx, membership); err != nil {
		logCtx.WithError(err).Error("Failed to add creator to room")
		return nil, ErrInternal
	}

	logCtx.WithFields(logrus.Fields{"room_id": room.ID, "code": room.Code}).Info("Room created")
	return room, nil
}

// JoinRoom добавляет пользователя в комнату. Повторное вступление
// идемпотентно, лимит участников — models.MaxRoomMembers.
func (s *RoomService) JoinRoom(ctx context.Context, roomID, userID uuid.UUID) (*models.Room, error) {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": userID})

	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		logCtx.WithError(err).Error("Failed to load room")
		return nil, ErrInternal
	}

	joined, err := s.rooms.HasMembership(ctx, roomID, userID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to check membership")
		return nil, ErrInternal
	}
	if joined {
		// Уже участник — возвращаем текущее состояние
		return room, nil
	}

	// Лимит участников проверяет хранилище под блокировкой комнаты,
	// иначе два одновременных вступления переполнили бы ее
	membership := &models.RoomMembership{RoomID: roomID, UserID: userID}
	if err := s.rooms.AddMembership(ctx, membership); err != nil {
		switch {
		case errors.Is(err, database.ErrRoomFull):
			return nil, ErrRoomFull
		case errors.Is(err, database.ErrDuplicate):
			// Гонка двух вступлений одного пользователя
			return room, nil
		case errors.Is(err, database.ErrNotFound):
			return nil, ErrRoomNotFound
		}
		logCtx.WithError(err).Error("Failed to add membership")
		return nil, ErrInternal
	}

	if s.notifier != nil {
		s.notifier.MemberJoined(roomID, userID)
	}

	logCtx.Info("User joined room")
	return room, nil
}

// JoinRoomByCode находит комнату по коду и вступает в нее.
func (s *RoomService) JoinRoomByCode(ctx context.Context, code string, userID uuid.UUID) (*models.Room, error) {
	room, err := s.rooms.GetRoomByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		logrus.WithError(err).WithField("code", code).Error("Failed to find room by code")
		return nil, ErrInternal
	}
	return s.JoinRoom(ctx, room.ID, userID)
}

// GetRoomState возвращает комнату и ID участников в порядке вступления.
func (s *RoomService) GetRoomState(ctx context.Context, roomID uuid.UUID) (*RoomState, error) {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		logrus.WithError(err).WithField("room_id", roomID).Error("Failed to load room")
		return nil, ErrInternal
	}

	members, err := s.rooms.RoomMembers(ctx, roomID)
	if err != nil {
		logrus.WithError(err).WithField("room_id", roomID).Error("Failed to load room members")
		return nil, ErrInternal
	}

	memberIDs := make([]uuid.UUID, len(members))
	for i, m := range members {
		memberIDs[i] = m.UserID
	}

	return &RoomState{Room: room, Members: memberIDs}, nil
}

// generateUniqueCode подбирает свободный 6-символьный код комнаты.
func (s *RoomService) generateUniqueCode(ctx context.Context) (string, error) {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const codeLength = 6
	const maxAttempts = 10

	b := make([]byte, codeLength)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if _, err := rand.Read(b); err != nil {
			return "", fmt.Errorf("failed to generate random bytes: %w", err)
		}
		for i := range b {
			b[i] = letters[int(b[i])%len(letters)]
		}
		code := string(b)

		exists, err := s.rooms.RoomCodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check room code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique room code after %d attempts", maxAttempts)
}
