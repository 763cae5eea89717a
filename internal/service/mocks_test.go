package service_test

// Ручные testify-моки интерфейсов коллабораторов сервисного слоя.

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/thereayou/storyweaver/internal/models"
)

type mockRoomStore struct{ mock.Mock }

func (m *mockRoomStore) CreateRoom(ctx context.Context, room *models.Room) error {
	return m.Called(ctx, room).Error(0)
}

func (m *mockRoomStore) GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	args := m.Called(ctx, id)
	if room, ok := args.Get(0).(*models.Room); ok {
		return room, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRoomStore) GetRoomByCode(ctx context.Context, code string) (*models.Room, error) {
	args := m.Called(ctx, code)
	if room, ok := args.Get(0).(*models.Room); ok {
		return room, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRoomStore) RoomCodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *mockRoomStore) AddMembership(ctx context.Context, membership *models.RoomMembership) error {
	return m.Called(ctx, membership).Error(0)
}

func (m *mockRoomStore) HasMembership(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, roomID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRoomStore) RoomMembers(ctx context.Context, roomID uuid.UUID) ([]models.RoomMembership, error) {
	args := m.Called(ctx, roomID)
	if members, ok := args.Get(0).([]models.RoomMembership); ok {
		return members, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRoomStore) StaleRooms(ctx context.Context, before time.Time) ([]models.Room, error) {
	args := m.Called(ctx, before)
	if rooms, ok := args.Get(0).([]models.Room); ok {
		return rooms, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRoomStore) DeleteRoomIfStale(ctx context.Context, roomID uuid.UUID, before time.Time) (bool, error) {
	args := m.Called(ctx, roomID, before)
	return args.Bool(0), args.Error(1)
}

type mockPanelStore struct{ mock.Mock }

func (m *mockPanelStore) RecentPanels(ctx context.Context, roomID uuid.UUID, limit int) ([]models.Panel, error) {
	args := m.Called(ctx, roomID, limit)
	if panels, ok := args.Get(0).([]models.Panel); ok {
		return panels, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPanelStore) ListPanels(ctx context.Context, roomID uuid.UUID) ([]models.Panel, error) {
	args := m.Called(ctx, roomID)
	if panels, ok := args.Get(0).([]models.Panel); ok {
		return panels, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPanelStore) CommitPanel(ctx context.Context, panel *models.Panel) (*models.Room, error) {
	args := m.Called(ctx, panel)
	if room, ok := args.Get(0).(*models.Room); ok {
		return room, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockProfileStore struct{ mock.Mock }

func (m *mockProfileStore) UpsertProfile(ctx context.Context, profile *models.UserProfile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *mockProfileStore) GetProfile(ctx context.Context, id uuid.UUID) (*models.UserProfile, error) {
	args := m.Called(ctx, id)
	if profile, ok := args.Get(0).(*models.UserProfile); ok {
		return profile, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProfileStore) GetProfiles(ctx context.Context, ids []uuid.UUID) ([]models.UserProfile, error) {
	args := m.Called(ctx, ids)
	if profiles, ok := args.Get(0).([]models.UserProfile); ok {
		return profiles, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockGenerator struct{ mock.Mock }

func (m *mockGenerator) Generate(ctx context.Context, prompt string) ([]byte, error) {
	args := m.Called(ctx, prompt)
	if data, ok := args.Get(0).([]byte); ok {
		return data, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSummarizer struct{ mock.Mock }

func (m *mockSummarizer) Summarize(ctx context.Context, text string, targetWords int) (string, error) {
	args := m.Called(ctx, text, targetWords)
	return args.String(0), args.Error(1)
}

type mockUploader struct{ mock.Mock }

func (m *mockUploader) Upload(ctx context.Context, data []byte, key string) (string, error) {
	args := m.Called(ctx, data, key)
	return args.String(0), args.Error(1)
}

func (m *mockUploader) DeletePrefix(ctx context.Context, prefix string) error {
	return m.Called(ctx, prefix).Error(0)
}

type mockLocalStore struct{ mock.Mock }

func (m *mockLocalStore) Save(roomID uuid.UUID, filename string, data []byte) (string, error) {
	args := m.Called(roomID, filename, data)
	return args.String(0), args.Error(1)
}

func (m *mockLocalStore) DeleteRoom(roomID uuid.UUID) error {
	return m.Called(roomID).Error(0)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) PanelCreated(roomID uuid.UUID, panel *models.Panel) {
	m.Called(roomID, panel)
}

func (m *mockNotifier) TurnAdvanced(roomID, userID uuid.UUID) {
	m.Called(roomID, userID)
}

func (m *mockNotifier) MemberJoined(roomID, userID uuid.UUID) {
	m.Called(roomID, userID)
}

func (m *mockNotifier) RoomDeleted(roomID uuid.UUID) {
	m.Called(roomID)
}
