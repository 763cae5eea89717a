package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/storyweaver/internal/models"
)

// RoomStore — операции хранения комнат и участников.
type RoomStore interface {
	CreateRoom(ctx context.Context, room *models.Room) error
	GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error)
	GetRoomByCode(ctx context.Context, code string) (*models.Room, error)
	RoomCodeExists(ctx context.Context, code string) (bool, error)
	AddMembership(ctx context.Context, m *models.RoomMembership) error
	HasMembership(ctx context.Context, roomID, userID uuid.UUID) (bool, error)
	RoomMembers(ctx context.Context, roomID uuid.UUID) ([]models.RoomMembership, error)
	StaleRooms(ctx context.Context, before time.Time) ([]models.Room, error)
	DeleteRoomIfStale(ctx context.Context, roomID uuid.UUID, before time.Time) (bool, error)
}

// PanelStore — операции хранения панелей. CommitPanel обязан выполнять
// запись панели, обновление активности и передачу хода атомарно.
type PanelStore interface {
	RecentPanels(ctx context.Context, roomID uuid.UUID, limit int) ([]models.Panel, error)
	ListPanels(ctx context.Context, roomID uuid.UUID) ([]models.Panel, error)
	CommitPanel(ctx context.Context, panel *models.Panel) (*models.Room, error)
}

// ProfileStore — операции хранения профилей пользователей.
type ProfileStore interface {
	UpsertProfile(ctx context.Context, profile *models.UserProfile) error
	GetProfile(ctx context.Context, id uuid.UUID) (*models.UserProfile, error)
	GetProfiles(ctx context.Context, ids []uuid.UUID) ([]models.UserProfile, error)
}

// ImageGenerator генерирует изображение по текстовому промпту.
// Генерация дорогая, на этом уровне не ретраится.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// Summarizer сжимает текст примерно до targetWords слов.
// Его отказ не фатален для создания панели.
type Summarizer interface {
	Summarize(ctx context.Context, text string, targetWords int) (string, error)
}

// Uploader кладет байты в удаленное хранилище и возвращает локатор.
type Uploader interface {
	Upload(ctx context.Context, data []byte, key string) (string, error)
	DeletePrefix(ctx context.Context, prefix string) error
}

// LocalStore — локальный fallback для сгенерированных изображений.
type LocalStore interface {
	Save(roomID uuid.UUID, filename string, data []byte) (string, error)
	DeleteRoom(roomID uuid.UUID) error
}

// Notifier рассылает события комнаты подключенным клиентам.
type Notifier interface {
	PanelCreated(roomID uuid.UUID, panel *models.Panel)
	TurnAdvanced(roomID, userID uuid.UUID)
	MemberJoined(roomID, userID uuid.UUID)
	RoomDeleted(roomID uuid.UUID)
}
