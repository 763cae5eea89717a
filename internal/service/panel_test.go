package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/storyweaver/internal/database"
	"github.com/thereayou/storyweaver/internal/models"
	"github.com/thereayou/storyweaver/internal/service"
)

const styleSuffix = ", in the style of a graphic novel, comic book art, vibrant colors, detailed line work"

type panelFixture struct {
	rooms     *mockRoomStore
	panels    *mockPanelStore
	generator *mockGenerator
	summarize *mockSummarizer
	uploader  *mockUploader
	local     *mockLocalStore
	notifier  *mockNotifier
	svc       *service.PanelService
}

func newPanelFixture() *panelFixture {
	f := &panelFixture{
		rooms:     new(mockRoomStore),
		panels:    new(mockPanelStore),
		generator: new(mockGenerator),
		summarize: new(mockSummarizer),
		uploader:  new(mockUploader),
		local:     new(mockLocalStore),
		notifier:  new(mockNotifier),
	}
	f.svc = service.NewPanelService(f.rooms, f.panels, f.generator, f.summarize, f.uploader, f.local, f.notifier)
	return f
}

func TestPanelService_CreatePanel_Success(t *testing.T) {
	f := newPanelFixture()
	ctx := context.Background()
	roomID := uuid.New()
	author := uuid.New()
	next := uuid.New()

	room := &models.Room{ID: roomID, CurrentTurnUserID: author}
	f.rooms.On("GetRoom", ctx, roomID).Return(room, nil).Once()

	// RecentPanels отдает новые первыми
	f.panels.On("RecentPanels", ctx, roomID, 3).Return([]models.Panel{
		{Prompt: "C"}, {Prompt: "B"}, {Prompt: "A"},
	}, nil).Once()

	f.summarize.On("Summarize", ctx, "A. B. C", 60).Return("the story so far", nil).Once()

	f.generator.On("Generate", ctx, "the story so far, D"+styleSuffix).
		Return([]byte{0xff, 0xd8}, nil).Once()

	f.uploader.On("Upload", ctx, []byte{0xff, 0xd8}, mock.MatchedBy(func(key string) bool {
		return len(key) > len(roomID.String()) && key[:len(roomID.String())] == roomID.String()
	})).Return("https://storage.example/panels/x.jpg", nil).Once()

	updated := &models.Room{ID: roomID, CurrentTurnUserID: next}
	f.panels.On("CommitPanel", ctx, mock.MatchedBy(func(p *models.Panel) bool {
		// Сохраняется исходный короткий промпт, не декорированный
		assert.Equal(t, "D", p.Prompt)
		assert.Equal(t, roomID, p.RoomID)
		assert.Equal(t, author, p.AuthorID)
		assert.Equal(t, "https://storage.example/panels/x.jpg", p.ImageURL)
		return true
	})).Return(updated, nil).Once()

	f.notifier.On("PanelCreated", roomID, mock.Anything).Return().Once()
	f.notifier.On("TurnAdvanced", roomID, next).Return().Once()

	panel, err := f.svc.CreatePanel(ctx, roomID, author, "D")

	require.NoError(t, err)
	require.NotNil(t, panel)
	assert.Equal(t, "D", panel.Prompt)

	f.rooms.AssertExpectations(t)
	f.panels.AssertExpectations(t)
	f.generator.AssertExpectations(t)
	f.summarize.AssertExpectations(t)
	f.uploader.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestPanelService_CreatePanel_FirstPanelHasNoContext(t *testing.T) {
	f := newPanelFixture()
	ctx := context.Background()
	roomID := uuid.New()
	author := uuid.New()

	room := &models.Room{ID: roomID, CurrentTurnUserID: author}
	f.rooms.On("GetRoom", ctx, roomID).Return(room, nil).Once()
	f.panels.On("RecentPanels", ctx, roomID, 3).Return([]models.Panel{}, nil).Once()

	// Без предыдущих панелей — только промпт и стилевой суффикс
	f.generator.On("Generate", ctx, "a lonely lighthouse"+styleSuffix).
		Return([]byte{1}, nil).Once()
	f.uploader.On("Upload", ctx, []byte{1}, mock.Anything).Return("url", nil).Once()
	f.panels.On("CommitPanel", ctx, mock.Anything).Return(room, nil).Once()
	f.notifier.On("PanelCreated", roomID, mock.Anything).Return().Once()
	f.notifier.On("TurnAdvanced", roomID, author).Return().Once()

	_, err := f.svc.CreatePanel(ctx, roomID, author, "a lonely lighthouse")

	require.NoError(t, err)
	f.summarize.AssertNotCalled(t, "Summarize", mock.Anything, mock.Anything, mock.Anything)
	f.generator.AssertExpectations(t)
}

func TestPanelService_CreatePanel_SummarizerFailureFallsBackToConcatenation(t *testing.T) {
	f := newPanelFixture()
	ctx := context.Background()
	roomID := uuid.New()
	author := uuid.New()

	room := &models.Room{ID: roomID, CurrentTurnUserID: author}
	f.rooms.On("GetRoom", ctx, roomID).Return(room, nil).Once()
	f.panels.On("RecentPanels", ctx, roomID, 3).Return([]models.Panel{
		{Prompt: "B"}, {Prompt: "A"},
	}, nil).Once()
	f.summarize.On("Summarize", ctx, "A. B", 40).Return("", errors.New("timeout")).Once()

	// Fallback — конкатенация через ". "
	f.generator.On("Generate", ctx, "A. B, C"+styleSuffix).Return([]byte{1}, nil).Once()
	f.uploader.On("Upload", ctx, []byte{1}, mock.Anything).Return("url", nil).Once()
	f.panels.On("CommitPanel", ctx, mock.Anything).Return(room, nil).Once()
	f.notifier.On("PanelCreated", roomID, mock.Anything).Return().Once()
	f.notifier.On("TurnAdvanced", roomID, author).Return().Once()

	_, err := f.svc.CreatePanel(ctx, roomID, author, "C")

	require.NoError(t, err)
	f.generator.AssertExpectations(t)
}

func TestPanelService_CreatePanel_NotYourTurn(t *testing.T) {
	f := newPanelFixture()
	ctx := context.Background()
	roomID := uuid.New()

	room := &models.Room{ID: roomID, CurrentTurnUserID: uuid.New()}
	f.rooms.On("GetRoom", ctx, roomID).Return(room, nil).Once()

	_, err := f.svc.CreatePanel(ctx, roomID, uuid.New(), "D")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrNotYourTurn))
	// Чужой ход отклоняется до обращения к генератору
	f.generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	f.panels.AssertNotCalled(t, "CommitPanel", mock.Anything, mock.Anything)
}

func TestPanelService_CreatePanel_RoomNotFound(t *testing.T) {
	f := newPanelFixture()
	ctx := context.Background()
	roomID := uuid.New()

	f.rooms.On("GetRoom", ctx, roomID).Return(nil, database.ErrNotFound).Once()

	_, err := f.svc.CreatePanel(ctx, roomID, uuid.New(), "D")

	assert.True(t, errors.Is(err, service.ErrRoomNotFound))
}

func TestPanelService_CreatePanel_EmptyPrompt(t *testing.T) {
	f := newPanelFixture()

	_, err := f.svc.CreatePanel(context.Background(), uuid.New(), uuid.New(), "   ")

	assert.True(t, errors.Is(err, service.ErrEmptyPrompt))
	f.rooms.AssertNotCalled(t, "GetRoom", mock.Anything, mock.Anything)
}

func TestPanelService_CreatePanel_GenerationFailureIsNotRetried(t *testing.T) {
	f := newPanelFixture()
	ctx := context.Background()
	roomID := uuid.New()
	author := uuid.New()

	room := &models.Room{ID: roomID, CurrentTurnUserID: author}
	f.rooms.On("GetRoom", ctx, roomID).Return(room, nil).Once()
	f.panels.On("RecentPanels", ctx, roomID, 3).Return([]models.Panel{}, nil).Once()
	f.generator.On("Generate", ctx, mock.Anything).Return(nil, errors.New("api down")).Once()

	_, err := f.svc.CreatePanel(ctx, roomID, author, "D")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrGenerationFailed))
	f.generator.AssertNumberOfCalls(t, "Generate", 1)
	f.uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
	f.panels.AssertNotCalled(t, "CommitPanel", mock.Anything, mock.Anything)
}

func TestPanelService_CreatePanel_UploadFailureFallsBackToLocal(t *testing.T) {
	f := newPanelFixture()
	ctx := context.Background()
	roomID := uuid.New()
	author := uuid.New()

	room := &models.Room{ID: roomID, CurrentTurnUserID: author}
	f.rooms.On("GetRoom", ctx, roomID).Return(room, nil).Once()
	f.panels.On("RecentPanels", ctx, roomID, 3).Return([]models.Panel{}, nil).Once()
	f.generator.On("Generate", ctx, mock.Anything).Return([]byte{1}, nil).Once()
	f.uploader.On("Upload", ctx, []byte{1}, mock.Anything).
		Return("", errors.New("storage down")).Once()
	f.local.On("Save", roomID, mock.Anything, []byte{1}).
		Return("local://"+roomID.String()+"/1.jpg", nil).Once()

	f.panels.On("CommitPanel", ctx, mock.MatchedBy(func(p *models.Panel) bool {
		return p.ImageURL == "local://"+roomID.String()+"/1.jpg"
	})).Return(room, nil).Once()
	f.notifier.On("PanelCreated", roomID, mock.Anything).Return().Once()
	f.notifier.On("TurnAdvanced", roomID, author).Return().Once()

	panel, err := f.svc.CreatePanel(ctx, roomID, author, "D")

	require.NoError(t, err)
	assert.Contains(t, panel.ImageURL, "local://")
	f.local.AssertExpectations(t)
}

func TestPanelService_CreatePanel_StorageTotallyUnavailable(t *testing.T) {
	f := newPanelFixture()
	ctx := context.Background()
	roomID := uuid.New()
	author := uuid.New()

	room := &models.Room{ID: roomID, CurrentTurnUserID: author}
	f.rooms.On("GetRoom", ctx, roomID).Return(room, nil).Once()
	f.panels.On("RecentPanels", ctx, roomID, 3).Return([]models.Panel{}, nil).Once()
	f.generator.On("Generate", ctx, mock.Anything).Return([]byte{1}, nil).Once()
	f.uploader.On("Upload", ctx, []byte{1}, mock.Anything).
		Return("", errors.New("storage down")).Once()
	f.local.On("Save", roomID, mock.Anything, []byte{1}).
		Return("", errors.New("disk full")).Once()

	_, err := f.svc.CreatePanel(ctx, roomID, author, "D")

	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrStorageFailed))
	f.panels.AssertNotCalled(t, "CommitPanel", mock.Anything, mock.Anything)
}

func TestPanelService_CreatePanel_TurnConflictAtCommit(t *testing.T) {
	f := newPanelFixture()
	ctx := context.Background()
	roomID := uuid.New()
	author := uuid.New()

	room := &models.Room{ID: roomID, CurrentTurnUserID: author}
	f.rooms.On("GetRoom", ctx, roomID).Return(room, nil).Once()
	f.panels.On("RecentPanels", ctx, roomID, 3).Return([]models.Panel{}, nil).Once()
	f.generator.On("Generate", ctx, mock.Anything).Return([]byte{1}, nil).Once()
	f.uploader.On("Upload", ctx, []byte{1}, mock.Anything).Return("url", nil).Once()

	// Ход успел смениться между проверкой и фиксацией
	f.panels.On("CommitPanel", ctx, mock.Anything).Return(nil, database.ErrTurnConflict).Once()

	_, err := f.svc.CreatePanel(ctx, roomID, author, "D")

	assert.True(t, errors.Is(err, service.ErrNotYourTurn))
	f.notifier.AssertNotCalled(t, "PanelCreated", mock.Anything, mock.Anything)
}
