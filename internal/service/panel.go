package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/thereayou/storyweaver/internal/database"
	"github.com/thereayou/storyweaver/internal/models"
)

// styleSuffix добавляется к каждому промпту генерации, но никогда не
// сохраняется вместе с панелью.
const styleSuffix = ", in the style of a graphic novel, comic book art, vibrant colors, detailed line work"

// contextPanels — сколько последних панелей попадает в контекст истории.
const contextPanels = 3

// wordsPerPanel — целевая длина пересказа растет с числом панелей.
const wordsPerPanel = 20

type PanelService struct {
	rooms     RoomStore
	panels    PanelStore
	generator ImageGenerator
	summarize Summarizer
	uploader  Uploader
	local     LocalStore
	notifier  Notifier
}

func NewPanelService(
	rooms RoomStore,
	panels PanelStore,
	generator ImageGenerator,
	summarizer Summarizer,
	uploader Uploader,
	local LocalStore,
	notifier Notifier,
) *PanelService {
	return &PanelService{
		rooms:     rooms,
		panels:    panels,
		generator: generator,
		summarize: summarizer,
		uploader:  uploader,
		local:     local,
		notifier:  notifier,
	}
}

// CreatePanel проводит полный цикл создания панели: проверка хода,
// сборка промпта с контекстом истории, генерация изображения, загрузка
// в хранилище и атомарная фиксация с передачей хода. Ход проверяется до
// обращения к генератору, чтобы не тратить генерацию на чужой ход, и
// перепроверяется при фиксации уже под блокировкой комнаты.
func (s *PanelService) CreatePanel(ctx context.Context, roomID, authorID uuid.UUID, prompt string) (*models.Panel, error) {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": authorID})

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		logCtx.WithError(err).Error("Failed to load room")
		return nil, ErrInternal
	}

	if room.CurrentTurnUserID != authorID {
		return nil, ErrNotYourTurn
	}

	finalPrompt, err := s.buildFinalPrompt(ctx, roomID, prompt)
	if err != nil {
		logCtx.WithError(err).Error("Failed to build generation prompt")
		return nil, ErrInternal
	}
	logCtx.WithField("final_prompt", finalPrompt).Info("Generating panel image")

	image, err := s.generator.Generate(ctx, finalPrompt)
	if err != nil || len(image) == 0 {
		logCtx.WithError(err).Error("Image generation failed")
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	key := fmt.Sprintf("%s/%d.jpg", roomID, time.Now().UnixMilli())
	imageURL, err := s.uploader.Upload(ctx, image, key)
	if err != nil {
		// Сгенерированную картинку не теряем: складываем на локальный
		// диск и помечаем локатор схемой local://.
		logCtx.WithError(err).Warn("Remote upload failed, falling back to local storage")
		imageURL, err = s.local.Save(roomID, fmt.Sprintf("%d.jpg", time.Now().UnixMilli()), image)
		if err != nil {
			logCtx.WithError(err).Error("Local fallback failed as well")
			return nil, fmt.Errorf("%w: %v", ErrStorageFailed, err)
		}
	}

	panel := &models.Panel{
		RoomID:   roomID,
		AuthorID: authorID,
		Prompt:   prompt, // сохраняем исходный короткий промпт
		ImageURL: imageURL,
	}

	updatedRoom, err := s.panels.CommitPanel(ctx, panel)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			return nil, ErrRoomNotFound
		case errors.Is(err, database.ErrTurnConflict):
			return nil, ErrNotYourTurn
		}
		logCtx.WithError(err).Error("Failed to commit panel")
		return nil, ErrInternal
	}

	if s.notifier != nil {
		s.notifier.PanelCreated(roomID, panel)
		s.notifier.TurnAdvanced(roomID, updatedRoom.CurrentTurnUserID)
	}

	logCtx.WithFields(logrus.Fields{
		"panel_id":  panel.ID,
		"next_turn": updatedRoom.CurrentTurnUserID,
	}).Info("Panel created")
	return panel, nil
}

// ListPanels возвращает историю комнаты в порядке создания.
func (s *PanelService) ListPanels(ctx context.Context, roomID uuid.UUID) ([]models.Panel, error) {
	panels, err := s.panels.ListPanels(ctx, roomID)
	if err != nil {
		logrus.WithError(err).WithField("room_id", roomID).Error("Failed to list panels")
		return nil, ErrInternal
	}
	return panels, nil
}

// buildFinalPrompt собирает промпт генерации: контекст предыдущих
// панелей, пользовательский промпт и стилевой суффикс.
func (s *PanelService) buildFinalPrompt(ctx context.Context, roomID uuid.UUID, prompt string) (string, error) {
	recent, err := s.panels.RecentPanels(ctx, roomID, contextPanels)
	if err != nil {
		return "", err
	}
	if len(recent) == 0 {
		return prompt + styleSuffix, nil
	}

	// RecentPanels отдает новые первыми, для контекста нужен
	// хронологический порядок
	prompts := make([]string, len(recent))
	for i, p := range recent {
		prompts[len(recent)-1-i] = p.Prompt
	}

	return s.storyContext(ctx, prompts) + ", " + prompt + styleSuffix, nil
}

// storyContext пересказывает предыдущие промпты в связный контекст.
// При отказе или пустом ответе суммаризатора — простая конкатенация.
func (s *PanelService) storyContext(ctx context.Context, prompts []string) string {
	storySoFar := strings.Join(prompts, ". ")

	summary, err := s.summarize.Summarize(ctx, storySoFar, len(prompts)*wordsPerPanel)
	if err != nil || strings.TrimSpace(summary) == "" {
		logrus.WithError(err).Warn("Story summarization failed, falling back to concatenation")
		return storySoFar
	}

	return strings.ReplaceAll(strings.TrimSpace(summary), "\"", "")
}
