package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/storyweaver/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecentPanels получает последние limit панелей комнаты, новые первыми.
func (d *Database) RecentPanels(ctx context.Context, roomID uuid.UUID, limit int) ([]models.Panel, error) {
	var panels []models.Panel
	err := d.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at DESC").
		Limit(limit).
		Find(&panels).Error
	return panels, err
}

// ListPanels возвращает все панели комнаты в порядке создания.
func (d *Database) ListPanels(ctx context.Context, roomID uuid.UUID) ([]models.Panel, error) {
	var panels []models.Panel
	err := d.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at ASC").
		Find(&panels).Error
	return panels, err
}

// CommitPanel фиксирует панель, обновляет активность комнаты и передает
// ход следующему участнику одной транзакцией. Строка комнаты берется
// под блокировку, и право хода перепроверяется уже под ней: две
// конкурирующие отправки в одну комнату не могут пройти проверку обе.
// Возвращает комнату в состоянии после передачи хода.
func (d *Database) CommitPanel(ctx context.Context, panel *models.Panel) (*models.Room, error) {
	var room models.Room
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&room, "id = ?", panel.RoomID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if room.CurrentTurnUserID != panel.AuthorID {
			return ErrTurnConflict
		}

		if err := tx.Create(panel).Error; err != nil {
			return err
		}

		var members []models.RoomMembership
		err = tx.Where("room_id = ?", room.ID).
			Order("joined_at ASC").
			Find(&members).Error
		if err != nil {
			return err
		}

		room.LastActivityAt = time.Now()
		room.CurrentTurnUserID = models.NextTurnHolder(room.CurrentTurnUserID, members)

		return tx.Save(&room).Error
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}
