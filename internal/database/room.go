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

func (d *Database) CreateRoom(ctx context.Context, room *models.Room) error {
	return d.db.WithContext(ctx).Create(room).Error
}

func (d *Database) GetRoom(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	var room models.Room
	if err := d.db.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (d *Database) GetRoomByCode(ctx context.Context, code string) (*models.Room, error) {
	var room models.Room
	if err := d.db.WithContext(ctx).Where("code = ?", code).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (d *Database) RoomCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&models.Room{}).Where("code = ?", code).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddMembership добавляет участника, перепроверяя лимит под
// блокировкой строки комнаты: два одновременных вступления не должны
// переполнить комнату.
func (d *Database) AddMembership(ctx context.Context, m *models.RoomMembership) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.Room
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&room, "id = ?", m.RoomID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var count int64
		err = tx.Model(&models.RoomMembership{}).
			Where("room_id = ?", m.RoomID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count >= models.MaxRoomMembers {
			return ErrRoomFull
		}

		if err := tx.Create(m).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicate
			}
			return err
		}
		return nil
	})
}

func (d *Database) HasMembership(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&models.RoomMembership{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// RoomMembers возвращает участников комнаты в порядке вступления.
func (d *Database) RoomMembers(ctx context.Context, roomID uuid.UUID) ([]models.RoomMembership, error) {
	var members []models.RoomMembership
	err := d.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("joined_at ASC").
		Find(&members).Error
	return members, err
}

func (d *Database) StaleRooms(ctx context.Context, before time.Time) ([]models.Room, error) {
	var rooms []models.Room
	err := d.db.WithContext(ctx).
		Where("last_activity_at < ?", before).
		Find(&rooms).Error
	return rooms, err
}

// DeleteRoomIfStale удаляет комнату вместе с панелями и участниками,
// если её last_activity_at всё ещё раньше порога. Строка комнаты
// блокируется, чтобы не гоняться с фиксацией панели в этой же комнате.
// Возвращает false, если комната пропала или успела ожить.
func (d *Database) DeleteRoomIfStale(ctx context.Context, roomID uuid.UUID, before time.Time) (bool, error) {
	deleted := false
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.Room
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&room, "id = ?", roomID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if !room.LastActivityAt.Before(before) {
			// Комната успела ожить
			return nil
		}

		if err := tx.Delete(&models.Panel{}, "room_id = ?", roomID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.RoomMembership{}, "room_id = ?", roomID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&room).Error; err != nil {
			return err
		}

		deleted = true
		return nil
	})
	return deleted, err
}
