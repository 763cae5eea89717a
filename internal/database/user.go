package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/thereayou/storyweaver/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertProfile создает профиль или обновляет username существующего.
func (d *Database) UpsertProfile(ctx context.Context, profile *models.UserProfile) error {
	err := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "updated_at"}),
		}).
		Create(profile).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (d *Database) GetProfile(ctx context.Context, id uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := d.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (d *Database) GetProfiles(ctx context.Context, ids []uuid.UUID) ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	err := d.db.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error
	return profiles, err
}
