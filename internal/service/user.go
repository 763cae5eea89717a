package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/thereayou/storyweaver/internal/database"
	"github.com/thereayou/storyweaver/internal/models"
)

type ProfileService struct {
	profiles ProfileStore
}

func NewProfileService(profiles ProfileStore) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// UpsertProfile задает username для внешнего userID.
// Минимум 3 символа после обрезки пробелов.
func (s *ProfileService) UpsertProfile(ctx context.Context, userID uuid.UUID, username string) (*models.UserProfile, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		return nil, ErrInvalidUsername
	}

	profile := &models.UserProfile{ID: userID, Username: username}
	if err := s.profiles.UpsertProfile(ctx, profile); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrInvalidUsername
		}
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to upsert profile")
		return nil, ErrInternal
	}
	return profile, nil
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to load profile")
		return nil, ErrInternal
	}
	return profile, nil
}

// GetProfiles возвращает профили по списку ID. Отсутствующие просто
// не попадают в ответ.
func (s *ProfileService) GetProfiles(ctx context.Context, ids []uuid.UUID) ([]models.UserProfile, error) {
	if len(ids) == 0 {
		return []models.UserProfile{}, nil
	}
	profiles, err := s.profiles.GetProfiles(ctx, ids)
	if err != nil {
		logrus.WithError(err).Error("Failed to load profiles")
		return nil, ErrInternal
	}
	return profiles, nil
}
