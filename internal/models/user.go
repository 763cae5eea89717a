package models

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile хранит выбранный username для внешнего userID.
// ID выдается провайдером аутентификации, профиль только маппит его на имя.
type UserProfile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
