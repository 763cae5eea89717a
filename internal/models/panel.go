package models

import (
	"time"

	"github.com/google/uuid"
)

type Panel struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RoomID    uuid.UUID `gorm:"not null;index" json:"room_id"`
	AuthorID  uuid.UUID `gorm:"not null" json:"author_id"`
	Prompt    string    `gorm:"not null" json:"prompt"`
	ImageURL  string    `gorm:"not null" json:"image_url"`
	CreatedAt time.Time `json:"created_at"`

	// Связи
	Room Room `gorm:"foreignKey:RoomID" json:"-"`
}
