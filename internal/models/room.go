package models

import (
	"time"

	"github.com/google/uuid"
)

type Room struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code              string    `gorm:"uniqueIndex;not null" json:"code"`
	CurrentTurnUserID uuid.UUID `gorm:"not null" json:"current_turn_user_id"`
	LastActivityAt    time.Time `json:"last_activity_at"`
	CreatedAt         time.Time `json:"created_at"`

	// Связи
	Panels []Panel `gorm:"foreignKey:RoomID" json:"-"`
}

type RoomMembership struct {
	ID       uint      `gorm:"primaryKey" json:"-"`
	RoomID   uuid.UUID `gorm:"not null;uniqueIndex:idx_room_user" json:"room_id"`
	UserID   uuid.UUID `gorm:"not null;uniqueIndex:idx_room_user" json:"user_id"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

// MaxRoomMembers ограничивает количество участников комнаты.
const MaxRoomMembers = 5

// NextTurnHolder возвращает userID следующего по очереди участника.
// Участники должны быть отсортированы по времени вступления.
// Если текущий владелец хода не найден в списке или участник один,
// очередь не меняется.
func NextTurnHolder(current uuid.UUID, members []RoomMembership) uuid.UUID {
	if len(members) <= 1 {
		return current
	}

	currentIndex := -1
	for i, m := range members {
		if m.UserID == current {
			currentIndex = i
			break
		}
	}
	if currentIndex == -1 {
		return current
	}

	return members[(currentIndex+1)%len(members)].UserID
}
