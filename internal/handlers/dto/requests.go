package dto

import "github.com/google/uuid"

type CreatePanelRequest struct {
	Prompt string    `json:"prompt" binding:"required"`
	RoomID uuid.UUID `json:"room_id" binding:"required"`
}

type UpsertProfileRequest struct {
	Username string `json:"username" binding:"required"`
}

type ProfilesRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required"`
}
