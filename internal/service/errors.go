package service

import "errors"

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrRoomFull         = errors.New("room is full")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrEmptyPrompt      = errors.New("prompt must not be empty")
	ErrInvalidUsername  = errors.New("username must be at least 3 characters")
	ErrGenerationFailed = errors.New("image generation failed")
	ErrStorageFailed    = errors.New("image storage failed")
	ErrInternal         = errors.New("internal error")
)
