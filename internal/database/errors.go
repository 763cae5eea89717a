package database

import "errors"

var (
	// ErrNotFound возвращается, когда запись отсутствует.
	ErrNotFound = errors.New("database: record not found")
	// ErrDuplicate возвращается при нарушении уникального ограничения.
	ErrDuplicate = errors.New("database: duplicate entry")
	// ErrTurnConflict возвращается, когда владелец хода изменился
	// между проверкой и фиксацией панели.
	ErrTurnConflict = errors.New("database: turn holder changed")
	// ErrRoomFull возвращается при попытке вступить в заполненную комнату.
	ErrRoomFull = errors.New("database: room is full")
)
