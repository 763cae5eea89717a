package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/thereayou/storyweaver/internal/models"
)

// EventType определяет типы событий комнаты
type EventType string

const (
	TypePing EventType = "ping"

	TypePanelCreated EventType = "panel_created"
	TypeTurnAdvanced EventType = "turn_advanced"
	TypeMemberJoined EventType = "member_joined"
	TypeRoomDeleted  EventType = "room_deleted"
)

// Event рассылается всем подписчикам комнаты.
type Event struct {
	Type      EventType       `json:"type"`
	RoomID    uuid.UUID       `json:"room_id"`
	UserID    *uuid.UUID      `json:"user_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Hub раздает события комнат по WebSocket. Клиент подписан на одну
// комнату на соединение.
type Hub struct {
	// Клиенты по комнатам
	rooms map[uuid.UUID]map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan *Event

	mu sync.RWMutex

	// Контекст для graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub создает новый Hub
func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		rooms:      make(map[uuid.UUID]map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Event, 64),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run запускает hub
func (h *Hub) Run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)

		case <-ticker.C:
			h.ping()
		}
	}
}

// Stop останавливает hub
func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, room := range h.rooms {
		for _, client := range room {
			close(client.Send)
			client.Conn.Close()
		}
	}
	h.rooms = make(map[uuid.UUID]map[uuid.UUID]*Client)
}

// Register регистрирует нового клиента
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister отменяет регистрацию клиента
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[client.RoomID]; !ok {
		h.rooms[client.RoomID] = make(map[uuid.UUID]*Client)
	}
	h.rooms[client.RoomID][client.ID] = client

	logrus.WithFields(logrus.Fields{
		"client_id": client.ID,
		"user_id":   client.UserID,
		"room_id":   client.RoomID,
	}).Debug("WebSocket client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[client.RoomID]
	if !ok {
		return
	}
	if _, ok := room[client.ID]; !ok {
		return
	}

	delete(room, client.ID)
	if len(room) == 0 {
		delete(h.rooms, client.RoomID)
	}
	close(client.Send)

	logrus.WithField("client_id", client.ID).Debug("WebSocket client unregistered")
}

func (h *Hub) broadcastEvent(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logrus.WithError(err).Error("Failed to marshal room event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.rooms[event.RoomID] {
		select {
		case client.Send <- data:
		default:
			logrus.WithField("client_id", client.ID).Warn("Client send channel full, dropping event")
		}
	}
}

func (h *Hub) ping() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, err := json.Marshal(Event{Type: TypePing, Timestamp: time.Now()})
	if err != nil {
		return
	}

	for _, room := range h.rooms {
		for _, client := range room {
			select {
			case client.Send <- data:
			default:
			}
		}
	}
}

func (h *Hub) publish(event *Event) {
	event.Timestamp = time.Now()
	select {
	case h.broadcast <- event:
	default:
		logrus.Warn("Hub broadcast channel full, dropping event")
	}
}

// PanelCreated уведомляет комнату о новой панели
func (h *Hub) PanelCreated(roomID uuid.UUID, panel *models.Panel) {
	data, err := json.Marshal(panel)
	if err != nil {
		logrus.WithError(err).Error("Failed to marshal panel event")
		return
	}
	h.publish(&Event{Type: TypePanelCreated, RoomID: roomID, UserID: &panel.AuthorID, Data: data})
}

// TurnAdvanced уведомляет комнату о передаче хода
func (h *Hub) TurnAdvanced(roomID, userID uuid.UUID) {
	h.publish(&Event{Type: TypeTurnAdvanced, RoomID: roomID, UserID: &userID})
}

// MemberJoined уведомляет комнату о новом участнике
func (h *Hub) MemberJoined(roomID, userID uuid.UUID) {
	h.publish(&Event{Type: TypeMemberJoined, RoomID: roomID, UserID: &userID})
}

// RoomDeleted уведомляет подписчиков об удалении комнаты
func (h *Hub) RoomDeleted(roomID uuid.UUID) {
	h.publish(&Event{Type: TypeRoomDeleted, RoomID: roomID})
}
