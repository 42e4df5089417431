// Package realtime is the push gateway: a process-wide hub of rooms that
// server-sent-event connections subscribe to.
package realtime

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/boipara/bookstore/internal/domain/user"
	apperrors "github.com/boipara/bookstore/pkg/errors"
	"github.com/boipara/bookstore/pkg/metrics"
)

var (
	ErrConnectionNotFound = apperrors.New(apperrors.ErrCodeNotFound, "connection not found")
	ErrInvalidRoom        = apperrors.New(apperrors.ErrCodeValidation, "room must be customer or seller")
	ErrRoomForbidden      = apperrors.New(apperrors.ErrCodeForbidden, "cannot join this room")
)

// Room kinds a client may join.
const (
	RoomCustomer = "customer"
	RoomSeller   = "seller"
)

// RoomName returns "<kind>-<userID>", e.g. "customer-12".
func RoomName(kind string, userID uint) string {
	return kind + "-" + strconv.FormatUint(uint64(userID), 10)
}

func CustomerRoom(userID uint) string { return RoomName(RoomCustomer, userID) }
func SellerRoom(userID uint) string   { return RoomName(RoomSeller, userID) }

// Event is one message on a connection.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data"`
}

// Emitter sends an event to every connection in a room.
type Emitter interface {
	Emit(ctx context.Context, room, event string, data json.RawMessage) error
}

// Client is one open stream.
type Client struct {
	ID     string
	UserID uint
	Role   user.Role

	send  chan Event
	rooms map[string]struct{}
}

// Events is closed when the hub drops the connection.
func (c *Client) Events() <-chan Event {
	return c.send
}

// Hub tracks connections by id, with a user -> connections index and room
// membership kept on both sides so a disconnect touches only the client's rooms.
type Hub struct {
	mu     sync.RWMutex
	conns  map[string]*Client
	byUser map[uint]map[string]struct{}
	rooms  map[string]map[string]*Client

	bufferSize int
	logger     *zap.Logger
}

// NewHub creates a hub whose connections buffer bufferSize events each.
func NewHub(bufferSize int, logger *zap.Logger) *Hub {
	if bufferSize <= 0 {
		bufferSize = 16
	}
	return &Hub{
		conns:      make(map[string]*Client),
		byUser:     make(map[uint]map[string]struct{}),
		rooms:      make(map[string]map[string]*Client),
		bufferSize: bufferSize,
		logger:     logger,
	}
}

// Connect registers a new connection for an authenticated user.
func (h *Hub) Connect(userID uint, role user.Role) *Client {
	c := &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		Role:   role,
		send:   make(chan Event, h.bufferSize),
		rooms:  make(map[string]struct{}),
	}

	h.mu.Lock()
	h.conns[c.ID] = c
	if h.byUser[userID] == nil {
		h.byUser[userID] = make(map[string]struct{})
	}
	h.byUser[userID][c.ID] = struct{}{}
	h.mu.Unlock()

	metrics.RealtimeConnections.Inc()
	h.logger.Debug("realtime connected", zap.String("conn_id", c.ID), zap.Uint("user_id", userID))
	return c
}

// Disconnect removes the connection from its rooms and closes its channel.
// Unknown ids are ignored.
func (h *Hub) Disconnect(connID string) {
	h.mu.Lock()
	c, ok := h.conns[connID]
	if !ok {
		h.mu.Unlock()
		return
	}
	for room := range c.rooms {
		members := h.rooms[room]
		delete(members, connID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	if ids := h.byUser[c.UserID]; ids != nil {
		delete(ids, connID)
		if len(ids) == 0 {
			delete(h.byUser, c.UserID)
		}
	}
	delete(h.conns, connID)
	close(c.send)
	h.mu.Unlock()

	metrics.RealtimeConnections.Dec()
	h.logger.Debug("realtime disconnected", zap.String("conn_id", connID), zap.Uint("user_id", c.UserID))
}

// Join subscribes a connection to the caller's own room of the given kind and
// returns the room name.
func (h *Hub) Join(connID string, userID uint, kind string) (string, error) {
	if kind != RoomCustomer && kind != RoomSeller {
		return "", ErrInvalidRoom
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.conns[connID]
	if !ok {
		return "", ErrConnectionNotFound
	}
	if c.UserID != userID {
		return "", ErrRoomForbidden
	}
	if kind == RoomSeller && c.Role != user.RoleSeller {
		return "", ErrRoomForbidden
	}

	room := RoomName(kind, userID)
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[string]*Client)
	}
	h.rooms[room][connID] = c
	c.rooms[room] = struct{}{}
	return room, nil
}

// Emit delivers to local connections; it never blocks and never fails.
func (h *Hub) Emit(_ context.Context, room, event string, data json.RawMessage) error {
	h.Deliver(room, Event{Name: event, Data: data})
	return nil
}

// Deliver hands ev to every connection in room and returns how many received it.
// A connection whose buffer is full misses the event.
func (h *Hub) Deliver(room string, ev Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members := h.rooms[room]
	if len(members) == 0 {
		metrics.IncCounterVec(metrics.RealtimeEventsTotal, ev.Name, "no_recipient")
		return 0
	}

	delivered := 0
	for _, c := range members {
		select {
		case c.send <- ev:
			delivered++
			metrics.IncCounterVec(metrics.RealtimeEventsTotal, ev.Name, "delivered")
		default:
			metrics.IncCounterVec(metrics.RealtimeEventsTotal, ev.Name, "dropped")
			h.logger.Warn("realtime buffer full, event dropped",
				zap.String("conn_id", c.ID),
				zap.String("room", room),
				zap.String("event", ev.Name),
			)
		}
	}
	return delivered
}

// Send writes directly to one connection, used for the greeting and heartbeats.
func (h *Hub) Send(connID string, ev Event) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.conns[connID]
	if !ok {
		return false
	}
	select {
	case c.send <- ev:
		return true
	default:
		return false
	}
}

// ConnectionsOf lists the open connection ids of a user.
func (h *Hub) ConnectionsOf(userID uint) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]string, 0, len(h.byUser[userID]))
	for id := range h.byUser[userID] {
		ids = append(ids, id)
	}
	return ids
}

// RoomSize reports how many connections are in room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
