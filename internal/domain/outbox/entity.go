// Package outbox models side effects recorded in the same transaction as the state
// change that caused them, and dispatched afterwards by a background worker.
package outbox

import (
	"encoding/json"
	"time"
)

type Kind string

const (
	KindNotification Kind = "notification"
	KindPush         Kind = "push"
	KindEvent        Kind = "event"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusDispatched Status = "dispatched"
	StatusFailed     Status = "failed"
)

type Entry struct {
	ID            uint
	Kind          Kind
	AggregateType string
	AggregateID   uint
	Payload       json.RawMessage
	Status        Status
	Attempts      int
	LastError     string
	CreatedAt     time.Time
	DispatchedAt  *time.Time
}

// NotificationPayload creates an inbox record; Room, when set, also receives a
// "notification" push once the record exists.
type NotificationPayload struct {
	UserID   uint   `json:"user_id"`
	Room     string `json:"room,omitempty"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Link     string `json:"link,omitempty"`
	OrderID  *uint  `json:"order_id,omitempty"`
	ReturnID *uint  `json:"return_id,omitempty"`
}

// PushPayload is a real-time event for one room.
type PushPayload struct {
	Room  string          `json:"room"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// EventPayload is a domain event for external consumers.
type EventPayload struct {
	Name       string          `json:"name"`
	Key        string          `json:"key"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// Aggregate identifies what an entry is about.
type Aggregate struct {
	Type string
	ID   uint
}

func newEntry(kind Kind, agg Aggregate, payload interface{}) (*Entry, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Entry{
		Kind:          kind,
		AggregateType: agg.Type,
		AggregateID:   agg.ID,
		Payload:       raw,
		Status:        StatusPending,
		CreatedAt:     time.Now(),
	}, nil
}

// MarkFailed records a failed attempt; after maxAttempts the entry stops being retried.
func (e *Entry) MarkFailed(err error, maxAttempts int) {
	e.Attempts++
	e.LastError = err.Error()
	if e.Attempts >= maxAttempts {
		e.Status = StatusFailed
	}
}

func (e *Entry) MarkDispatched() {
	now := time.Now()
	e.Attempts++
	e.Status = StatusDispatched
	e.DispatchedAt = &now
	e.LastError = ""
}
