package outbox

import (
	"encoding/json"
	"time"
)

// Builder collects the entries produced by one workflow step. Marshal errors are
// kept and reported by Entries, so call sites stay linear.
type Builder struct {
	agg     Aggregate
	entries []*Entry
	err     error
}

// NewBuilder starts a batch of entries for one aggregate.
func NewBuilder(aggregateType string, aggregateID uint) *Builder {
	return &Builder{agg: Aggregate{Type: aggregateType, ID: aggregateID}}
}

func (b *Builder) Notify(p NotificationPayload) *Builder {
	return b.add(KindNotification, p)
}

func (b *Builder) Push(room, event string, data interface{}) *Builder {
	if b.err != nil {
		return b
	}
	raw, err := json.Marshal(data)
	if err != nil {
		b.err = err
		return b
	}
	return b.add(KindPush, PushPayload{Room: room, Event: event, Data: raw})
}

func (b *Builder) Event(name, key string, data interface{}) *Builder {
	if b.err != nil {
		return b
	}
	raw, err := json.Marshal(data)
	if err != nil {
		b.err = err
		return b
	}
	return b.add(KindEvent, EventPayload{Name: name, Key: key, OccurredAt: time.Now(), Data: raw})
}

func (b *Builder) Entries() ([]*Entry, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.entries, nil
}

func (b *Builder) add(kind Kind, payload interface{}) *Builder {
	if b.err != nil {
		return b
	}
	e, err := newEntry(kind, b.agg, payload)
	if err != nil {
		b.err = err
		return b
	}
	b.entries = append(b.entries, e)
	return b
}
