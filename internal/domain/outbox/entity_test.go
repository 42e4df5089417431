package outbox

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Entries(t *testing.T) {
	entries, err := NewBuilder("order", 5).
		Notify(NotificationPayload{UserID: 1, Type: "order_placed", Title: "t", Message: "m"}).
		Push("customer-1", "order-created", map[string]interface{}{"orderId": 5}).
		Event("order.created", "5", map[string]interface{}{"total": 250}).
		Entries()
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, KindNotification, entries[0].Kind)
	assert.Equal(t, KindPush, entries[1].Kind)
	assert.Equal(t, KindEvent, entries[2].Kind)
	for _, e := range entries {
		assert.Equal(t, StatusPending, e.Status)
		assert.Equal(t, "order", e.AggregateType)
		assert.Equal(t, uint(5), e.AggregateID)
	}

	var push PushPayload
	require.NoError(t, json.Unmarshal(entries[1].Payload, &push))
	assert.Equal(t, "customer-1", push.Room)
	assert.JSONEq(t, `{"orderId":5}`, string(push.Data))
}

func TestBuilder_MarshalErrorIsReported(t *testing.T) {
	_, err := NewBuilder("order", 1).Push("r", "e", make(chan int)).Notify(NotificationPayload{}).Entries()
	assert.Error(t, err)
}

func TestEntry_MarkFailed(t *testing.T) {
	e := &Entry{Status: StatusPending}
	e.MarkFailed(errors.New("broker down"), 2)
	assert.Equal(t, StatusPending, e.Status)
	assert.Equal(t, "broker down", e.LastError)

	e.MarkFailed(errors.New("broker down"), 2)
	assert.Equal(t, StatusFailed, e.Status)

	e.MarkDispatched()
	assert.Equal(t, StatusDispatched, e.Status)
	assert.NotNil(t, e.DispatchedAt)
}
