package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/boipara/bookstore/internal/domain/user"
)

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case ev := <-c.Events():
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return Event{}
	}
}

func TestHub_JoinAndEmit(t *testing.T) {
	hub := NewHub(4, zap.NewNop())
	buyer := hub.Connect(7, user.RoleCustomer)
	other := hub.Connect(8, user.RoleCustomer)

	room, err := hub.Join(buyer.ID, 7, RoomCustomer)
	require.NoError(t, err)
	assert.Equal(t, "customer-7", room)
	_, err = hub.Join(other.ID, 8, RoomCustomer)
	require.NoError(t, err)

	require.NoError(t, hub.Emit(context.Background(), "customer-7", "order-created", json.RawMessage(`{"orderId":1}`)))

	ev := receive(t, buyer)
	assert.Equal(t, "order-created", ev.Name)
	assert.JSONEq(t, `{"orderId":1}`, string(ev.Data))
	assert.Empty(t, other.Events(), "other rooms receive nothing")
}

func TestHub_JoinRules(t *testing.T) {
	hub := NewHub(4, zap.NewNop())
	customer := hub.Connect(7, user.RoleCustomer)

	t.Run("only own room", func(t *testing.T) {
		_, err := hub.Join(customer.ID, 8, RoomCustomer)
		assert.ErrorIs(t, err, ErrRoomForbidden)
	})
	t.Run("seller room needs seller role", func(t *testing.T) {
		_, err := hub.Join(customer.ID, 7, RoomSeller)
		assert.ErrorIs(t, err, ErrRoomForbidden)
	})
	t.Run("unknown room kind", func(t *testing.T) {
		_, err := hub.Join(customer.ID, 7, "admin")
		assert.ErrorIs(t, err, ErrInvalidRoom)
	})
	t.Run("unknown connection", func(t *testing.T) {
		_, err := hub.Join("nope", 7, RoomCustomer)
		assert.ErrorIs(t, err, ErrConnectionNotFound)
	})
}

func TestHub_EmitDropsWhenBufferFull(t *testing.T) {
	hub := NewHub(1, zap.NewNop())
	c := hub.Connect(7, user.RoleCustomer)
	_, err := hub.Join(c.ID, 7, RoomCustomer)
	require.NoError(t, err)

	assert.Equal(t, 1, hub.Deliver("customer-7", Event{Name: "a"}))
	assert.Equal(t, 0, hub.Deliver("customer-7", Event{Name: "b"}))
	assert.Equal(t, 0, hub.Deliver("customer-99", Event{Name: "c"}))
	assert.Equal(t, "a", receive(t, c).Name)
}

func TestHub_DisconnectCleansUp(t *testing.T) {
	hub := NewHub(4, zap.NewNop())
	c1 := hub.Connect(9, user.RoleSeller)
	c2 := hub.Connect(9, user.RoleSeller)
	for _, c := range []*Client{c1, c2} {
		_, err := hub.Join(c.ID, 9, RoomSeller)
		require.NoError(t, err)
	}
	assert.Len(t, hub.ConnectionsOf(9), 2)

	hub.Disconnect(c1.ID)
	_, open := <-c1.Events()
	assert.False(t, open)
	assert.Equal(t, 1, hub.RoomSize("seller-9"))
	assert.Equal(t, []string{c2.ID}, hub.ConnectionsOf(9))

	hub.Disconnect(c2.ID)
	hub.Disconnect(c2.ID)
	assert.Zero(t, hub.RoomSize("seller-9"))
	assert.Empty(t, hub.ConnectionsOf(9))
}

type fakePublisher struct {
	err    error
	bodies [][]byte
}

func (p *fakePublisher) PublishRaw(_ context.Context, _ string, body []byte) error {
	if p.err != nil {
		return p.err
	}
	p.bodies = append(p.bodies, body)
	return nil
}

func TestBridge_PublishesThenDeliversOnConsume(t *testing.T) {
	hub := NewHub(4, zap.NewNop())
	c := hub.Connect(7, user.RoleCustomer)
	_, err := hub.Join(c.ID, 7, RoomCustomer)
	require.NoError(t, err)

	pub := &fakePublisher{}
	bridge := NewBridge(hub, pub, zap.NewNop())
	require.NoError(t, bridge.Emit(context.Background(), "customer-7", "order-update", json.RawMessage(`{"status":"shipped"}`)))

	require.Len(t, pub.bodies, 1)
	assert.Empty(t, c.Events(), "delivery waits for the consumer")

	require.NoError(t, bridge.Handle("customer-7", pub.bodies[0]))
	assert.Equal(t, "order-update", receive(t, c).Name)
}

func TestBridge_FallsBackToLocal(t *testing.T) {
	hub := NewHub(4, zap.NewNop())
	c := hub.Connect(7, user.RoleCustomer)
	_, err := hub.Join(c.ID, 7, RoomCustomer)
	require.NoError(t, err)

	bridge := NewBridge(hub, &fakePublisher{err: errors.New("broker down")}, zap.NewNop())
	require.NoError(t, bridge.Emit(context.Background(), "customer-7", "order-update", json.RawMessage(`{}`)))
	assert.Equal(t, "order-update", receive(t, c).Name)
}
