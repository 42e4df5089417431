package returns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReturn() *Return {
	return New(1, "BP1", 2, 7, []Item{{BookID: 10, Quantity: 2, Price: 150_00}}, "damaged", "")
}

func TestReturn_AdminTransition(t *testing.T) {
	r := newReturn()
	require.NoError(t, r.AdminTransition(StatusApproved, "ok"))
	assert.Equal(t, "ok", r.AdminNotes)

	// refund-issued is not an admin move
	assert.ErrorIs(t, r.AdminTransition(StatusRefundIssued, ""), ErrInvalidTransition)
	assert.ErrorIs(t, r.AdminTransition(StatusCompleted, ""), ErrInvalidTransition)

	rejected := newReturn()
	require.NoError(t, rejected.AdminTransition(StatusRejected, ""))
	assert.ErrorIs(t, rejected.AdminTransition(StatusApproved, ""), ErrInvalidTransition)
}

func TestReturn_IssueRefund_RequiresApproval(t *testing.T) {
	for _, s := range []Status{StatusPendingAdmin, StatusRejected, StatusRefundIssued, StatusCompleted} {
		r := newReturn()
		r.Status = s
		assert.ErrorIs(t, r.IssueRefund(7, 0, ""), ErrNotApproved, "from %s", s)
	}
}

func TestReturn_IssueRefund(t *testing.T) {
	r := newReturn()
	require.NoError(t, r.AdminTransition(StatusApproved, ""))

	assert.ErrorIs(t, r.IssueRefund(8, 0, ""), ErrNotReturnSeller)
	assert.ErrorIs(t, r.IssueRefund(7, 300_01, ""), ErrInvalidRefundAmount)

	require.NoError(t, r.IssueRefund(7, 0, "refunded via bkash"))
	assert.Equal(t, StatusRefundIssued, r.Status)
	assert.Equal(t, int64(300_00), r.RefundAmount)
	assert.NotNil(t, r.RefundedAt)

	require.NoError(t, r.AdminTransition(StatusCompleted, ""))
	assert.False(t, r.Status.IsOpen())
}
