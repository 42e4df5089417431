package buyback

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_Lifecycle(t *testing.T) {
	r := NewRequest(1, "Pather Panchali", "Bibhutibhushan", "", "fiction", "used", "", 150_00)
	require.NoError(t, r.Validate())

	assert.ErrorIs(t, r.Complete(""), ErrInvalidTransition)
	assert.ErrorIs(t, r.Approve(0, 1, ""), ErrInvalidPrice)
	assert.ErrorIs(t, r.Approve(200_00, 0, ""), ErrInvalidStock)

	require.NoError(t, r.Approve(220_00, 3, "good copy"))
	assert.True(t, r.Acquirable())
	assert.ErrorIs(t, r.Reject("late"), ErrInvalidTransition)

	require.NoError(t, r.Complete("paid"))
	assert.Equal(t, StatusCompleted, r.Status)
	assert.True(t, r.Acquirable())
}

func TestRequest_Reject(t *testing.T) {
	r := NewRequest(1, "A", "B", "", "", "used", "", 10_00)
	require.NoError(t, r.Reject("torn pages"))

	title, msg, ok := CustomerMessage(r)
	require.True(t, ok)
	assert.Equal(t, "Buyback Rejected", title)
	assert.Contains(t, msg, "torn pages")
	assert.False(t, r.Acquirable())
}

func TestRequest_Validate(t *testing.T) {
	assert.ErrorIs(t, NewRequest(1, "", "B", "", "", "", "", 1).Validate(), ErrMissingTitleOrAuthor)
	assert.ErrorIs(t, NewRequest(1, "A", "B", "", "", "", "", 0).Validate(), ErrInvalidPrice)
}
