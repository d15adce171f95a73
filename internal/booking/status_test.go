package booking

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTransitions(t *testing.T) {
	assert.True(t, CanConfirm(StatusPending))
	for _, s := range []Status{StatusConfirmed, StatusCancelled, StatusCompleted} {
		assert.False(t, CanConfirm(s), s)
	}
	assert.True(t, CanComplete(StatusConfirmed))
	assert.False(t, CanComplete(StatusPending))
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidStatus("cancelled"))
	assert.False(t, IsValidStatus("refunded"))
	assert.False(t, IsValidStatus(""))
}

func TestSessionID(t *testing.T) {
	id := SessionID(time.UnixMilli(1700000000123))
	assert.Equal(t, "sim_1700000000123", id)
	assert.True(t, strings.HasPrefix(SessionID(time.Now()), "sim_"))
}
