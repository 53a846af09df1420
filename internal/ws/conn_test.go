package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConn_LifecycleGatesSend(t *testing.T) {
	c := NewConn(nil, "alice", testLogger())
	require.Equal(t, StateAuthenticated, c.State())
	assert.Equal(t, "alice", c.User())
	assert.NotEmpty(t, c.ID())

	// Not yet active: deliveries are refused, not queued
	assert.ErrorIs(t, c.Send([]byte("x")), ErrNotActive)

	c.Activate()
	require.Equal(t, StateActive, c.State())
	assert.NoError(t, c.Send([]byte("x")))
}

func TestConn_SendDropsWhenQueueFull(t *testing.T) {
	c := NewConn(nil, "alice", testLogger())
	c.Activate()

	for i := 0; i < sendBuffer; i++ {
		require.NoError(t, c.Send([]byte("x")))
	}
	assert.ErrorIs(t, c.Send([]byte("overflow")), ErrQueueFull)
}

func TestConn_ActivateOnlyFromAuthenticated(t *testing.T) {
	c := NewConn(nil, "alice", testLogger())
	c.state.Store(int32(StateClosing))

	c.Activate()
	assert.Equal(t, StateClosing, c.State())
	assert.ErrorIs(t, c.Send([]byte("x")), ErrNotActive)
}
