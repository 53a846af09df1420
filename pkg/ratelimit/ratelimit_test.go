package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemory_AllowsUpToMax(t *testing.T) {
	m := NewMemory(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, m.Allow(ctx, "1.2.3.4"), "request %d", i)
	}
	assert.False(t, m.Allow(ctx, "1.2.3.4"))
}

func TestMemory_KeysAreIndependent(t *testing.T) {
	m := NewMemory(1, time.Minute)
	ctx := context.Background()

	assert.True(t, m.Allow(ctx, "1.2.3.4"))
	assert.False(t, m.Allow(ctx, "1.2.3.4"))
	assert.True(t, m.Allow(ctx, "5.6.7.8"))
}

func TestMemory_WindowResets(t *testing.T) {
	m := NewMemory(1, 10*time.Millisecond)
	ctx := context.Background()

	assert.True(t, m.Allow(ctx, "1.2.3.4"))
	assert.False(t, m.Allow(ctx, "1.2.3.4"))

	time.Sleep(20 * time.Millisecond)
	assert.True(t, m.Allow(ctx, "1.2.3.4"))
}
