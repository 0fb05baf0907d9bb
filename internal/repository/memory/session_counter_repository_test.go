package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumeSlotSequential(t *testing.T) {
	repo := NewSessionCounterRepository()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		allowed, count, err := repo.ConsumeSlot(ctx, "s1", 3)
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, i, count)
	}

	allowed, count, err := repo.ConsumeSlot(ctx, "s1", 3)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 3, count)
}

func TestConsumeSlotConcurrent(t *testing.T) {
	repo := NewSessionCounterRepository()
	ctx := context.Background()

	const limit = 15
	const callers = 100

	var granted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed, _, err := repo.ConsumeSlot(ctx, "busy-session", limit)
			assert.NoError(t, err)
			if allowed {
				granted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(limit), granted.Load())
}

func TestConsumeSlotIsolatesSessions(t *testing.T) {
	repo := NewSessionCounterRepository()
	ctx := context.Background()

	allowed, _, err := repo.ConsumeSlot(ctx, "a", 1)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, err = repo.ConsumeSlot(ctx, "b", 1)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, err = repo.ConsumeSlot(ctx, "a", 1)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestConsumeSlotBlankSessionId(t *testing.T) {
	repo := NewSessionCounterRepository()
	ctx := context.Background()

	allowed, count, err := repo.ConsumeSlot(ctx, "   ", 1)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, count)

	// Blank ids collapse onto one shared key.
	allowed, _, err = repo.ConsumeSlot(ctx, "", 1)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestConsumeSlotNonPositiveLimitUsesDefault(t *testing.T) {
	repo := NewSessionCounterRepository()
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		allowed, _, err := repo.ConsumeSlot(ctx, "d", 0)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, _, err := repo.ConsumeSlot(ctx, "d", 0)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestReset(t *testing.T) {
	repo := NewSessionCounterRepository()
	ctx := context.Background()

	_, _, err := repo.ConsumeSlot(ctx, "r", 1)
	require.NoError(t, err)
	require.NoError(t, repo.Reset(ctx, "r"))

	allowed, count, err := repo.ConsumeSlot(ctx, "r", 1)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, count)
}
