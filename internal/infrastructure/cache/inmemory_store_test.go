package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("should return stored value until it expires", func(t *testing.T) {
		clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
		store := NewInMemoryStore(WithClock(clock.Now))
		defer store.Close()

		require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))

		value, found, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []byte("v"), value)

		clock.Advance(2 * time.Minute)
		_, found, err = store.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, found)

		hits, misses := store.Stats()
		assert.Equal(t, int64(1), hits)
		assert.Equal(t, int64(1), misses)
	})

	t.Run("should not store entries without ttl", func(t *testing.T) {
		store := NewInMemoryStore()
		defer store.Close()

		require.NoError(t, store.Set(ctx, "k", []byte("v"), 0))
		_, found, _ := store.Get(ctx, "k")
		assert.False(t, found)
	})

	t.Run("should purge expired entries", func(t *testing.T) {
		clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
		store := NewInMemoryStore(WithClock(clock.Now), WithCleanupInterval(time.Hour))
		defer store.Close()

		require.NoError(t, store.Set(ctx, "old", []byte("1"), time.Second))
		require.NoError(t, store.Set(ctx, "fresh", []byte("2"), time.Hour))
		clock.Advance(time.Minute)
		store.purgeExpired()

		_, oldPresent := store.entries.Load("old")
		_, freshPresent := store.entries.Load("fresh")
		assert.False(t, oldPresent)
		assert.True(t, freshPresent)
	})

	t.Run("should allow closing twice", func(t *testing.T) {
		store := NewInMemoryStore()
		assert.NoError(t, store.Close())
		assert.NoError(t, store.Close())
	})
}
