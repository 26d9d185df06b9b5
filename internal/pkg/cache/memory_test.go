package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	type payload struct {
		Titles []string `json:"titles"`
	}

	t.Run("Get: Miss On Unknown Key", func(t *testing.T) {
		var p payload
		assert.ErrorIs(t, c.Get(ctx, "nope", &p), ErrMiss)
	})

	t.Run("Set Then Get Round Trips JSON", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "k", payload{Titles: []string{"a", "b"}}, time.Minute))

		var p payload
		require.NoError(t, c.Get(ctx, "k", &p))
		assert.Equal(t, []string{"a", "b"}, p.Titles)
	})

	t.Run("Entries Expire After TTL", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "short", 1, time.Second))

		ok, err := c.Exists(ctx, "short")
		require.NoError(t, err)
		assert.True(t, ok)

		now = now.Add(2 * time.Second)
		ok, err = c.Exists(ctx, "short")
		require.NoError(t, err)
		assert.False(t, ok)

		var v int
		assert.ErrorIs(t, c.Get(ctx, "short", &v), ErrMiss)
	})

	t.Run("Zero TTL Never Expires", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "forever", 1, 0))
		now = now.Add(24 * time.Hour)

		ok, _ := c.Exists(ctx, "forever")
		assert.True(t, ok)
	})

	t.Run("Delete Removes Keys", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "x", 1, 0))
		require.NoError(t, c.Delete(ctx, "x", "missing"))

		ok, _ := c.Exists(ctx, "x")
		assert.False(t, ok)
	})
}
