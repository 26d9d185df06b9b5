package content

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepClock returns a clock that advances by one second on every call.
func stepClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func eventAt(title string, at time.Time) Fields {
	return Fields{Title: title, Excerpt: "e", Content: "c", Date: &at}
}

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Create: Timestamps Equal And Fields Round Trip", func(t *testing.T) {
		repo := NewMemoryRepositoryWithClock(stepClock(start))
		for _, c := range Collections {
			f := Fields{Title: "Clean-up Drive", Excerpt: "Short", Content: "Long body"}
			switch c {
			case News:
				f.Author = "Juan dela Cruz"
				f.ImageURL = "https://example.org/cleanup.jpg"
			case Events:
				d := start.Add(48 * time.Hour)
				f.Date = &d
				f.Venue = "Plaza"
			case Services:
				f.Requirements = []string{"Valid ID"}
			}

			id, err := repo.Create(ctx, c, f)
			require.NoError(t, err)
			require.NotEmpty(t, id)

			list, err := repo.List(ctx, c, c.CanonicalOrder())
			require.NoError(t, err)
			require.Len(t, list, 1)

			got := list[0]
			assert.Equal(t, id, got.ID)
			assert.Equal(t, f.Normalize(c), got.Fields())
			assert.Equal(t, got.CreatedAt, got.UpdatedAt)
		}
	})

	t.Run("List: Empty Collection Is Not An Error", func(t *testing.T) {
		repo := NewMemoryRepository()
		list, err := repo.List(ctx, Services, Services.CanonicalOrder())
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("List: Canonical Orderings", func(t *testing.T) {
		repo := NewMemoryRepositoryWithClock(stepClock(start))

		first, _ := repo.Create(ctx, News, Fields{Title: "first", Excerpt: "e", Content: "c", Author: "a"})
		second, _ := repo.Create(ctx, News, Fields{Title: "second", Excerpt: "e", Content: "c", Author: "a"})

		news, err := repo.List(ctx, News, News.CanonicalOrder())
		require.NoError(t, err)
		require.Len(t, news, 2)
		assert.Equal(t, second, news[0].ID, "newest news first")
		assert.Equal(t, first, news[1].ID)

		late, _ := repo.Create(ctx, Events, eventAt("late", start.AddDate(0, 2, 0)))
		early, _ := repo.Create(ctx, Events, eventAt("early", start.AddDate(0, 1, 0)))

		events, err := repo.List(ctx, Events, Events.CanonicalOrder())
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, early, events[0].ID, "earliest event first")
		assert.Equal(t, late, events[1].ID)
	})

	t.Run("List: Date Order Rejected Outside Events", func(t *testing.T) {
		repo := NewMemoryRepository()
		_, err := repo.List(ctx, News, Order{Field: FieldDate})
		assert.ErrorIs(t, err, ErrInvalidOrder)
	})

	t.Run("Create: Caller Timestamps Ignored", func(t *testing.T) {
		repo := NewMemoryRepositoryWithClock(stepClock(start))
		id, err := repo.Create(ctx, Services, Fields{Title: "t", Excerpt: "e", Content: "c"})
		require.NoError(t, err)

		it, err := repo.Get(ctx, Services, id)
		require.NoError(t, err)
		assert.Equal(t, start.Add(time.Second), it.CreatedAt)
	})

	t.Run("Update: Preserves CreatedAt And Advances UpdatedAt", func(t *testing.T) {
		repo := NewMemoryRepositoryWithClock(stepClock(start))
		id, err := repo.Create(ctx, News, Fields{Title: "t", Excerpt: "e", Content: "c", Author: "a"})
		require.NoError(t, err)
		before, _ := repo.Get(ctx, News, id)

		title := "updated"
		require.NoError(t, repo.Update(ctx, News, id, Patch{Title: &title}))

		after, err := repo.Get(ctx, News, id)
		require.NoError(t, err)
		assert.Equal(t, "updated", after.Title)
		assert.Equal(t, "a", after.Author, "untouched fields survive a patch")
		assert.Equal(t, before.CreatedAt, after.CreatedAt)
		assert.True(t, after.UpdatedAt.After(before.UpdatedAt))
	})

	t.Run("Update: Clock Going Backwards Never Lowers UpdatedAt", func(t *testing.T) {
		now := start
		repo := NewMemoryRepositoryWithClock(func() time.Time { return now })
		id, _ := repo.Create(ctx, News, Fields{Title: "t", Excerpt: "e", Content: "c", Author: "a"})

		now = start.Add(-time.Hour)
		title := "x"
		require.NoError(t, repo.Update(ctx, News, id, Patch{Title: &title}))

		it, _ := repo.Get(ctx, News, id)
		assert.False(t, it.UpdatedAt.Before(it.CreatedAt))
	})

	t.Run("Update And Delete: Missing Id Is Not Found", func(t *testing.T) {
		repo := NewMemoryRepository()
		title := "x"
		assert.ErrorIs(t, repo.Update(ctx, News, "missing", Patch{Title: &title}), ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, News, "missing"), ErrNotFound)
	})

	t.Run("Delete: Second Delete Surfaces Not Found", func(t *testing.T) {
		repo := NewMemoryRepository()
		id, _ := repo.Create(ctx, Services, Fields{Title: "t", Excerpt: "e", Content: "c"})

		require.NoError(t, repo.Delete(ctx, Services, id))
		assert.ErrorIs(t, repo.Delete(ctx, Services, id), ErrNotFound)

		list, _ := repo.List(ctx, Services, Services.CanonicalOrder())
		for _, it := range list {
			assert.NotEqual(t, id, it.ID)
		}
	})

	t.Run("Create: Blank Requirements Discarded", func(t *testing.T) {
		repo := NewMemoryRepository()
		id, err := repo.Create(ctx, Services, Fields{
			Title: "Barangay Clearance", Excerpt: "e", Content: "c",
			Requirements: []string{"Valid ID", "", "  ", "Proof of residency"},
		})
		require.NoError(t, err)

		it, _ := repo.Get(ctx, Services, id)
		assert.Equal(t, []string{"Valid ID", "Proof of residency"}, it.Requirements)
	})

	t.Run("Create: Event Venue Defaults", func(t *testing.T) {
		repo := NewMemoryRepository()
		id, err := repo.Create(ctx, Events, eventAt("Fiesta", start))
		require.NoError(t, err)

		it, _ := repo.Get(ctx, Events, id)
		assert.Equal(t, DefaultVenue, it.Venue)
	})

	t.Run("Get: Returned Items Are Copies", func(t *testing.T) {
		repo := NewMemoryRepository()
		id, _ := repo.Create(ctx, Services, Fields{Title: "t", Excerpt: "e", Content: "c", Requirements: []string{"a"}})

		it, _ := repo.Get(ctx, Services, id)
		it.Requirements[0] = "mutated"

		again, _ := repo.Get(ctx, Services, id)
		assert.Equal(t, []string{"a"}, again.Requirements)
	})

	t.Run("Cancelled Context Is A Backend Error", func(t *testing.T) {
		repo := NewMemoryRepository()
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := repo.List(cctx, News, News.CanonicalOrder())
		assert.ErrorIs(t, err, ErrBackend)
	})
}
