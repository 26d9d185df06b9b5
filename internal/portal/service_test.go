package portal

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doshub/portal-backend/internal/content"
	"github.com/doshub/portal-backend/internal/pkg/cache"
)

// heldRepository takes its listing snapshot, then waits for release
// before returning it.
type heldRepository struct {
	content.Repository
	listed  chan struct{}
	release chan struct{}
}

func (r *heldRepository) List(ctx context.Context, c content.Collection, o content.Order) ([]*content.Item, error) {
	items, err := r.Repository.List(ctx, c, o)
	close(r.listed)
	<-r.release
	return items, err
}

// countingRepository counts List calls to observe cache hits.
type countingRepository struct {
	content.Repository
	lists int
}

func (r *countingRepository) List(ctx context.Context, c content.Collection, o content.Order) ([]*content.Item, error) {
	r.lists++
	return r.Repository.List(ctx, c, o)
}

func newTestService(t *testing.T) (Service, content.Service, *countingRepository) {
	t.Helper()
	repo := &countingRepository{Repository: content.NewMemoryRepository()}

	var portalService Service
	invalidate := func(ctx context.Context, c content.Collection) { portalService.Invalidate(ctx, c) }

	contentService := content.NewService(repo, 0, invalidate)
	portalService = NewService(contentService, cache.NewMemoryCache(), time.Minute)
	return portalService, contentService, repo
}

func createNews(t *testing.T, svc content.Service, title string) *content.Item {
	t.Helper()
	it, err := svc.Create(context.Background(), content.News, content.Fields{
		Title: title, Excerpt: "e", Content: "c", Author: "Kagawad",
	})
	require.NoError(t, err)
	return it
}

func createEvent(t *testing.T, svc content.Service, title string, at time.Time) *content.Item {
	t.Helper()
	it, err := svc.Create(context.Background(), content.Events, content.Fields{
		Title: title, Excerpt: "e", Content: "c", Date: &at,
	})
	require.NoError(t, err)
	return it
}

func TestSearchNews(t *testing.T) {
	ctx := context.Background()
	portalService, contentService, _ := newTestService(t)

	for i := 1; i <= 8; i++ {
		createNews(t, contentService, fmt.Sprintf("Barangay Update %d", i))
	}
	createNews(t, contentService, "Clean-up Drive")

	t.Run("Paginates Six Per Page", func(t *testing.T) {
		page, err := portalService.SearchNews(ctx, NewsQuery{Page: 1})
		require.NoError(t, err)
		assert.Len(t, page.Items, NewsPageSize)
		assert.Equal(t, 9, page.Total)
		assert.Equal(t, 2, page.TotalPages)

		page, err = portalService.SearchNews(ctx, NewsQuery{Page: 2})
		require.NoError(t, err)
		assert.Len(t, page.Items, 3)
	})

	t.Run("Search Is Case Insensitive On Title", func(t *testing.T) {
		page, err := portalService.SearchNews(ctx, NewsQuery{Search: "CLEAN"})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Clean-up Drive", page.Items[0].Title)
	})

	t.Run("Page Is Clamped", func(t *testing.T) {
		page, err := portalService.SearchNews(ctx, NewsQuery{Page: 99})
		require.NoError(t, err)
		assert.Equal(t, 2, page.Page)

		page, err = portalService.SearchNews(ctx, NewsQuery{Search: "nothing matches", Page: 3})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Empty(t, page.Items)
	})
}

func TestListEvents(t *testing.T) {
	ctx := context.Background()
	portalService, contentService, _ := newTestService(t)

	now := time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC)
	createEvent(t, contentService, "Past", time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC))
	createEvent(t, contentService, "Fiesta", time.Date(2025, 9, 15, 9, 0, 0, 0, time.UTC))
	createEvent(t, contentService, "Assembly", time.Date(2025, 9, 12, 9, 0, 0, 0, time.UTC))
	createEvent(t, contentService, "Christmas", time.Date(2025, 12, 20, 18, 0, 0, 0, time.UTC))

	t.Run("Upcoming Events Of Current Month In Date Order", func(t *testing.T) {
		listing, err := portalService.ListEvents(ctx, EventQuery{Now: now})
		require.NoError(t, err)
		assert.Equal(t, time.September, listing.Month)
		assert.Equal(t, 2025, listing.Year)

		require.Len(t, listing.Items, 2)
		assert.Equal(t, "Assembly", listing.Items[0].Title)
		assert.Equal(t, "Fiesta", listing.Items[1].Title)
		assert.Equal(t, []time.Month{time.September, time.December}, listing.Months)
	})

	t.Run("Explicit Month", func(t *testing.T) {
		listing, err := portalService.ListEvents(ctx, EventQuery{Month: time.December, Now: now})
		require.NoError(t, err)
		require.Len(t, listing.Items, 1)
		assert.Equal(t, "Christmas", listing.Items[0].Title)
	})
}

func TestListingCache(t *testing.T) {
	ctx := context.Background()
	portalService, contentService, repo := newTestService(t)

	_, err := portalService.ListServices(ctx)
	require.NoError(t, err)
	_, err = portalService.ListServices(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.lists, "second read served from cache")

	_, err = contentService.Create(ctx, content.Services, content.Fields{Title: "t", Excerpt: "e", Content: "c"})
	require.NoError(t, err)

	items, err := portalService.ListServices(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1, "writes invalidate the cached listing")
	assert.Equal(t, 2, repo.lists)
}

func TestHighlights(t *testing.T) {
	ctx := context.Background()
	portalService, contentService, repo := newTestService(t)
	now := time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC)

	for i := 1; i <= 5; i++ {
		createNews(t, contentService, fmt.Sprintf("Advisory %d", i))
	}
	createEvent(t, contentService, "Past", time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC))
	for _, day := range []int{28, 12, 20, 15} {
		createEvent(t, contentService, fmt.Sprintf("Day %d", day), time.Date(2025, 9, day, 9, 0, 0, 0, time.UTC))
	}
	for i := 1; i <= 2; i++ {
		_, err := contentService.Create(ctx, content.Services, content.Fields{
			Title: fmt.Sprintf("Service %d", i), Excerpt: "e", Content: "c",
		})
		require.NoError(t, err)
	}

	hl, err := portalService.Highlights(ctx, now)
	require.NoError(t, err)
	assert.Len(t, hl.News, HighlightsSize)
	assert.Len(t, hl.Services, 2)

	titles := make([]string, len(hl.Events))
	for i, it := range hl.Events {
		titles[i] = it.Title
	}
	assert.Equal(t, []string{"Day 12", "Day 15", "Day 20"}, titles, "next upcoming events by date")

	lists := repo.lists
	_, err = portalService.Highlights(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, lists, repo.lists, "served from the listing cache")
}

func TestListingCacheWriteDuringRead(t *testing.T) {
	ctx := context.Background()
	held := &heldRepository{
		Repository: content.NewMemoryRepository(),
		listed:     make(chan struct{}),
		release:    make(chan struct{}),
	}

	var portalService Service
	invalidate := func(ctx context.Context, c content.Collection) { portalService.Invalidate(ctx, c) }
	contentService := content.NewService(held, 0, invalidate)
	portalService = NewService(contentService, cache.NewMemoryCache(), time.Minute)

	done := make(chan error, 1)
	go func() {
		_, err := portalService.ListServices(ctx)
		done <- err
	}()

	// The write lands after the read took its snapshot.
	<-held.listed
	_, err := contentService.Create(ctx, content.Services, content.Fields{Title: "t", Excerpt: "e", Content: "c"})
	require.NoError(t, err)
	close(held.release)
	require.NoError(t, <-done)

	exists, err := portalService.(*service).cache.Exists(ctx, listKey(content.Services))
	require.NoError(t, err)
	assert.False(t, exists, "listing read before the write is not cached")
}
