package portal

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/doshub/portal-backend/internal/content"
	"github.com/doshub/portal-backend/internal/pkg/cache"
)

// DefaultCacheTTL bounds how long a cached listing is served.
const DefaultCacheTTL = time.Minute

// Service serves the read-only public listings.
type Service interface {
	SearchNews(ctx context.Context, q NewsQuery) (*NewsPage, error)
	ListEvents(ctx context.Context, q EventQuery) (*EventListing, error)
	ListServices(ctx context.Context) ([]*content.Item, error)
	Highlights(ctx context.Context, now time.Time) (*Highlights, error)
	Get(ctx context.Context, c content.Collection, id string) (*content.Item, error)

	// Invalidate drops the cached listing of c. It has the content.ChangeHook
	// signature so it can be registered on the content service.
	Invalidate(ctx context.Context, c content.Collection)
}

type service struct {
	content content.Service
	cache   cache.Cache
	ttl     time.Duration

	// generations counts invalidations per collection. A listing read
	// while its collection was invalidated is not cached.
	mu          sync.Mutex
	generations map[content.Collection]uint64
}

// NewService creates a portal Service. A nil cache disables caching.
func NewService(contentService content.Service, c cache.Cache, ttl time.Duration) Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &service{
		content:     contentService,
		cache:       c,
		ttl:         ttl,
		generations: make(map[content.Collection]uint64),
	}
}

func listKey(c content.Collection) string {
	return "portal:list:" + string(c)
}

func (s *service) generation(c content.Collection) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[c]
}

// list returns the canonical listing of c, from the cache when possible.
// Cache failures are logged and fall through to the content service.
// Invalidation is tracked in process, so with several server instances
// sharing Redis a listing can still be stale for up to the cache TTL.
func (s *service) list(ctx context.Context, c content.Collection) ([]*content.Item, error) {
	if s.cache != nil {
		var cached []*content.Item
		err := s.cache.Get(ctx, listKey(c), &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			log.Warn().Err(err).Str("collection", string(c)).Msg("listing cache read failed")
		}
	}

	gen := s.generation(c)
	items, err := s.content.List(ctx, c, c.CanonicalOrder())
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.generation(c) == gen {
		if err := s.cache.Set(ctx, listKey(c), items, s.ttl); err != nil {
			log.Warn().Err(err).Str("collection", string(c)).Msg("listing cache write failed")
		}
		// A write that landed during Set must not be shadowed.
		if s.generation(c) != gen {
			s.drop(ctx, c)
		}
	}
	return items, nil
}

func (s *service) SearchNews(ctx context.Context, q NewsQuery) (*NewsPage, error) {
	all, err := s.list(ctx, content.News)
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(strings.TrimSpace(q.Search))
	matched := make([]*content.Item, 0, len(all))
	for _, it := range all {
		if term == "" || strings.Contains(strings.ToLower(it.Title), term) {
			matched = append(matched, it)
		}
	}

	size := q.PageSize
	if size <= 0 {
		size = NewsPageSize
	}
	total := len(matched)
	totalPages := (total + size - 1) / size

	page := q.Page
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := min((page-1)*size, total)
	end := min(start+size, total)

	return &NewsPage{
		Items:      matched[start:end],
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

func (s *service) ListEvents(ctx context.Context, q EventQuery) (*EventListing, error) {
	all, err := s.list(ctx, content.Events)
	if err != nil {
		return nil, err
	}

	loc := q.Location
	if loc == nil {
		loc = time.UTC
	}
	now := q.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.In(loc)

	month, year := q.Month, q.Year
	if month == 0 {
		month = now.Month()
	}
	if year == 0 {
		year = now.Year()
	}

	seen := make(map[time.Month]bool)
	items := make([]*content.Item, 0)
	for _, it := range all {
		if it.Date == nil {
			continue
		}
		d := it.Date.In(loc)
		seen[d.Month()] = true

		if d.Month() == month && d.Year() == year && !d.Before(now) {
			items = append(items, it)
		}
	}

	months := make([]time.Month, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })

	return &EventListing{Items: items, Month: month, Year: year, Months: months}, nil
}

func (s *service) ListServices(ctx context.Context) ([]*content.Item, error) {
	return s.list(ctx, content.Services)
}

func (s *service) Highlights(ctx context.Context, now time.Time) (*Highlights, error) {
	news, err := s.list(ctx, content.News)
	if err != nil {
		return nil, err
	}
	events, err := s.list(ctx, content.Events)
	if err != nil {
		return nil, err
	}
	services, err := s.list(ctx, content.Services)
	if err != nil {
		return nil, err
	}

	if now.IsZero() {
		now = time.Now()
	}
	upcoming := make([]*content.Item, 0, HighlightsSize)
	for _, it := range events {
		if len(upcoming) == HighlightsSize {
			break
		}
		if it.Date != nil && !it.Date.Before(now) {
			upcoming = append(upcoming, it)
		}
	}

	return &Highlights{
		News:     news[:min(HighlightsSize, len(news))],
		Events:   upcoming,
		Services: services[:min(HighlightsSize, len(services))],
	}, nil
}

func (s *service) Get(ctx context.Context, c content.Collection, id string) (*content.Item, error) {
	return s.content.Get(ctx, c, id)
}

func (s *service) Invalidate(ctx context.Context, c content.Collection) {
	s.mu.Lock()
	s.generations[c]++
	s.mu.Unlock()
	s.drop(ctx, c)
}

func (s *service) drop(ctx context.Context, c content.Collection) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, listKey(c)); err != nil {
		log.Warn().Err(err).Str("collection", string(c)).Msg("listing cache invalidation failed")
	}
}
