package content

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryRepository struct {
	mu    sync.RWMutex
	items map[Collection]map[string]*Item
	now   func() time.Time
}

// NewMemoryRepository returns a Repository that keeps items in process memory.
// It is used for local development and tests.
func NewMemoryRepository() Repository {
	return NewMemoryRepositoryWithClock(time.Now)
}

// NewMemoryRepositoryWithClock is NewMemoryRepository with an injectable clock.
func NewMemoryRepositoryWithClock(now func() time.Time) Repository {
	items := make(map[Collection]map[string]*Item, len(Collections))
	for _, c := range Collections {
		items[c] = make(map[string]*Item)
	}
	return &memoryRepository{items: items, now: now}
}

func (r *memoryRepository) List(ctx context.Context, c Collection, order Order) ([]*Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, backendError("list "+string(c), err)
	}
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, c)
	}
	if !order.Supports(c) {
		return nil, fmt.Errorf("%w: %s on %s", ErrInvalidOrder, order, c)
	}

	r.mu.RLock()
	result := make([]*Item, 0, len(r.items[c]))
	for _, it := range r.items[c] {
		result = append(result, cloneItem(it))
	}
	r.mu.RUnlock()

	sort.SliceStable(result, func(i, j int) bool {
		cmp := compareBy(order.Field, result[i], result[j])
		if cmp == 0 {
			cmp = strings.Compare(result[i].ID, result[j].ID)
		}
		if order.Desc {
			return cmp > 0
		}
		return cmp < 0
	})
	return result, nil
}

func (r *memoryRepository) Get(ctx context.Context, c Collection, id string) (*Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, backendError("get "+string(c), err)
	}
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, c)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	it, ok := r.items[c][id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneItem(it), nil
}

func (r *memoryRepository) Create(ctx context.Context, c Collection, f Fields) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", backendError("create "+string(c), err)
	}
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCollection, c)
	}

	clean := f.Normalize(c)
	now := r.now().UTC()
	it := &Item{
		ID:           uuid.NewString(),
		Collection:   c,
		Title:        clean.Title,
		Excerpt:      clean.Excerpt,
		Content:      clean.Content,
		ImageURL:     clean.ImageURL,
		Author:       clean.Author,
		Date:         clean.Date,
		Venue:        clean.Venue,
		Requirements: clean.Requirements,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	r.mu.Lock()
	r.items[c][it.ID] = it
	r.mu.Unlock()
	return it.ID, nil
}

func (r *memoryRepository) Update(ctx context.Context, c Collection, id string, p Patch) error {
	if err := ctx.Err(); err != nil {
		return backendError("update "+string(c), err)
	}
	if !c.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCollection, c)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[c][id]
	if !ok {
		return ErrNotFound
	}

	clean := p.Apply(it.Fields()).Normalize(c)
	it.Title = clean.Title
	it.Excerpt = clean.Excerpt
	it.Content = clean.Content
	it.ImageURL = clean.ImageURL
	it.Author = clean.Author
	it.Date = clean.Date
	it.Venue = clean.Venue
	it.Requirements = clean.Requirements

	if now := r.now().UTC(); now.After(it.UpdatedAt) {
		it.UpdatedAt = now
	}
	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, c Collection, id string) error {
	if err := ctx.Err(); err != nil {
		return backendError("delete "+string(c), err)
	}
	if !c.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCollection, c)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[c][id]; !ok {
		return ErrNotFound
	}
	delete(r.items[c], id)
	return nil
}

func compareBy(field OrderField, a, b *Item) int {
	switch field {
	case FieldCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case FieldUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case FieldTitle:
		return strings.Compare(a.Title, b.Title)
	case FieldDate:
		switch {
		case a.Date == nil && b.Date == nil:
			return 0
		case a.Date == nil:
			return 1
		case b.Date == nil:
			return -1
		}
		return a.Date.Compare(*b.Date)
	}
	return 0
}

func cloneItem(it *Item) *Item {
	cp := *it
	if it.Date != nil {
		d := *it.Date
		cp.Date = &d
	}
	if it.Requirements != nil {
		cp.Requirements = append([]string{}, it.Requirements...)
	}
	return &cp
}
