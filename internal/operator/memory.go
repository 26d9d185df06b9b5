package operator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*Operator
	byEmail map[string]string
}

// NewMemoryRepository keeps operator accounts in process memory.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		byID:    make(map[string]*Operator),
		byEmail: make(map[string]string),
	}
}

func (r *memoryRepository) GetByEmail(_ context.Context, email string) (*Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r.byID[id]
	return &cp, nil
}

func (r *memoryRepository) GetByID(_ context.Context, id string) (*Operator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	op, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *op
	return &cp, nil
}

func (r *memoryRepository) Create(_ context.Context, op *Operator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[op.Email]; ok {
		return ErrEmailAlreadyUsed
	}
	op.ID = uuid.NewString()
	op.CreatedAt = time.Now().UTC()

	cp := *op
	r.byID[op.ID] = &cp
	r.byEmail[op.Email] = op.ID
	return nil
}

func (r *memoryRepository) UpdateLastLogin(_ context.Context, id string, t time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	op, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	op.LastLoginAt = &t
	return nil
}
