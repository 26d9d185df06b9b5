package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultTimeout bounds every repository call made by the Service.
const DefaultTimeout = 10 * time.Second

// ChangeHook is called after a successful write to a collection.
type ChangeHook func(ctx context.Context, c Collection)

// Service validates writes and bounds repository calls with a timeout.
type Service interface {
	List(ctx context.Context, c Collection, order Order) ([]*Item, error)
	Get(ctx context.Context, c Collection, id string) (*Item, error)
	Create(ctx context.Context, c Collection, f Fields) (*Item, error)
	Update(ctx context.Context, c Collection, id string, p Patch) (*Item, error)
	Delete(ctx context.Context, c Collection, id string) error
}

type service struct {
	repo    Repository
	timeout time.Duration
	hooks   []ChangeHook
}

// NewService creates a content Service. A zero timeout selects DefaultTimeout.
func NewService(repo Repository, timeout time.Duration, hooks ...ChangeHook) Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &service{repo: repo, timeout: timeout, hooks: hooks}
}

func (s *service) List(ctx context.Context, c Collection, order Order) ([]*Item, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	items, err := s.repo.List(ctx, c, order)
	if err != nil {
		return nil, s.failed(ctx, "list", c, err)
	}
	return items, nil
}

func (s *service) Get(ctx context.Context, c Collection, id string) (*Item, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	it, err := s.repo.Get(ctx, c, id)
	if err != nil {
		return nil, s.failed(ctx, "get", c, err)
	}
	return it, nil
}

func (s *service) Create(ctx context.Context, c Collection, f Fields) (*Item, error) {
	if err := f.Validate(c); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	id, err := s.repo.Create(ctx, c, f)
	if err != nil {
		return nil, s.failed(ctx, "create", c, err)
	}

	it, err := s.repo.Get(ctx, c, id)
	if err != nil {
		return nil, s.failed(ctx, "get", c, err)
	}

	s.changed(ctx, c)
	return it, nil
}

func (s *service) Update(ctx context.Context, c Collection, id string, p Patch) (*Item, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	current, err := s.repo.Get(ctx, c, id)
	if err != nil {
		return nil, s.failed(ctx, "get", c, err)
	}

	// Validate the merged result so a patch cannot blank a required field.
	if err := p.Apply(current.Fields()).Validate(c); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, c, id, p); err != nil {
		return nil, s.failed(ctx, "update", c, err)
	}

	it, err := s.repo.Get(ctx, c, id)
	if err != nil {
		return nil, s.failed(ctx, "get", c, err)
	}

	s.changed(ctx, c)
	return it, nil
}

func (s *service) Delete(ctx context.Context, c Collection, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.repo.Delete(ctx, c, id); err != nil {
		return s.failed(ctx, "delete", c, err)
	}

	s.changed(ctx, c)
	return nil
}

// failed normalizes a repository error. Deadline expiry is reported as a
// backend failure; not-found and caller errors pass through.
func (s *service) failed(ctx context.Context, op string, c Collection, err error) error {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrUnknownCollection),
		errors.Is(err, ErrInvalidOrder):
		return err
	case errors.Is(err, ErrBackend):
	case ctx.Err() != nil:
		err = fmt.Errorf("%s %s failed: %w: %w", op, c, ErrBackend, ctx.Err())
	default:
		err = fmt.Errorf("%s %s failed: %w: %w", op, c, ErrBackend, err)
	}

	log.Error().Err(err).Str("collection", string(c)).Str("op", op).Msg("content backend failure")
	return err
}

func (s *service) changed(ctx context.Context, c Collection) {
	for _, hook := range s.hooks {
		hook(ctx, c)
	}
}
