package operator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines methods for accessing operator accounts.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*Operator, error)
	GetByID(ctx context.Context, id string) (*Operator, error)
	Create(ctx context.Context, op *Operator) error
	UpdateLastLogin(ctx context.Context, id string, t time.Time) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const selectOperator = `
	SELECT id, email, password_hash, display_name, created_at, last_login_at, is_active
	FROM public.operators
`

func scanOperator(row pgx.Row) (*Operator, error) {
	var op Operator
	if err := row.Scan(
		&op.ID,
		&op.Email,
		&op.PasswordHash,
		&op.DisplayName,
		&op.CreatedAt,
		&op.LastLoginAt,
		&op.IsActive,
	); err != nil {
		return nil, err
	}
	return &op, nil
}

func (r *pgxRepository) GetByEmail(ctx context.Context, email string) (*Operator, error) {
	op, err := scanOperator(r.pool.QueryRow(ctx, selectOperator+" WHERE email = $1", email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("GetByEmail query failed: %w", err)
	}
	return op, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Operator, error) {
	op, err := scanOperator(r.pool.QueryRow(ctx, selectOperator+" WHERE id = $1", id))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.Is(err, pgx.ErrNoRows) ||
			(errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InvalidTextRepresentation) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("GetByID query failed: %w", err)
	}
	return op, nil
}

func (r *pgxRepository) Create(ctx context.Context, op *Operator) error {
	const query = `
		INSERT INTO public.operators (email, password_hash, display_name, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	if err := r.pool.QueryRow(
		ctx,
		query,
		op.Email,
		op.PasswordHash,
		op.DisplayName,
		op.IsActive,
	).Scan(&op.ID, &op.CreatedAt); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrEmailAlreadyUsed
		}
		return fmt.Errorf("create operator failed: %w", err)
	}

	return nil
}

func (r *pgxRepository) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	const query = `
		UPDATE public.operators
		SET last_login_at = $1
		WHERE id = $2
	`

	ct, err := r.pool.Exec(ctx, query, t, id)
	if err != nil {
		return fmt.Errorf("UpdateLastLogin failed: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
