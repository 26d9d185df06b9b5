package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is a CRUD store over the three content collections.
type Repository interface {
	// List returns every item of c sorted by order. An empty collection
	// yields an empty slice, not an error.
	List(ctx context.Context, c Collection, order Order) ([]*Item, error)
	Get(ctx context.Context, c Collection, id string) (*Item, error)
	// Create stores a new item and returns its id. The store assigns the id
	// and stamps CreatedAt and UpdatedAt with the same instant.
	Create(ctx context.Context, c Collection, f Fields) (string, error)
	// Update applies p to the item and refreshes UpdatedAt. CreatedAt is
	// never touched. Returns ErrNotFound if the id does not exist.
	Update(ctx context.Context, c Collection, id string, p Patch) error
	// Delete removes the item. Deleting a missing id returns ErrNotFound.
	Delete(ctx context.Context, c Collection, id string) error
}

// schema describes how a collection maps onto its table.
type schema struct {
	table   string
	columns []string
}

var commonColumns = []string{"id", "title", "excerpt", "content", "created_at", "updated_at"}

var schemas = map[Collection]schema{
	News:     {table: "public.news", columns: []string{"image_url", "author"}},
	Events:   {table: "public.events", columns: []string{"image_url", "date", "venue"}},
	Services: {table: "public.services", columns: []string{"requirements"}},
}

var orderColumns = map[OrderField]string{
	FieldCreatedAt: "created_at",
	FieldUpdatedAt: "updated_at",
	FieldDate:      "date",
	FieldTitle:     "title",
}

func schemaFor(c Collection) (schema, error) {
	s, ok := schemas[c]
	if !ok {
		return schema{}, fmt.Errorf("%w: %q", ErrUnknownCollection, c)
	}
	return s, nil
}

func (s schema) selectColumns() []string {
	return append(append([]string{}, commonColumns...), s.columns...)
}

// scanTargets returns the scan destinations matching selectColumns.
func (s schema) scanTargets(it *Item) []any {
	dest := []any{&it.ID, &it.Title, &it.Excerpt, &it.Content, &it.CreatedAt, &it.UpdatedAt}
	for _, col := range s.columns {
		switch col {
		case "image_url":
			dest = append(dest, &it.ImageURL)
		case "author":
			dest = append(dest, &it.Author)
		case "date":
			dest = append(dest, &it.Date)
		case "venue":
			dest = append(dest, &it.Venue)
		case "requirements":
			dest = append(dest, &it.Requirements)
		}
	}
	return dest
}

// values returns the collection-specific column values of f.
func (s schema) values(f Fields) map[string]any {
	vals := map[string]any{
		"title":   f.Title,
		"excerpt": f.Excerpt,
		"content": f.Content,
	}
	for _, col := range s.columns {
		switch col {
		case "image_url":
			vals[col] = f.ImageURL
		case "author":
			vals[col] = f.Author
		case "date":
			vals[col] = f.Date
		case "venue":
			vals[col] = f.Venue
		case "requirements":
			vals[col] = f.Requirements
		}
	}
	return vals
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a Repository backed by one Postgres table per collection.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) List(ctx context.Context, c Collection, order Order) ([]*Item, error) {
	s, err := schemaFor(c)
	if err != nil {
		return nil, err
	}
	if !order.Supports(c) {
		return nil, fmt.Errorf("%w: %s on %s", ErrInvalidOrder, order, c)
	}

	dir := "ASC"
	if order.Desc {
		dir = "DESC"
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(s.selectColumns()...).
		From(s.table).
		OrderBy(orderColumns[order.Field]+" "+dir, "id "+dir).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list %s query failed: %w", c, err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, backendError("list "+string(c), err)
	}
	defer rows.Close()

	result := make([]*Item, 0)
	for rows.Next() {
		it := &Item{Collection: c}
		if err := rows.Scan(s.scanTargets(it)...); err != nil {
			return nil, backendError("scan "+string(c), err)
		}
		result = append(result, it)
	}
	if err := rows.Err(); err != nil {
		return nil, backendError("list "+string(c), err)
	}

	return result, nil
}

func (r *pgxRepository) Get(ctx context.Context, c Collection, id string) (*Item, error) {
	s, err := schemaFor(c)
	if err != nil {
		return nil, err
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(s.selectColumns()...).
		From(s.table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get %s query failed: %w", c, err)
	}

	it := &Item{Collection: c}
	if err := r.pool.QueryRow(ctx, query, args...).Scan(s.scanTargets(it)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isMalformedID(err) {
			return nil, ErrNotFound
		}
		return nil, backendError("get "+string(c), err)
	}
	return it, nil
}

func (r *pgxRepository) Create(ctx context.Context, c Collection, f Fields) (string, error) {
	s, err := schemaFor(c)
	if err != nil {
		return "", err
	}

	// Both timestamps default to now(), which is fixed for the transaction,
	// so a fresh row always has created_at = updated_at.
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert(s.table).
		SetMap(s.values(f.Normalize(c))).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build create %s query failed: %w", c, err)
	}

	var id string
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return "", backendError("create "+string(c), err)
	}
	return id, nil
}

func (r *pgxRepository) Update(ctx context.Context, c Collection, id string, p Patch) error {
	s, err := schemaFor(c)
	if err != nil {
		return err
	}

	// Normalizing a fully-applied copy gives the cleaned value of every
	// field the patch touches.
	clean := p.Apply(Fields{}).Normalize(c)
	all := s.values(clean)
	set := map[string]any{}
	touched := map[string]bool{
		"title":        p.Title != nil,
		"excerpt":      p.Excerpt != nil,
		"content":      p.Content != nil,
		"image_url":    p.ImageURL != nil,
		"author":       p.Author != nil,
		"date":         p.Date != nil,
		"venue":        p.Venue != nil,
		"requirements": p.Requirements != nil,
	}
	for col, v := range all {
		if touched[col] {
			set[col] = v
		}
	}
	set["updated_at"] = squirrel.Expr("GREATEST(now(), updated_at)")

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update(s.table).
		SetMap(set).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update %s query failed: %w", c, err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if isMalformedID(err) {
			return ErrNotFound
		}
		return backendError("update "+string(c), err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, c Collection, id string) error {
	s, err := schemaFor(c)
	if err != nil {
		return err
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete(s.table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete %s query failed: %w", c, err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if isMalformedID(err) {
			return ErrNotFound
		}
		return backendError("delete "+string(c), err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// isMalformedID reports whether Postgres rejected the id as an invalid uuid.
func isMalformedID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InvalidTextRepresentation
}

func backendError(op string, err error) error {
	return fmt.Errorf("%s failed: %w: %w", op, ErrBackend, err)
}
