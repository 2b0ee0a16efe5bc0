package prices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evcharger-search/evcharger-search/internal/platform/db"
)

// Repository defines persistence operations for the price catalog.
type Repository interface {
	List(ctx context.Context) ([]Price, error)
	Get(ctx context.Context, id int64) (Price, error)
	FindByName(ctx context.Context, name string) (Price, error)
	Create(ctx context.Context, in Input) (Price, error)
	Update(ctx context.Context, id int64, in Input) (Price, error)
	UpdatePrices(ctx context.Context, id int64, ac, dc *float64) error
	Delete(ctx context.Context, id int64) error
}

const priceColumns = `id, name, ac_price, dc_price, created_at, updated_at`

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool  *pgxpool.Pool
	clock func() time.Time
}

// NewPGRepository constructs a PostgreSQL repository.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool, clock: func() time.Time { return time.Now().UTC() }}
}

// List returns the whole catalog ordered by name.
func (r *PGRepository) List(ctx context.Context) ([]Price, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+priceColumns+` FROM prices ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("prices: list: %w", err)
	}
	defer rows.Close()

	items := make([]Price, 0)
	for rows.Next() {
		var p Price
		if err := rows.Scan(&p.ID, &p.Name, &p.ACPrice, &p.DCPrice, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("prices: scan: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// Get fetches a record by id.
func (r *PGRepository) Get(ctx context.Context, id int64) (Price, error) {
	return r.queryOne(ctx, `SELECT `+priceColumns+` FROM prices WHERE id = $1`, id)
}

// FindByName fetches a record by its exact name.
func (r *PGRepository) FindByName(ctx context.Context, name string) (Price, error) {
	return r.queryOne(ctx, `SELECT `+priceColumns+` FROM prices WHERE name = $1`, name)
}

// Create inserts a new record.
func (r *PGRepository) Create(ctx context.Context, in Input) (Price, error) {
	now := r.clock()
	p, err := r.queryOne(ctx,
		`INSERT INTO prices (name, ac_price, dc_price, created_at, updated_at) VALUES ($1, $2, $3, $4, $4) RETURNING `+priceColumns,
		in.Name, in.ACPrice, in.DCPrice, now)
	if err != nil {
		return Price{}, mapPGError(err)
	}
	return p, nil
}

// Update replaces name and prices of an existing record.
func (r *PGRepository) Update(ctx context.Context, id int64, in Input) (Price, error) {
	p, err := r.queryOne(ctx,
		`UPDATE prices SET name = $1, ac_price = $2, dc_price = $3, updated_at = $4 WHERE id = $5 RETURNING `+priceColumns,
		in.Name, in.ACPrice, in.DCPrice, r.clock(), id)
	if err != nil {
		return Price{}, mapPGError(err)
	}
	return p, nil
}

// UpdatePrices overwrites both prices and refreshes updated_at.
func (r *PGRepository) UpdatePrices(ctx context.Context, id int64, ac, dc *float64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE prices SET ac_price = $1, dc_price = $2, updated_at = $3 WHERE id = $4`,
		ac, dc, r.clock(), id)
	if err != nil {
		return fmt.Errorf("prices: update prices: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a record.
func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM prices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("prices: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepository) queryOne(ctx context.Context, query string, args ...any) (Price, error) {
	var p Price
	err := r.pool.QueryRow(ctx, query, args...).Scan(&p.ID, &p.Name, &p.ACPrice, &p.DCPrice, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Price{}, ErrNotFound
		}
		return Price{}, err
	}
	return p, nil
}

func mapPGError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return err
	case db.IsPostgresUniqueViolation(err):
		return ErrDuplicateName
	default:
		return fmt.Errorf("prices: write: %w", err)
	}
}

var _ Repository = (*PGRepository)(nil)
