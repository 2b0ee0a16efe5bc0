package prices

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/evcharger-search/evcharger-search/internal/platform/db"
)

// SQLiteRepository implements Repository on top of an SQLite database file.
type SQLiteRepository struct {
	conn  *sql.DB
	clock func() time.Time
}

// NewSQLiteRepository constructs an SQLite repository.
func NewSQLiteRepository(conn *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{conn: conn, clock: func() time.Time { return time.Now().UTC() }}
}

// List returns the whole catalog ordered by name.
func (r *SQLiteRepository) List(ctx context.Context) ([]Price, error) {
	rows, err := r.conn.QueryContext(ctx, `SELECT `+priceColumns+` FROM prices ORDER BY name`)
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
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (Price, error) {
	return r.queryOne(ctx, `SELECT `+priceColumns+` FROM prices WHERE id = ?`, id)
}

// FindByName fetches a record by its exact name.
func (r *SQLiteRepository) FindByName(ctx context.Context, name string) (Price, error) {
	return r.queryOne(ctx, `SELECT `+priceColumns+` FROM prices WHERE name = ?`, name)
}

// Create inserts a new record.
func (r *SQLiteRepository) Create(ctx context.Context, in Input) (Price, error) {
	now := r.clock()
	res, err := r.conn.ExecContext(ctx,
		`INSERT INTO prices (name, ac_price, dc_price, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		in.Name, in.ACPrice, in.DCPrice, now, now)
	if err != nil {
		return Price{}, mapSQLiteError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Price{}, fmt.Errorf("prices: last insert id: %w", err)
	}
	return r.Get(ctx, id)
}

// Update replaces name and prices of an existing record.
func (r *SQLiteRepository) Update(ctx context.Context, id int64, in Input) (Price, error) {
	res, err := r.conn.ExecContext(ctx,
		`UPDATE prices SET name = ?, ac_price = ?, dc_price = ?, updated_at = ? WHERE id = ?`,
		in.Name, in.ACPrice, in.DCPrice, r.clock(), id)
	if err != nil {
		return Price{}, mapSQLiteError(err)
	}
	if err := requireAffected(res); err != nil {
		return Price{}, err
	}
	return r.Get(ctx, id)
}

// UpdatePrices overwrites both prices and refreshes updated_at.
func (r *SQLiteRepository) UpdatePrices(ctx context.Context, id int64, ac, dc *float64) error {
	res, err := r.conn.ExecContext(ctx,
		`UPDATE prices SET ac_price = ?, dc_price = ?, updated_at = ? WHERE id = ?`,
		ac, dc, r.clock(), id)
	if err != nil {
		return fmt.Errorf("prices: update prices: %w", err)
	}
	return requireAffected(res)
}

// Delete removes a record.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.conn.ExecContext(ctx, `DELETE FROM prices WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("prices: delete: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) queryOne(ctx context.Context, query string, args ...any) (Price, error) {
	var p Price
	err := r.conn.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.Name, &p.ACPrice, &p.DCPrice, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Price{}, ErrNotFound
		}
		return Price{}, err
	}
	return p, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("prices: rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func mapSQLiteError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return err
	case db.IsSQLiteUniqueViolation(err):
		return ErrDuplicateName
	default:
		return fmt.Errorf("prices: write: %w", err)
	}
}

var _ Repository = (*SQLiteRepository)(nil)
