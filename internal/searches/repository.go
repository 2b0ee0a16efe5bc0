package searches

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evcharger-search/evcharger-search/internal/platform/db"
)

// Repository persists saved searches.
type Repository interface {
	Create(ctx context.Context, shortID string, criteria []byte, visibility bool) (Search, error)
	Get(ctx context.Context, shortID string) (Search, error)
	List(ctx context.Context) ([]Search, error)
	Delete(ctx context.Context, shortID string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository constructs a PostgreSQL repository.
func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Create stores a search under shortID.
func (r *PGRepository) Create(ctx context.Context, shortID string, criteria []byte, visibility bool) (Search, error) {
	var s Search
	var raw string
	err := r.pool.QueryRow(ctx,
		`INSERT INTO searches (short_id, criteria, visibility) VALUES ($1, $2, $3)
		 RETURNING id, short_id, criteria, visibility, created_at`,
		shortID, string(criteria), visibility).Scan(&s.ID, &s.ShortID, &raw, &s.Visibility, &s.CreatedAt)
	if err != nil {
		if db.IsPostgresUniqueViolation(err) {
			return Search{}, errDuplicateShortID
		}
		return Search{}, fmt.Errorf("searches: create: %w", err)
	}
	s.Criteria = []byte(raw)
	return s, nil
}

// Get fetches a search by short id.
func (r *PGRepository) Get(ctx context.Context, shortID string) (Search, error) {
	var s Search
	var raw string
	err := r.pool.QueryRow(ctx,
		`SELECT id, short_id, criteria, visibility, created_at FROM searches WHERE short_id = $1`, shortID).
		Scan(&s.ID, &s.ShortID, &raw, &s.Visibility, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Search{}, ErrNotFound
		}
		return Search{}, fmt.Errorf("searches: get: %w", err)
	}
	s.Criteria = []byte(raw)
	return s, nil
}

// List returns every saved search, newest first.
func (r *PGRepository) List(ctx context.Context) ([]Search, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, short_id, criteria, visibility, created_at FROM searches ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("searches: list: %w", err)
	}
	defer rows.Close()

	items := make([]Search, 0)
	for rows.Next() {
		var s Search
		var raw string
		if err := rows.Scan(&s.ID, &s.ShortID, &raw, &s.Visibility, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("searches: scan: %w", err)
		}
		s.Criteria = []byte(raw)
		items = append(items, s)
	}
	return items, rows.Err()
}

// Delete removes a search. Missing ids are not an error.
func (r *PGRepository) Delete(ctx context.Context, shortID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM searches WHERE short_id = $1`, shortID); err != nil {
		return fmt.Errorf("searches: delete: %w", err)
	}
	return nil
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	conn *sql.DB
}

// NewSQLiteRepository constructs an SQLite repository.
func NewSQLiteRepository(conn *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{conn: conn}
}

// Create stores a search under shortID.
func (r *SQLiteRepository) Create(ctx context.Context, shortID string, criteria []byte, visibility bool) (Search, error) {
	now := time.Now().UTC()
	res, err := r.conn.ExecContext(ctx,
		`INSERT INTO searches (short_id, criteria, visibility, created_at) VALUES (?, ?, ?, ?)`,
		shortID, string(criteria), visibility, now)
	if err != nil {
		if db.IsSQLiteUniqueViolation(err) {
			return Search{}, errDuplicateShortID
		}
		return Search{}, fmt.Errorf("searches: create: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Search{}, fmt.Errorf("searches: last insert id: %w", err)
	}
	return Search{ID: id, ShortID: shortID, Criteria: criteria, Visibility: visibility, CreatedAt: now}, nil
}

// Get fetches a search by short id.
func (r *SQLiteRepository) Get(ctx context.Context, shortID string) (Search, error) {
	var s Search
	var raw string
	err := r.conn.QueryRowContext(ctx,
		`SELECT id, short_id, criteria, visibility, created_at FROM searches WHERE short_id = ?`, shortID).
		Scan(&s.ID, &s.ShortID, &raw, &s.Visibility, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Search{}, ErrNotFound
		}
		return Search{}, fmt.Errorf("searches: get: %w", err)
	}
	s.Criteria = []byte(raw)
	return s, nil
}

// List returns every saved search, newest first.
func (r *SQLiteRepository) List(ctx context.Context) ([]Search, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, short_id, criteria, visibility, created_at FROM searches ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("searches: list: %w", err)
	}
	defer rows.Close()

	items := make([]Search, 0)
	for rows.Next() {
		var s Search
		var raw string
		if err := rows.Scan(&s.ID, &s.ShortID, &raw, &s.Visibility, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("searches: scan: %w", err)
		}
		s.Criteria = []byte(raw)
		items = append(items, s)
	}
	return items, rows.Err()
}

// Delete removes a search. Missing ids are not an error.
func (r *SQLiteRepository) Delete(ctx context.Context, shortID string) error {
	if _, err := r.conn.ExecContext(ctx, `DELETE FROM searches WHERE short_id = ?`, shortID); err != nil {
		return fmt.Errorf("searches: delete: %w", err)
	}
	return nil
}

var (
	_ Repository = (*PGRepository)(nil)
	_ Repository = (*SQLiteRepository)(nil)
)
