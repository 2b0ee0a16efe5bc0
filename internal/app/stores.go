package app

import (
	"context"
	"fmt"

	"github.com/evcharger-search/evcharger-search/internal/auth"
	"github.com/evcharger-search/evcharger-search/internal/platform/db"
	"github.com/evcharger-search/evcharger-search/internal/prices"
	"github.com/evcharger-search/evcharger-search/internal/searches"
)

// Stores bundles the repositories of the configured database driver.
type Stores struct {
	Prices   prices.Repository
	Auth     auth.Repository
	Searches searches.Repository

	close func()
}

// Close releases the underlying database handle.
func (s *Stores) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}

// OpenStores connects to the configured database, creates missing tables
// and returns the repositories bound to it.
func OpenStores(ctx context.Context, cfg *Config) (*Stores, error) {
	switch cfg.DBDriver {
	case DriverPostgres:
		pool, err := db.NewPostgres(ctx, cfg.PGDSN)
		if err != nil {
			return nil, err
		}
		if err := db.EnsurePostgresSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &Stores{
			Prices:   prices.NewPGRepository(pool),
			Auth:     auth.NewRepository(pool),
			Searches: searches.NewPGRepository(pool),
			close:    pool.Close,
		}, nil
	case DriverSQLite:
		conn, err := db.NewSQLite(ctx, cfg.DBFile)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureSQLiteSchema(ctx, conn); err != nil {
			_ = conn.Close()
			return nil, err
		}
		return &Stores{
			Prices:   prices.NewSQLiteRepository(conn),
			Auth:     auth.NewSQLiteRepository(conn),
			Searches: searches.NewSQLiteRepository(conn),
			close:    func() { _ = conn.Close() },
		}, nil
	default:
		return nil, fmt.Errorf("app: unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}
