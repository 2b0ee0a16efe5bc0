// Package dbtest opens throwaway databases for package tests.
package dbtest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/evcharger-search/evcharger-search/internal/platform/db"
)

// NewSQLite returns an in-memory SQLite database with the application schema.
// It is closed when the test finishes.
func NewSQLite(t testing.TB) *sql.DB {
	t.Helper()
	ctx := context.Background()
	conn, err := db.NewSQLite(ctx, db.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.EnsureSQLiteSchema(ctx, conn))
	return conn
}
