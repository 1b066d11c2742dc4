// Package testdb provides migrated in-memory SQLite databases for tests.
package testdb

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/dongjun6343/query"
	"github.com/dongjun6343/query/db/dialect"
	"github.com/dongjun6343/query/migrations"
)

// New opens a private in-memory database with the schema applied. It is
// closed when the test ends.
func New(t testing.TB, opts ...query.Option) *query.Factory {
	t.Helper()

	db, err := sqlx.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(context.Background(), db.DB, dialect.SQLite{}))

	f, err := query.NewFactory(db, opts...)
	require.NoError(t, err)
	return f
}

// Tx begins a transaction on f that is rolled back when the test ends.
func Tx(t testing.TB, f *query.Factory) *query.Factory {
	t.Helper()

	tx, err := f.Begin(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = tx.Rollback() })

	return tx.Factory
}
