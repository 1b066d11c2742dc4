package migrations_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dongjun6343/query/db/dialect"
	"github.com/dongjun6343/query/migrations"
)

func TestMigrator(t *testing.T) {
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	ctx := context.Background()

	m, err := migrations.New(db.DB, dialect.SQLite{})
	require.NoError(t, err)

	applied, err := m.Up(ctx)
	require.NoError(t, err)
	require.Len(t, applied, 1)
	assert.EqualValues(t, 1, applied[0].Source.Version)

	status, err := m.Status(ctx)
	require.NoError(t, err)
	require.Len(t, status, 1)
	assert.Equal(t, goose.StateApplied, status[0].State)

	_, err = db.ExecContext(ctx, "INSERT INTO team (name) VALUES (?)", "teamA")
	require.NoError(t, err)

	_, err = m.Down(ctx)
	require.NoError(t, err)

	var tables int
	require.NoError(t, db.GetContext(ctx, &tables, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('team', 'member')"))
	assert.Zero(t, tables)
}

func TestEveryDialectHasMigrations(t *testing.T) {
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	for _, d := range []dialect.Dialect{dialect.SQLite{}, dialect.MySQL{}, dialect.Postgres{}} {
		t.Run(d.Name(), func(t *testing.T) {
			_, err := migrations.New(db.DB, d)
			assert.NoError(t, err)
		})
	}
}
