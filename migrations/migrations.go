// Package migrations holds the schema of the example model, one directory of
// goose SQL migrations per dialect.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/dongjun6343/query/db/dialect"
)

//go:embed sql
var embedMigrations embed.FS

// Migrator applies the migrations of one dialect.
type Migrator struct {
	provider *goose.Provider
}

func New(db *sql.DB, d dialect.Dialect) (*Migrator, error) {
	fsys, err := fs.Sub(embedMigrations, "sql/"+d.Name())
	if err != nil {
		return nil, errors.Wrapf(err, "migrations for %s", d.Name())
	}

	provider, err := goose.NewProvider(goose.Dialect(d.Name()), db, fsys)
	if err != nil {
		return nil, errors.Wrap(err, "create migration provider")
	}
	return &Migrator{provider: provider}, nil
}

func (m *Migrator) Up(ctx context.Context) ([]*goose.MigrationResult, error) {
	res, err := m.provider.Up(ctx)
	return res, errors.Wrap(err, "migrate up")
}

// Down rolls back the most recent migration.
func (m *Migrator) Down(ctx context.Context) (*goose.MigrationResult, error) {
	res, err := m.provider.Down(ctx)
	return res, errors.Wrap(err, "migrate down")
}

func (m *Migrator) Status(ctx context.Context) ([]*goose.MigrationStatus, error) {
	res, err := m.provider.Status(ctx)
	return res, errors.Wrap(err, "migration status")
}

// Up applies all pending migrations to db.
func Up(ctx context.Context, db *sql.DB, d dialect.Dialect) error {
	m, err := New(db, d)
	if err != nil {
		return err
	}
	_, err = m.Up(ctx)
	return err
}
