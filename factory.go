// Package query is a typed query builder over database/sql. Queries are
// composed from generated Q-types (see package expr), serialized per dialect
// and executed through an interceptor chain.
//
//	members, err := query.SelectFrom[model.Member](f, qmodel.Member).
//		Where(qmodel.Member.Username.Eq("member1")).
//		Fetch(ctx)
package query

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/dongjun6343/query/db/dialect"
)

type SQLType int

const (
	SQLTypeSelect SQLType = iota
	SQLTypeUpdate
	SQLTypeInsert
	SQLTypeDelete
)

func (t SQLType) String() string {
	switch t {
	case SQLTypeUpdate:
		return "UPDATE"
	case SQLTypeInsert:
		return "INSERT"
	case SQLTypeDelete:
		return "DELETE"
	default:
		return "SELECT"
	}
}

// ExecOption is what interceptors see of a statement.
type ExecOption struct {
	Ctx     context.Context
	SqlStmt string
	Args    []any
	SQLType SQLType
	// Extension carries caller data to custom interceptors, e.g. the object
	// query of a typed query.
	Extension any
}

// Factory creates and runs queries against a database or, when obtained from
// Begin, against one transaction. It holds no per-query state and is safe for
// concurrent use.
type Factory struct {
	db      *sqlx.DB
	tx      *sqlx.Tx
	ext     sqlx.ExtContext
	dialect dialect.Dialect
	chain   *interceptors
}

type Option func(*Factory)

// WithDialect overrides the dialect derived from the driver name.
func WithDialect(d dialect.Dialect) Option {
	return func(f *Factory) {
		f.dialect = d
	}
}

func NewFactory(db *sqlx.DB, opts ...Option) (*Factory, error) {
	f := &Factory{
		db:    db,
		ext:   db,
		chain: &interceptors{},
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.dialect == nil {
		d, err := dialect.ForDriver(db.DriverName())
		if err != nil {
			return nil, err
		}
		f.dialect = d
	}

	return f, nil
}

// Open opens a database and wraps it in a Factory. The driver must be
// registered, mysql always is.
func Open(driverName, dataSourceName string, opts ...Option) (*Factory, error) {
	db, err := sqlx.Open(driverName, dataSourceName)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", driverName)
	}

	f, err := NewFactory(db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return f, nil
}

func (f *Factory) DB() *sqlx.DB { return f.db }

func (f *Factory) Dialect() dialect.Dialect { return f.dialect }

func (f *Factory) Close() error {
	return f.db.Close()
}

// Tx is a factory bound to a transaction.
type Tx struct {
	*Factory
}

func (f *Factory) Begin(ctx context.Context) (*Tx, error) {
	if f.tx != nil {
		return nil, ErrInTransaction
	}

	tx, err := f.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin transaction")
	}

	return &Tx{Factory: &Factory{
		db:      f.db,
		tx:      tx,
		ext:     tx,
		dialect: f.dialect,
		chain:   f.chain,
	}}, nil
}

func (t *Tx) Commit() error {
	return t.tx.Commit()
}

func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// Transactional runs fn in a transaction, committing when it returns nil and
// rolling back when it returns an error or panics.
func (f *Factory) Transactional(ctx context.Context, fn func(tx *Factory) error) (err error) {
	var tx *Tx
	tx, err = f.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		var e error
		if r := recover(); r != nil || err != nil {
			e = tx.Rollback()
			if e == nil && r != nil {
				e = fmt.Errorf("recovered from %v", r)
			}
		} else {
			e = tx.Commit()
		}
		if e != nil {
			err = e
		}
	}()

	return fn(tx.Factory)
}

func (f *Factory) rebind(query string) string {
	return sqlx.Rebind(f.dialect.BindType(), query)
}

func (f *Factory) option(ctx context.Context, sqlType SQLType, query string, args []any) *ExecOption {
	return &ExecOption{
		Ctx:     ctx,
		SqlStmt: f.rebind(query),
		Args:    args,
		SQLType: sqlType,
	}
}

// ExecContext runs a statement written with '?' placeholders.
func (f *Factory) ExecContext(ctx context.Context, sqlType SQLType, query string, args ...any) (sql.Result, error) {
	option := f.option(ctx, sqlType, query, args)
	return Invoke(f, option, func() (sql.Result, error) {
		res, err := f.ext.ExecContext(option.Ctx, option.SqlStmt, option.Args...)
		return res, errors.Wrapf(err, "exec %q", option.SqlStmt)
	})
}

// GetContext scans one row into dest. sql.ErrNoRows is returned unwrapped.
func (f *Factory) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	option := f.option(ctx, SQLTypeSelect, query, args)
	res, err := Invoke(f, option, func() (any, error) {
		err := sqlx.GetContext(option.Ctx, f.ext, dest, option.SqlStmt, option.Args...)
		if errors.Is(err, sql.ErrNoRows) {
			return dest, err
		}
		return dest, errors.Wrapf(err, "get %q", option.SqlStmt)
	})
	if err != nil {
		return err
	}
	return assignResult(dest, res)
}

// SelectContext scans all rows into dest, a pointer to a slice.
func (f *Factory) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	option := f.option(ctx, SQLTypeSelect, query, args)
	res, err := Invoke(f, option, func() (any, error) {
		err := sqlx.SelectContext(option.Ctx, f.ext, dest, option.SqlStmt, option.Args...)
		return dest, errors.Wrapf(err, "select %q", option.SqlStmt)
	})
	if err != nil {
		return err
	}
	return assignResult(dest, res)
}
