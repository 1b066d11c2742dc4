package query

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// NativeQuery is a hand written SQL statement with :name parameters.
type NativeQuery[T any] struct {
	f      *Factory
	sql    string
	params map[string]any
}

// Native prepares sql for results of type T, scanned like Select.
//
//	query.Native[*model.Member](f, "SELECT * FROM member WHERE username = :username").
//		SetParameter("username", "member1").
//		GetSingleResult(ctx)
func Native[T any](f *Factory, sql string) *NativeQuery[T] {
	return &NativeQuery[T]{f: f, sql: sql, params: make(map[string]any)}
}

func (n *NativeQuery[T]) SetParameter(name string, value any) *NativeQuery[T] {
	n.params[name] = value
	return n
}

func (n *NativeQuery[T]) bind() (string, []any, error) {
	query, args, err := sqlx.Named(n.sql, n.params)
	if err != nil {
		return "", nil, errors.Wrapf(err, "bind %q", n.sql)
	}
	return query, args, nil
}

func (n *NativeQuery[T]) GetResultList(ctx context.Context) ([]T, error) {
	query, args, err := n.bind()
	if err != nil {
		return nil, err
	}

	var dest []T
	if err := n.f.SelectContext(ctx, &dest, query, args...); err != nil {
		return nil, err
	}
	return dest, nil
}

// GetSingleResult returns the only row; ErrNoResult when there is none and
// ErrNonUniqueResult when there are several.
func (n *NativeQuery[T]) GetSingleResult(ctx context.Context) (T, error) {
	var zero T

	rows, err := n.GetResultList(ctx)
	if err != nil {
		return zero, err
	}

	switch len(rows) {
	case 0:
		return zero, ErrNoResult
	case 1:
		return rows[0], nil
	default:
		return zero, ErrNonUniqueResult
	}
}

// ExecuteUpdate runs a data changing statement and returns the affected rows.
func (n *NativeQuery[T]) ExecuteUpdate(ctx context.Context) (int64, error) {
	query, args, err := n.bind()
	if err != nil {
		return 0, err
	}

	res, err := n.f.ExecContext(ctx, SQLTypeUpdate, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
