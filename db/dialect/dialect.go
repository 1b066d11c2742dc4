// Package dialect holds the per-database differences the SQL serializer and
// the executor care about.
package dialect

import (
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/dongjun6343/query/db/expr"
)

type Dialect interface {
	// Name is the dialect name migrations are registered under.
	Name() string
	// BindType is the sqlx bind variable style, see sqlx.BindType.
	BindType() int
	// OrderBy renders one ORDER BY item. target renders the ordered expression
	// and binds its constants, it is called once per occurrence.
	OrderBy(target func() string, desc bool, nulls expr.NullHandling) string
	// LimitOffset renders the row limiting clause. limit <= 0 means no limit.
	LimitOffset(limit, offset int64) string
	// SupportsReturning reports whether INSERT ... RETURNING is available.
	SupportsReturning() bool
}

var ErrUnknownDriver = errors.New("dialect: unknown driver")

// ForDriver picks the dialect for a database/sql driver name.
func ForDriver(driverName string) (Dialect, error) {
	switch driverName {
	case "mysql":
		return MySQL{}, nil
	case "sqlite3", "sqlite":
		return SQLite{}, nil
	case "pgx", "postgres", "postgresql":
		return Postgres{}, nil
	}

	return nil, errors.Wrapf(ErrUnknownDriver, "driver %q", driverName)
}

func direction(desc bool) string {
	if desc {
		return " DESC"
	}
	return " ASC"
}

func nativeOrderBy(target func() string, desc bool, nulls expr.NullHandling) string {
	s := target() + direction(desc)
	switch nulls {
	case expr.NullsFirst:
		s += " NULLS FIRST"
	case expr.NullsLast:
		s += " NULLS LAST"
	}
	return s
}

func limitOffset(limit, offset int64, offsetOnly string) string {
	switch {
	case limit > 0 && offset > 0:
		return "LIMIT " + strconv.FormatInt(limit, 10) + " OFFSET " + strconv.FormatInt(offset, 10)
	case limit > 0:
		return "LIMIT " + strconv.FormatInt(limit, 10)
	case offset > 0:
		return offsetOnly + "OFFSET " + strconv.FormatInt(offset, 10)
	default:
		return ""
	}
}

type MySQL struct{}

func (MySQL) Name() string            { return "mysql" }
func (MySQL) BindType() int           { return sqlx.QUESTION }
func (MySQL) SupportsReturning() bool { return false }

// OrderBy emulates NULLS FIRST/LAST with a CASE key, MySQL has no syntax for it.
func (MySQL) OrderBy(target func() string, desc bool, nulls expr.NullHandling) string {
	var key string
	switch nulls {
	case expr.NullsFirst:
		key = "CASE WHEN " + target() + " IS NULL THEN 0 ELSE 1 END, "
	case expr.NullsLast:
		key = "CASE WHEN " + target() + " IS NULL THEN 1 ELSE 0 END, "
	}
	return key + target() + direction(desc)
}

func (MySQL) LimitOffset(limit, offset int64) string {
	// mysql 不支持单独的OFFSET
	return limitOffset(limit, offset, "LIMIT 18446744073709551615 ")
}

type SQLite struct{}

func (SQLite) Name() string            { return "sqlite3" }
func (SQLite) BindType() int           { return sqlx.QUESTION }
func (SQLite) SupportsReturning() bool { return false }

func (SQLite) OrderBy(target func() string, desc bool, nulls expr.NullHandling) string {
	return nativeOrderBy(target, desc, nulls)
}

func (SQLite) LimitOffset(limit, offset int64) string {
	return limitOffset(limit, offset, "LIMIT -1 ")
}

type Postgres struct{}

func (Postgres) Name() string            { return "postgres" }
func (Postgres) BindType() int           { return sqlx.DOLLAR }
func (Postgres) SupportsReturning() bool { return true }

func (Postgres) OrderBy(target func() string, desc bool, nulls expr.NullHandling) string {
	return nativeOrderBy(target, desc, nulls)
}

func (Postgres) LimitOffset(limit, offset int64) string {
	return limitOffset(limit, offset, "")
}
