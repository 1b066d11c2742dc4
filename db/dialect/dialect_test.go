package dialect

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dongjun6343/query/db/expr"
)

func TestForDriver(t *testing.T) {
	for driver, want := range map[string]Dialect{
		"mysql":    MySQL{},
		"sqlite3":  SQLite{},
		"pgx":      Postgres{},
		"postgres": Postgres{},
	} {
		d, err := ForDriver(driver)
		require.NoError(t, err, driver)
		assert.Equal(t, want, d, driver)
	}

	_, err := ForDriver("oracle")
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func column(name string) func() string {
	return func() string { return name }
}

func TestOrderBy(t *testing.T) {
	assert.Equal(t, "m.username ASC NULLS LAST", SQLite{}.OrderBy(column("m.username"), false, expr.NullsLast))
	assert.Equal(t, "m.age DESC", Postgres{}.OrderBy(column("m.age"), true, expr.NullsDefault))
	assert.Equal(t, "CASE WHEN m.username IS NULL THEN 1 ELSE 0 END, m.username ASC",
		MySQL{}.OrderBy(column("m.username"), false, expr.NullsLast))
	assert.Equal(t, "CASE WHEN m.username IS NULL THEN 0 ELSE 1 END, m.username DESC",
		MySQL{}.OrderBy(column("m.username"), true, expr.NullsFirst))
	assert.Equal(t, "m.age ASC", MySQL{}.OrderBy(column("m.age"), false, expr.NullsDefault))
}

func TestOrderByRendersEachOccurrence(t *testing.T) {
	calls := 0
	target := func() string {
		calls++
		return "m.age > ?"
	}

	MySQL{}.OrderBy(target, false, expr.NullsFirst)
	assert.Equal(t, 2, calls)

	calls = 0
	Postgres{}.OrderBy(target, false, expr.NullsFirst)
	assert.Equal(t, 1, calls)
}

func TestLimitOffset(t *testing.T) {
	tests := []struct {
		d             Dialect
		limit, offset int64
		want          string
	}{
		{MySQL{}, 2, 1, "LIMIT 2 OFFSET 1"},
		{MySQL{}, 0, 5, "LIMIT 18446744073709551615 OFFSET 5"},
		{SQLite{}, 0, 5, "LIMIT -1 OFFSET 5"},
		{Postgres{}, 0, 5, "OFFSET 5"},
		{Postgres{}, 3, 0, "LIMIT 3"},
		{SQLite{}, 0, 0, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.d.LimitOffset(tt.limit, tt.offset), tt.d.Name())
	}
}

func TestBindType(t *testing.T) {
	assert.Equal(t, sqlx.DOLLAR, Postgres{}.BindType())
	assert.Equal(t, sqlx.QUESTION, MySQL{}.BindType())
}
