package sqlbuilder

import (
	"strings"

	"github.com/dongjun6343/query/db/dialect"
)

// SelectSQLBuilder builds single table selects for the mapper. Queries over
// several entities go through Build.
type SelectSQLBuilder struct {
	Fields      []string
	TableName   string
	Condition   []string
	DescOrderBy []string
	AscOrderBy  []string
	Limit       int64
	Offset      int64
}

func (b *SelectSQLBuilder) Build(d dialect.Dialect) string {
	builder := strings.Builder{}
	builder.Grow(64)
	builder.WriteString("SELECT ")
	if len(b.Fields) == 0 {
		builder.WriteString("*")
	} else {
		builder.WriteString(strings.Join(b.Fields, ", "))
	}
	builder.WriteString(" FROM ")
	builder.WriteString(b.TableName)
	writeCondition(&builder, b.Condition)

	orders := make([]string, 0, len(b.DescOrderBy)+len(b.AscOrderBy))
	for _, descOrderBy := range b.DescOrderBy {
		orders = append(orders, descOrderBy+" DESC")
	}
	for _, ascOrderBy := range b.AscOrderBy {
		orders = append(orders, ascOrderBy+" ASC")
	}
	if len(orders) > 0 {
		builder.WriteString(" ORDER BY ")
		builder.WriteString(strings.Join(orders, ", "))
	}

	if lo := d.LimitOffset(b.Limit, b.Offset); lo != "" {
		builder.WriteString(" ")
		builder.WriteString(lo)
	}

	return builder.String()
}
