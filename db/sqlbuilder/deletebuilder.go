package sqlbuilder

import "strings"

type DeleteBuilder struct {
	TableName string
	Condition []string
}

func (b *DeleteBuilder) Build() string {
	builder := strings.Builder{}
	builder.WriteString("DELETE FROM ")
	builder.WriteString(b.TableName)
	writeCondition(&builder, b.Condition)

	return builder.String()
}
