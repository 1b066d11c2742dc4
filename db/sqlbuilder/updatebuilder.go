package sqlbuilder

import "strings"

type UpdateBuilder struct {
	Fields    []string
	TableName string
	Condition []string
}

func (b *UpdateBuilder) Build() string {
	builder := strings.Builder{}
	builder.Grow(64)
	builder.WriteString("UPDATE ")
	builder.WriteString(b.TableName)
	builder.WriteString(" SET ")
	for i, field := range b.Fields {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(field + " = ?")
	}
	writeCondition(&builder, b.Condition)

	return builder.String()
}

// writeCondition writes "WHERE c1 = ? AND c2 = ?".
func writeCondition(builder *strings.Builder, condition []string) {
	if len(condition) == 0 {
		return
	}
	builder.WriteString(" WHERE ")
	for i, cond := range condition {
		if i > 0 {
			builder.WriteString(" AND ")
		}
		builder.WriteString(cond + " = ?")
	}
}
