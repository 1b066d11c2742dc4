package types

const (
	// TableNameTagKey 使用该Tag Key指定表名, 用在内嵌的TableName字段上
	TableNameTagKey = "tableName"
	// TableFieldTagKey 使用该Tag Key指定字段属性, 例如主键
	TableFieldTagKey = "tableField"
	// ColumnTagKey 列名, 与sqlx保持一致
	ColumnTagKey = "db"
	// JoinColumnTagKey 关联字段使用的外键列
	JoinColumnTagKey = "joinColumn"

	// TablePrimaryIdTagValue 使用该Tag Value指定主键
	TablePrimaryIdTagValue = "primary"
	// TableAutoFillTagValue 使用该Tag时自动填充Id, 但是要保证主键Id是自增的
	TableAutoFillTagValue = "autoIncrement"
)

// TableName marks a struct as an entity. Embed it and tag it with the table name:
//
//	type Team struct {
//		types.TableName `tableName:"team" json:"-"`
//		ID   int64  `db:"id" tableField:"primary,autoIncrement"`
//		Name string `db:"name"`
//	}
type TableName struct{}
