package mapper

import (
	"context"
	"database/sql"
	"reflect"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/dongjun6343/query"
	"github.com/dongjun6343/query/db/sqlbuilder"
	"github.com/dongjun6343/query/db/types"
)

var (
	ErrNoTableName  = errors.New("mapper: no tableName tag")
	ErrNoPrimaryKey = errors.New("mapper: no primary key field")
)

var tableNameType = reflect.TypeOf(types.TableName{})

type BaseMapperImpl[T any] struct {
	f     *query.Factory
	table *tableInfo

	// 根据Id查找的sql进行缓存
	selectByIdSql string
	// 根据Id进行删除的sql进行缓存
	deleteByIdSql string
}

// New builds a mapper for the struct type T from its tags.
func New[T any](f *query.Factory) (*BaseMapperImpl[T], error) {
	// 利用反射获取tableName和tableField
	info, err := getTableInfo(reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}

	b := &BaseMapperImpl[T]{f: f, table: info}

	// 该sql不会变化, 直接缓存起来
	b.selectByIdSql = (&sqlbuilder.SelectSQLBuilder{
		Fields:    info.columnNames(),
		TableName: info.name,
		Condition: []string{info.primary.name},
	}).Build(f.Dialect())

	b.deleteByIdSql = (&sqlbuilder.DeleteBuilder{
		TableName: info.name,
		Condition: []string{info.primary.name},
	}).Build()

	return b, nil
}

func (b *BaseMapperImpl[T]) Using(f *query.Factory) BaseMapper[T] {
	c := *b
	c.f = f
	return &c
}

func (b *BaseMapperImpl[T]) SelectById(ctx context.Context, id any) (*T, error) {
	res := new(T)
	err := b.f.GetContext(ctx, res, b.selectByIdSql, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return res, nil
}

func (b *BaseMapperImpl[T]) SelectBatchIds(ctx context.Context, ids ...any) ([]*T, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	stmt := (&sqlbuilder.SelectSQLBuilder{
		Fields:    b.table.columnNames(),
		TableName: b.table.name,
	}).Build(b.f.Dialect()) + " WHERE " + b.table.primary.name + " IN (?)"
	stmt, args, err := sqlx.In(stmt, ids)
	if err != nil {
		return nil, errors.Wrap(err, "expand ids")
	}

	var res []*T
	if err := b.f.SelectContext(ctx, &res, stmt, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (b *BaseMapperImpl[T]) SelectList(ctx context.Context) ([]*T, error) {
	stmt := (&sqlbuilder.SelectSQLBuilder{
		Fields:     b.table.columnNames(),
		TableName:  b.table.name,
		AscOrderBy: []string{b.table.primary.name},
	}).Build(b.f.Dialect())

	var res []*T
	if err := b.f.SelectContext(ctx, &res, stmt); err != nil {
		return nil, err
	}
	return res, nil
}

func (b *BaseMapperImpl[T]) SelectCount(ctx context.Context) (int64, error) {
	stmt := (&sqlbuilder.SelectSQLBuilder{
		Fields:    []string{"COUNT(*)"},
		TableName: b.table.name,
	}).Build(b.f.Dialect())

	var count int64
	if err := b.f.GetContext(ctx, &count, stmt); err != nil {
		return 0, err
	}
	return count, nil
}

func (b *BaseMapperImpl[T]) DeleteById(ctx context.Context, id any) (int64, error) {
	res, err := b.f.ExecContext(ctx, query.SQLTypeDelete, b.deleteByIdSql, id)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func (b *BaseMapperImpl[T]) DeleteBatchIds(ctx context.Context, ids ...any) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	stmt, args, err := sqlx.In("DELETE FROM "+b.table.name+" WHERE "+b.table.primary.name+" IN (?)", ids)
	if err != nil {
		return 0, errors.Wrap(err, "expand ids")
	}

	res, err := b.f.ExecContext(ctx, query.SQLTypeDelete, stmt, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (b *BaseMapperImpl[T]) Insert(ctx context.Context, entity *T, opts ...Option) (int64, error) {
	if err := prePersist(entity); err != nil {
		return 0, err
	}

	cols := b.table.writableColumns(newConfig(opts), true)
	builder := &sqlbuilder.InsertBuilder{
		Field:     names(cols),
		TableName: b.table.name,
	}
	args := values(reflect.ValueOf(entity).Elem(), cols)

	pk := b.table.primary
	if !pk.autoIncrement {
		res, err := b.f.ExecContext(ctx, query.SQLTypeInsert, builder.Build(), args...)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	}

	idField := reflect.ValueOf(entity).Elem().FieldByIndex(pk.index)
	if b.f.Dialect().SupportsReturning() {
		builder.Returning = pk.name
		var id int64
		if err := b.f.GetContext(ctx, &id, builder.Build(), args...); err != nil {
			return 0, err
		}
		return 1, setID(idField, id)
	}

	res, err := b.f.ExecContext(ctx, query.SQLTypeInsert, builder.Build(), args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "last insert id")
	}
	if err := setID(idField, id); err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (b *BaseMapperImpl[T]) InsertBatch(ctx context.Context, entities []*T, opts ...Option) (int64, error) {
	if len(entities) == 0 {
		return 0, nil
	}

	cols := b.table.writableColumns(newConfig(opts), true)
	args := make([]any, 0, len(entities)*len(cols))
	for _, entity := range entities {
		if err := prePersist(entity); err != nil {
			return 0, err
		}
		args = append(args, values(reflect.ValueOf(entity).Elem(), cols)...)
	}

	stmt := (&sqlbuilder.InsertBuilder{
		Field:     names(cols),
		Batch:     len(entities),
		TableName: b.table.name,
	}).Build()
	res, err := b.f.ExecContext(ctx, query.SQLTypeInsert, stmt, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (b *BaseMapperImpl[T]) UpdateById(ctx context.Context, entity *T, opts ...Option) (int64, error) {
	if err := prePersist(entity); err != nil {
		return 0, err
	}

	cols := b.table.writableColumns(newConfig(opts), false)
	rv := reflect.ValueOf(entity).Elem()
	args := append(values(rv, cols), rv.FieldByIndex(b.table.primary.index).Interface())

	stmt := (&sqlbuilder.UpdateBuilder{
		Fields:    names(cols),
		TableName: b.table.name,
		Condition: []string{b.table.primary.name},
	}).Build()
	res, err := b.f.ExecContext(ctx, query.SQLTypeUpdate, stmt, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func prePersist(entity any) error {
	if hook, ok := entity.(PrePersistHook); ok {
		return hook.PrePersist()
	}
	return nil
}

func newConfig(opts []Option) *Config {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func setID(field reflect.Value, id int64) error {
	switch {
	case field.CanInt():
		field.SetInt(id)
	case field.CanUint():
		field.SetUint(uint64(id))
	default:
		return errors.Errorf("mapper: cannot store generated key in %s", field.Type())
	}
	return nil
}

type column struct {
	name  string
	index []int
	// 是否是自增主键
	autoIncrement bool
}

type tableInfo struct {
	name    string
	primary column
	columns []column
}

func (t *tableInfo) columnNames() []string {
	return names(t.columns)
}

// writableColumns 默认为除自增主键之外的所有字段, 更新时不包含主键
func (t *tableInfo) writableColumns(cfg *Config, withPrimary bool) []column {
	res := make([]column, 0, len(t.columns))
	for _, c := range t.columns {
		if c.autoIncrement || !withPrimary && c.name == t.primary.name {
			continue
		}
		if len(cfg.IncludeFields) > 0 && !slices.Contains(cfg.IncludeFields, c.name) {
			continue
		}
		if slices.Contains(cfg.ExcludeFields, c.name) {
			continue
		}
		res = append(res, c)
	}
	return res
}

func names(cols []column) []string {
	res := make([]string, len(cols))
	for i, c := range cols {
		res[i] = c.name
	}
	return res
}

func values(rv reflect.Value, cols []column) []any {
	res := make([]any, len(cols))
	for i, c := range cols {
		res[i] = rv.FieldByIndex(c.index).Interface()
	}
	return res
}

// 获取表名和所有字段, 类型必须是结构体
func getTableInfo(rt reflect.Type) (*tableInfo, error) {
	if rt.Kind() != reflect.Struct {
		return nil, errors.Errorf("mapper: %s is not a struct", rt)
	}

	info := &tableInfo{}
	hasPrimary := false
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)

		if field.Type == tableNameType {
			info.name = field.Tag.Get(types.TableNameTagKey)
			continue
		}

		name := field.Tag.Get(types.ColumnTagKey)
		if name == "" || name == "-" || !field.IsExported() {
			continue
		}

		c := column{name: name, index: field.Index}
		tags := strings.Split(field.Tag.Get(types.TableFieldTagKey), ",")
		c.autoIncrement = slices.Contains(tags, types.TableAutoFillTagValue)
		if slices.Contains(tags, types.TablePrimaryIdTagValue) {
			info.primary = c
			hasPrimary = true
		}
		info.columns = append(info.columns, c)
	}

	if info.name == "" {
		return nil, errors.Wrapf(ErrNoTableName, "type %s", rt)
	}
	if !hasPrimary {
		return nil, errors.Wrapf(ErrNoPrimaryKey, "type %s", rt)
	}

	return info, nil
}
