package mapper

import (
	"context"

	"github.com/dongjun6343/query"
)

type Config struct {
	IncludeFields []string
	ExcludeFields []string
}

type Option func(*Config)

func IncludeFields(fields ...string) Option {
	return func(c *Config) {
		c.IncludeFields = append(c.IncludeFields, fields...)
	}
}

func ExcludeFields(fields ...string) Option {
	return func(c *Config) {
		c.ExcludeFields = append(c.ExcludeFields, fields...)
	}
}

// PrePersistHook is implemented by entities that validate or fill fields
// before they are written.
type PrePersistHook interface {
	PrePersist() error
}

type BaseMapper[T any] interface {
	// Insert 插入一条记录, 返回影响的行数
	// 默认插入除自增Id之外的字段, 同时回填自增Id
	// 可以通过opts指定要插入的字段或排除的字段
	Insert(ctx context.Context, entity *T, opts ...Option) (int64, error)

	// InsertBatch 插入多条记录, 返回影响的行数, 不回填自增Id
	InsertBatch(ctx context.Context, entities []*T, opts ...Option) (int64, error)

	// DeleteById 根据主键Id删除记录, 返回影响的条数
	DeleteById(ctx context.Context, id any) (int64, error)

	// DeleteBatchIds 根据id集合批量删除, 返回影响的条数
	DeleteBatchIds(ctx context.Context, ids ...any) (int64, error)

	// UpdateById 根据主键更新, 默认全部更新, 可以通过opts指定要更新的字段或排除的字段
	UpdateById(ctx context.Context, entity *T, opts ...Option) (int64, error)

	// SelectById 根据主键Id进行查询, 不存在时返回nil
	SelectById(ctx context.Context, id any) (*T, error)

	// SelectBatchIds 根据id集合批量查询
	SelectBatchIds(ctx context.Context, ids ...any) ([]*T, error)

	// SelectList 查询全部记录
	SelectList(ctx context.Context) ([]*T, error)

	// SelectCount 查询记录总数
	SelectCount(ctx context.Context) (int64, error)

	// Using 返回使用另一个Factory(例如事务)的mapper
	Using(f *query.Factory) BaseMapper[T]
}
