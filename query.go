package query

import (
	"context"
	"reflect"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/dongjun6343/query/db/expr"
	"github.com/dongjun6343/query/db/sqlbuilder"
)

// Query is a select under construction. Builder methods modify the query and
// return it; use Clone to branch. A Query is not safe for concurrent use.
type Query[T any] struct {
	f    *Factory
	meta *sqlbuilder.Metadata
	err  error
}

// 由于go不支持方法泛型, 入口都是函数

// SelectFrom selects whole entities of type E from entity.
func SelectFrom[E any](f *Factory, entity expr.Entity) *Query[*E] {
	q := Select[*E](f, entity).From(entity)
	if want := reflect.TypeFor[E](); entity.Root().Type() != want {
		q.err = errors.Wrapf(ErrUnsupportedProjection, "%s does not scan into %s", entity.Root().Entity(), want)
	}
	return q
}

// Select selects exprs into T: a pointer to the entity type for a single
// entity, a scalar for a single value, a struct pointer whose db tags match
// the expression aliases, or *Tuple.
func Select[T any](f *Factory, exprs ...expr.Expression) *Query[T] {
	return &Query[T]{
		f:    f,
		meta: &sqlbuilder.Metadata{Projection: exprs},
	}
}

// SelectTuple selects several expressions, read back with Tuple.Get.
func SelectTuple(f *Factory, exprs ...expr.Expression) *Query[*Tuple] {
	return Select[*Tuple](f, exprs...)
}

// From adds entities to the FROM clause. Several entities form a cross
// product, filtered by Where into a theta join.
func (q *Query[T]) From(entities ...expr.Entity) *Query[T] {
	for _, e := range entities {
		q.meta.From = append(q.meta.From, e.Root())
	}
	return q
}

func (q *Query[T]) join(t sqlbuilder.JoinType, assoc *expr.Association, target expr.Entity) *Query[T] {
	q.meta.Joins = append(q.meta.Joins, &sqlbuilder.Join{
		Type:        t,
		Association: assoc,
		Target:      target.Root(),
	})
	return q
}

// Join inner joins target along assoc.
func (q *Query[T]) Join(assoc *expr.Association, target expr.Entity) *Query[T] {
	return q.join(sqlbuilder.InnerJoin, assoc, target)
}

func (q *Query[T]) InnerJoin(assoc *expr.Association, target expr.Entity) *Query[T] {
	return q.join(sqlbuilder.InnerJoin, assoc, target)
}

func (q *Query[T]) LeftJoin(assoc *expr.Association, target expr.Entity) *Query[T] {
	return q.join(sqlbuilder.LeftJoin, assoc, target)
}

func (q *Query[T]) RightJoin(assoc *expr.Association, target expr.Entity) *Query[T] {
	return q.join(sqlbuilder.RightJoin, assoc, target)
}

// JoinEntity inner joins an unrelated entity; the condition comes from On.
func (q *Query[T]) JoinEntity(target expr.Entity) *Query[T] {
	return q.join(sqlbuilder.InnerJoin, nil, target)
}

// LeftJoinEntity left joins an unrelated entity; the condition comes from On.
func (q *Query[T]) LeftJoinEntity(target expr.Entity) *Query[T] {
	return q.join(sqlbuilder.LeftJoin, nil, target)
}

// On adds conditions to the last join.
func (q *Query[T]) On(predicates ...*expr.Predicate) *Query[T] {
	if len(q.meta.Joins) == 0 {
		q.err = errors.New("query: On without a join")
		return q
	}
	j := q.meta.Joins[len(q.meta.Joins)-1]
	j.On = expr.AllOf(append([]*expr.Predicate{j.On}, predicates...)...)
	return q
}

// Where adds conditions joined with AND. Nil predicates are skipped, so
// optional filters can be passed directly.
func (q *Query[T]) Where(predicates ...*expr.Predicate) *Query[T] {
	q.meta.Where = expr.AllOf(append([]*expr.Predicate{q.meta.Where}, predicates...)...)
	return q
}

func (q *Query[T]) GroupBy(exprs ...expr.Expression) *Query[T] {
	q.meta.GroupBy = append(q.meta.GroupBy, exprs...)
	return q
}

func (q *Query[T]) Having(predicates ...*expr.Predicate) *Query[T] {
	q.meta.Having = expr.AllOf(append([]*expr.Predicate{q.meta.Having}, predicates...)...)
	return q
}

func (q *Query[T]) OrderBy(orders ...*expr.OrderSpecifier) *Query[T] {
	q.meta.OrderBy = append(q.meta.OrderBy, orders...)
	return q
}

// Offset skips n rows, counted from zero.
func (q *Query[T]) Offset(n int64) *Query[T] {
	q.meta.Offset = n
	return q
}

// Limit caps the result at n rows; n <= 0 removes the cap.
func (q *Query[T]) Limit(n int64) *Query[T] {
	q.meta.Limit = n
	return q
}

// Restrict applies a page request: its window and its orders.
func (q *Query[T]) Restrict(p *Paging) *Query[T] {
	q.meta.Offset = p.Offset()
	q.meta.Limit = int64(p.PageSize())
	return q.OrderBy(p.Orders()...)
}

func (q *Query[T]) Distinct() *Query[T] {
	q.meta.Distinct = true
	return q
}

func (q *Query[T]) Clone() *Query[T] {
	return &Query[T]{f: q.f, meta: q.meta.Clone(), err: q.err}
}

// SQL is the statement and bind arguments the query runs with.
func (q *Query[T]) SQL() (string, []any) {
	query, args := sqlbuilder.Build(q.f.dialect, q.meta)
	return q.f.rebind(query), args
}

// String renders the query in entity/property form.
func (q *Query[T]) String() string {
	return sqlbuilder.ObjectQuery(q.meta)
}

func (q *Query[T]) validate() error {
	if q.err != nil {
		return q.err
	}
	if len(q.meta.From) == 0 {
		return ErrNoSource
	}
	if len(q.meta.Projection) == 0 {
		return errors.Wrap(ErrUnsupportedProjection, "empty projection")
	}
	if isTuple[T]() {
		return nil
	}

	for _, e := range q.meta.Projection {
		if _, ok := e.Node().(*expr.EntityPath); !ok {
			continue
		}
		if len(q.meta.Projection) > 1 {
			return errors.Wrap(ErrUnsupportedProjection, "entities mixed with other expressions need a Tuple")
		}
		want := expr.TypeOf(e)
		if want == nil {
			continue
		}
		if got := reflect.TypeFor[T](); got != want && got != want.Elem() {
			return errors.Wrapf(ErrUnsupportedProjection, "%s does not scan into %s", e, got)
		}
	}

	return nil
}

func isTuple[T any]() bool {
	return reflect.TypeFor[T]() == reflect.TypeFor[*Tuple]()
}

// Fetch returns all rows.
func (q *Query[T]) Fetch(ctx context.Context) ([]T, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	query, args := sqlbuilder.Build(q.f.dialect, q.meta)
	option := q.f.option(ctx, SQLTypeSelect, query, args)
	option.Extension = q.String()

	return Invoke(q.f, option, func() ([]T, error) {
		res, err := q.scan(option)
		return res, errors.Wrapf(err, "fetch %q", option.SqlStmt)
	})
}

func (q *Query[T]) scan(option *ExecOption) ([]T, error) {
	if isTuple[T]() {
		tuples, err := scanTuples(option.Ctx, q.f.ext, q.meta.Projection, option.SqlStmt, option.Args)
		if err != nil {
			return nil, err
		}
		return any(tuples).([]T), nil
	}

	var dest []T
	if err := sqlx.SelectContext(option.Ctx, q.f.ext, &dest, option.SqlStmt, option.Args...); err != nil {
		return nil, err
	}
	return dest, nil
}

// FetchOne returns the only row, the zero value when there is none and
// ErrNonUniqueResult when there are several.
func (q *Query[T]) FetchOne(ctx context.Context) (T, error) {
	var zero T

	c := q
	if q.meta.Limit <= 0 {
		c = q.Clone().Limit(2)
	}
	rows, err := c.Fetch(ctx)
	if err != nil {
		return zero, err
	}

	switch len(rows) {
	case 0:
		return zero, nil
	case 1:
		return rows[0], nil
	default:
		return zero, ErrNonUniqueResult
	}
}

// FetchFirst returns the first row, or the zero value when there is none.
func (q *Query[T]) FetchFirst(ctx context.Context) (T, error) {
	var zero T

	rows, err := q.Clone().Limit(1).Fetch(ctx)
	if err != nil || len(rows) == 0 {
		return zero, err
	}
	return rows[0], nil
}

// FetchCount counts the rows Fetch would return without offset and limit.
func (q *Query[T]) FetchCount(ctx context.Context) (int64, error) {
	if q.err != nil {
		return 0, q.err
	}
	if len(q.meta.From) == 0 {
		return 0, ErrNoSource
	}

	query, args := sqlbuilder.BuildCount(q.f.dialect, q.meta)
	var count int64
	if err := q.f.GetContext(ctx, &count, query, args...); err != nil {
		return 0, err
	}
	return count, nil
}

// FetchResults returns the requested window of rows and the total count.
// Under CacheableCtx only the rows are cached, the count always runs.
func (q *Query[T]) FetchResults(ctx context.Context) (*QueryResults[T], error) {
	total, err := q.FetchCount(withoutCache(ctx))
	if err != nil {
		return nil, err
	}

	res := &QueryResults[T]{Total: total, Offset: q.meta.Offset, Limit: q.meta.Limit}
	if total == 0 {
		return res, nil
	}

	res.Results, err = q.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// FetchPage returns page p of the query.
func (q *Query[T]) FetchPage(ctx context.Context, p *Paging) (*Page[T], error) {
	res, err := q.Clone().Restrict(p).FetchResults(ctx)
	if err != nil {
		return nil, err
	}
	return newPage(p, res), nil
}
