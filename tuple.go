package query

import (
	"context"
	"reflect"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"

	"github.com/dongjun6343/query/db/expr"
)

// Tuple is one row of a multi expression projection.
type Tuple struct {
	index  map[string]int
	values []any
}

// Get returns the value of e: a typed value, *E for an entity, or nil for
// SQL NULL and for an entity missing from an outer join. Expressions are
// matched by their rendering, so an equivalent expression built anew works.
func (t *Tuple) Get(e expr.Expression) any {
	i, ok := t.index[e.String()]
	if !ok {
		i, ok = t.index[expr.Unalias(e).String()]
	}
	if !ok {
		return nil
	}
	return t.values[i]
}

func (t *Tuple) GetString(e expr.Expression) string {
	s, _ := t.Get(e).(string)
	return s
}

// GetInt64 converts any numeric value to int64; NULL is 0.
func (t *Tuple) GetInt64(e expr.Expression) int64 {
	v := reflect.ValueOf(t.Get(e))
	switch {
	case v.CanInt():
		return v.Int()
	case v.CanUint():
		return int64(v.Uint())
	case v.CanFloat():
		return int64(v.Float())
	default:
		return 0
	}
}

// GetFloat64 converts any numeric value to float64; NULL is 0.
func (t *Tuple) GetFloat64(e expr.Expression) float64 {
	v := reflect.ValueOf(t.Get(e))
	switch {
	case v.CanFloat():
		return v.Float()
	case v.CanInt():
		return float64(v.Int())
	case v.CanUint():
		return float64(v.Uint())
	default:
		return 0
	}
}

func (t *Tuple) Size() int {
	return len(t.values)
}

func (t *Tuple) ToArray() []any {
	return append([]any(nil), t.values...)
}

// TupleEntity returns the entity selected as entity, nil when the outer join
// found no row.
func TupleEntity[E any](t *Tuple, entity expr.Entity) *E {
	v, _ := t.Get(entity).(*E)
	return v
}

var mapper = reflectx.NewMapperFunc("db", strings.ToLower)

// tupleColumn scans one projection element. Entities span one column per
// mapped field.
type tupleColumn struct {
	typ        reflect.Type // value type, or entity struct type
	entity     bool
	traversals [][]int
}

func newTupleColumns(projection []expr.Expression) []tupleColumn {
	cols := make([]tupleColumn, len(projection))
	for i, e := range projection {
		if ent, ok := e.Node().(*expr.EntityPath); ok && ent.Type() != nil {
			names := make([]string, len(ent.Columns()))
			for j, c := range ent.Columns() {
				names[j] = c.Column()
			}
			cols[i] = tupleColumn{
				typ:        ent.Type(),
				entity:     true,
				traversals: mapper.TraversalsByName(ent.Type(), names),
			}
			continue
		}

		typ := expr.TypeOf(e)
		if typ == nil {
			typ = reflect.TypeFor[any]()
		}
		cols[i] = tupleColumn{typ: typ}
	}
	return cols
}

func scanTuples(ctx context.Context, q sqlx.QueryerContext, projection []expr.Expression, query string, args []any) ([]*Tuple, error) {
	cols := newTupleColumns(projection)
	index := make(map[string]int, len(projection))
	for i := len(projection) - 1; i >= 0; i-- {
		index[projection[i].String()] = i
	}
	// 别名表达式也可以用原表达式获取, 不覆盖已有的key
	for i, e := range projection {
		key := expr.Unalias(e).String()
		if _, ok := index[key]; !ok {
			index[key] = i
		}
	}

	rows, err := q.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tuples []*Tuple
	for rows.Next() {
		// 每一列扫描到**T, NULL时指针为nil
		var holders []reflect.Value
		for _, c := range cols {
			if !c.entity {
				holders = append(holders, reflect.New(reflect.PointerTo(c.typ)))
				continue
			}
			for _, tr := range c.traversals {
				// 未映射的列丢弃
				ft := reflect.TypeFor[any]()
				if len(tr) > 0 {
					ft = c.typ.FieldByIndex(tr).Type
				}
				holders = append(holders, reflect.New(reflect.PointerTo(ft)))
			}
		}

		dest := make([]any, len(holders))
		for i, h := range holders {
			dest[i] = h.Interface()
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		tuples = append(tuples, &Tuple{index: index, values: hydrate(cols, holders)})
	}

	return tuples, rows.Err()
}

func hydrate(cols []tupleColumn, holders []reflect.Value) []any {
	values := make([]any, len(cols))
	pos := 0
	for i, c := range cols {
		if !c.entity {
			if p := holders[pos].Elem(); !p.IsNil() {
				values[i] = p.Elem().Interface()
			}
			pos++
			continue
		}

		obj := reflect.New(c.typ)
		found := false
		for _, tr := range c.traversals {
			p := holders[pos].Elem()
			pos++
			if p.IsNil() || len(tr) == 0 {
				continue
			}
			found = true
			reflectx.FieldByIndexes(obj.Elem(), tr).Set(p.Elem())
		}
		if found {
			values[i] = obj.Interface()
		}
	}
	return values
}
