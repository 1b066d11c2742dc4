package expr

import "github.com/dongjun6343/query/db/types"

// Number is the set of Go types a NumberPath can hold.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

type numberOps[N Number] struct {
	comparableOps[N]
}

func (o numberOps[N]) Gt(v N) *Predicate {
	return newPredicate(types.Gt, o.self, ConstantOf(v))
}

func (o numberOps[N]) Goe(v N) *Predicate {
	return newPredicate(types.Ge, o.self, ConstantOf(v))
}

func (o numberOps[N]) Lt(v N) *Predicate {
	return newPredicate(types.Lt, o.self, ConstantOf(v))
}

func (o numberOps[N]) Loe(v N) *Predicate {
	return newPredicate(types.Le, o.self, ConstantOf(v))
}

func (o numberOps[N]) Between(from, to N) *Predicate {
	return newPredicate(types.Between, o.self, ConstantOf(from), ConstantOf(to))
}

func (o numberOps[N]) GtExpr(e ExpressionOf[N]) *Predicate {
	return newPredicate(types.Gt, o.self, e)
}

func (o numberOps[N]) GoeExpr(e ExpressionOf[N]) *Predicate {
	return newPredicate(types.Ge, o.self, e)
}

func (o numberOps[N]) LtExpr(e ExpressionOf[N]) *Predicate {
	return newPredicate(types.Lt, o.self, e)
}

func (o numberOps[N]) LoeExpr(e ExpressionOf[N]) *Predicate {
	return newPredicate(types.Le, o.self, e)
}

func (o numberOps[N]) Sum() *NumberOperation[N] {
	return newNumberOperation[N](types.Sum, o.self)
}

// Avg is always fractional, whatever the column type.
func (o numberOps[N]) Avg() *NumberOperation[float64] {
	return newNumberOperation[float64](types.Avg, o.self)
}

func (o numberOps[N]) Max() *NumberOperation[N] {
	return newNumberOperation[N](types.Max, o.self)
}

func (o numberOps[N]) Min() *NumberOperation[N] {
	return newNumberOperation[N](types.Min, o.self)
}

// NumberPath is a numeric column.
type NumberPath[N Number] struct {
	*Path
	numberOps[N]
}

func NewNumberPath[N Number](parent *EntityPath, property, column string) *NumberPath[N] {
	p := &NumberPath[N]{Path: parent.register(property, column)}
	p.numberOps = numberOps[N]{comparableOps[N]{simpleOps{self: p}}}
	return p
}

// NewIDPath registers the primary key column of parent.
func NewIDPath[N Number](parent *EntityPath, property, column string) *NumberPath[N] {
	p := NewNumberPath[N](parent, property, column)
	parent.id = p.Path
	return p
}

// NumberOperation is a numeric function result such as an aggregate.
type NumberOperation[N Number] struct {
	*Operation
	numberOps[N]
}

func newNumberOperation[N Number](op types.SqlKeyWord, args ...Expression) *NumberOperation[N] {
	o := &NumberOperation[N]{Operation: &Operation{Op: op, Args: args}}
	o.numberOps = numberOps[N]{comparableOps[N]{simpleOps{self: o}}}
	return o
}

// CountAll is COUNT(*).
func CountAll() *NumberOperation[int64] {
	return newNumberOperation[int64](types.CountAll)
}
