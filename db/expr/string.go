package expr

import "github.com/dongjun6343/query/db/types"

type stringOps struct {
	comparableOps[string]
}

// Like matches a raw pattern; '!' escapes wildcards.
func (o stringOps) Like(pattern string) *Predicate {
	return newPredicate(types.Like, o.self, ConstantOf(pattern))
}

func (o stringOps) NotLike(pattern string) *Predicate {
	return newPredicate(types.NotLike, o.self, ConstantOf(pattern))
}

func (o stringOps) StartsWith(s string) *Predicate {
	return o.Like(escapeLike(s) + "%")
}

func (o stringOps) EndsWith(s string) *Predicate {
	return o.Like("%" + escapeLike(s))
}

func (o stringOps) Contains(s string) *Predicate {
	return o.Like("%" + escapeLike(s) + "%")
}

func (o stringOps) Lower() *StringOperation {
	return newStringOperation(types.Lower, o.self)
}

func (o stringOps) Upper() *StringOperation {
	return newStringOperation(types.Upper, o.self)
}

func (o stringOps) Max() *StringOperation {
	return newStringOperation(types.Max, o.self)
}

func (o stringOps) Min() *StringOperation {
	return newStringOperation(types.Min, o.self)
}

// StringPath is a text column.
type StringPath struct {
	*Path
	stringOps
}

func NewStringPath(parent *EntityPath, property, column string) *StringPath {
	p := &StringPath{Path: parent.register(property, column)}
	p.stringOps = stringOps{comparableOps[string]{simpleOps{self: p}}}
	return p
}

// StringOperation is a text function result.
type StringOperation struct {
	*Operation
	stringOps
}

func newStringOperation(op types.SqlKeyWord, args ...Expression) *StringOperation {
	o := &StringOperation{Operation: &Operation{Op: op, Args: args}}
	o.stringOps = stringOps{comparableOps[string]{simpleOps{self: o}}}
	return o
}
