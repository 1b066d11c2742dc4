package sqlbuilder

import (
	"slices"

	"github.com/dongjun6343/query/db/expr"
)

type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
	RightJoin
)

func (t JoinType) String() string {
	switch t {
	case LeftJoin:
		return "LEFT JOIN"
	case RightJoin:
		return "RIGHT JOIN"
	default:
		return "INNER JOIN"
	}
}

// Join is one joined entity. Association is nil for joins of unrelated
// entities, which then rely on On alone.
type Join struct {
	Type        JoinType
	Association *expr.Association
	Target      *expr.EntityPath
	On          *expr.Predicate
}

// Condition is the full join condition.
func (j *Join) Condition() *expr.Predicate {
	if j.Association == nil {
		return j.On
	}
	return j.Association.On(j.Target).And(j.On)
}

// Metadata describes one select query.
type Metadata struct {
	Distinct   bool
	Projection []expr.Expression
	From       []*expr.EntityPath
	Joins      []*Join
	Where      *expr.Predicate
	GroupBy    []expr.Expression
	Having     *expr.Predicate
	OrderBy    []*expr.OrderSpecifier
	Limit      int64
	Offset     int64
}

// Clone copies the slices so the copy can be modified independently.
// Expressions themselves are immutable and stay shared.
func (m *Metadata) Clone() *Metadata {
	c := *m
	c.Projection = slices.Clone(m.Projection)
	c.From = slices.Clone(m.From)
	c.GroupBy = slices.Clone(m.GroupBy)
	c.OrderBy = slices.Clone(m.OrderBy)
	c.Joins = make([]*Join, len(m.Joins))
	for i, j := range m.Joins {
		jc := *j
		c.Joins[i] = &jc
	}
	return &c
}
