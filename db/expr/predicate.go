package expr

import "github.com/dongjun6343/query/db/types"

// Predicate is a boolean condition. A nil *Predicate means "no condition" and
// is dropped wherever predicates are combined.
type Predicate struct {
	*Operation
}

func newPredicate(op types.SqlKeyWord, args ...Expression) *Predicate {
	return &Predicate{Operation: &Operation{Op: op, Args: args}}
}

// And combines p with others; nil operands are ignored.
func (p *Predicate) And(others ...*Predicate) *Predicate {
	return AllOf(append([]*Predicate{p}, others...)...)
}

// Or combines p with others; nil operands are ignored.
func (p *Predicate) Or(others ...*Predicate) *Predicate {
	return AnyOf(append([]*Predicate{p}, others...)...)
}

func (p *Predicate) Not() *Predicate {
	if p == nil {
		return nil
	}
	return newPredicate(types.Not, p)
}

// AllOf is the conjunction of the non-nil predicates, or nil if there are none.
func AllOf(predicates ...*Predicate) *Predicate {
	return combine(types.And, predicates)
}

// AnyOf is the disjunction of the non-nil predicates, or nil if there are none.
func AnyOf(predicates ...*Predicate) *Predicate {
	return combine(types.Or, predicates)
}

func combine(op types.SqlKeyWord, predicates []*Predicate) *Predicate {
	args := make([]Expression, 0, len(predicates))
	for _, p := range predicates {
		if p == nil {
			continue
		}
		args = append(args, p)
	}

	switch len(args) {
	case 0:
		return nil
	case 1:
		return args[0].(*Predicate)
	default:
		return newPredicate(op, args...)
	}
}
