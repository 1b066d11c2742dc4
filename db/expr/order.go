package expr

// NullHandling places NULLs in an ordering.
type NullHandling int

const (
	NullsDefault NullHandling = iota
	NullsFirst
	NullsLast
)

// OrderSpecifier orders results by an expression.
type OrderSpecifier struct {
	Target Expression
	Desc   bool
	Nulls  NullHandling
}

func Asc(e Expression) *OrderSpecifier {
	return &OrderSpecifier{Target: e}
}

func Desc(e Expression) *OrderSpecifier {
	return &OrderSpecifier{Target: e, Desc: true}
}

func (o *OrderSpecifier) NullsFirst() *OrderSpecifier {
	c := *o
	c.Nulls = NullsFirst
	return &c
}

func (o *OrderSpecifier) NullsLast() *OrderSpecifier {
	c := *o
	c.Nulls = NullsLast
	return &c
}

func (o *OrderSpecifier) String() string {
	s := Unalias(o.Target).String()
	if o.Desc {
		s += " DESC"
	} else {
		s += " ASC"
	}
	switch o.Nulls {
	case NullsFirst:
		s += " NULLS FIRST"
	case NullsLast:
		s += " NULLS LAST"
	}
	return s
}
