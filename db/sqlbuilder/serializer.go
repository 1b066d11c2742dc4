package sqlbuilder

import (
	"strconv"
	"strings"

	"github.com/dongjun6343/query/db/dialect"
	"github.com/dongjun6343/query/db/expr"
)

// sqlStyle renders paths as alias.column and collects constants as bind
// arguments. Entities in expressions stand for their primary key.
type sqlStyle struct {
	args []any
}

func (s *sqlStyle) Path(p *expr.Path) string {
	if p.Parent() == nil {
		return p.Column()
	}
	return p.Parent().Alias() + "." + p.Column()
}

func (s *sqlStyle) Entity(e *expr.EntityPath) string {
	if e.ID() == nil {
		return e.Alias() + ".*"
	}
	return s.Path(e.ID())
}

func (s *sqlStyle) Constant(v any) string {
	s.args = append(s.args, v)
	return "?"
}

// objectStyle renders the object query form: alias.property and numbered
// parameters.
type objectStyle struct {
	n int
}

func (s *objectStyle) Path(p *expr.Path) string {
	if p.Parent() == nil {
		return p.Property()
	}
	return p.Parent().Alias() + "." + p.Property()
}

func (s *objectStyle) Entity(e *expr.EntityPath) string {
	return e.Alias()
}

func (s *objectStyle) Constant(any) string {
	s.n++
	return "?" + strconv.Itoa(s.n)
}

// Build serializes m to SQL with '?' placeholders and its bind arguments.
func Build(d dialect.Dialect, m *Metadata) (string, []any) {
	s := &sqlStyle{}
	b := strings.Builder{}
	b.Grow(128)

	writeSelect(&b, s, m)
	writeBody(&b, s, d, m)

	if len(m.OrderBy) > 0 {
		b.WriteString(" ORDER BY ")
		for i, o := range m.OrderBy {
			if i > 0 {
				b.WriteString(", ")
			}
			target := expr.Unalias(o.Target)
			b.WriteString(d.OrderBy(func() string { return expr.Render(target, s) }, o.Desc, o.Nulls))
		}
	}

	if lo := d.LimitOffset(m.Limit, m.Offset); lo != "" {
		b.WriteString(" ")
		b.WriteString(lo)
	}

	return b.String(), s.args
}

// BuildCount serializes a query counting the rows m would return, ignoring
// order and limits. Grouped or distinct queries are counted through a
// subselect.
func BuildCount(d dialect.Dialect, m *Metadata) (string, []any) {
	s := &sqlStyle{}
	b := strings.Builder{}
	b.Grow(128)

	switch {
	case m.Distinct:
		b.WriteString("SELECT COUNT(*) FROM (")
		writeSelect(&b, s, m)
		writeBody(&b, s, d, m)
		b.WriteString(") t")
	case len(m.GroupBy) > 0:
		b.WriteString("SELECT COUNT(*) FROM (SELECT 1")
		writeBody(&b, s, d, m)
		b.WriteString(") t")
	default:
		b.WriteString("SELECT COUNT(*)")
		writeBody(&b, s, d, m)
	}

	return b.String(), s.args
}

func writeSelect(b *strings.Builder, s *sqlStyle, m *Metadata) {
	b.WriteString("SELECT ")
	if m.Distinct {
		b.WriteString("DISTINCT ")
	}

	for i, e := range m.Projection {
		if i > 0 {
			b.WriteString(", ")
		}
		if ent, ok := e.Node().(*expr.EntityPath); ok {
			for j, c := range ent.Columns() {
				if j > 0 {
					b.WriteString(", ")
				}
				b.WriteString(s.Path(c))
			}
			continue
		}
		b.WriteString(expr.Render(e, s))
	}
}

// writeBody writes everything from FROM up to HAVING.
func writeBody(b *strings.Builder, s *sqlStyle, d dialect.Dialect, m *Metadata) {
	b.WriteString(" FROM ")
	for i, f := range m.From {
		if i > 0 {
			b.WriteString(" CROSS JOIN ")
		}
		b.WriteString(f.Table())
		b.WriteString(" ")
		b.WriteString(f.Alias())
	}

	for _, j := range m.Joins {
		b.WriteString(" ")
		b.WriteString(j.Type.String())
		b.WriteString(" ")
		b.WriteString(j.Target.Table())
		b.WriteString(" ")
		b.WriteString(j.Target.Alias())
		if cond := j.Condition(); cond != nil {
			b.WriteString(" ON ")
			b.WriteString(expr.Render(cond, s))
		} else {
			b.WriteString(" ON 1 = 1")
		}
	}

	if m.Where != nil {
		b.WriteString(" WHERE ")
		b.WriteString(expr.Render(m.Where, s))
	}

	if len(m.GroupBy) > 0 {
		b.WriteString(" GROUP BY ")
		for i, g := range m.GroupBy {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(expr.Render(expr.Unalias(g), s))
		}
	}

	if m.Having != nil {
		b.WriteString(" HAVING ")
		b.WriteString(expr.Render(m.Having, s))
	}
}

// ObjectQuery renders m in the entity/property form used for logging and
// debugging, e.g. "select member1 from Member member1 where member1.username = ?1".
func ObjectQuery(m *Metadata) string {
	s := &objectStyle{}
	b := strings.Builder{}

	b.WriteString("select ")
	if m.Distinct {
		b.WriteString("distinct ")
	}
	for i, e := range m.Projection {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(expr.Render(e, s))
	}

	b.WriteString("\nfrom ")
	for i, f := range m.From {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Entity() + " " + f.Alias())
	}

	for _, j := range m.Joins {
		b.WriteString("\n  ")
		b.WriteString(strings.ToLower(j.Type.String()))
		b.WriteString(" ")
		if j.Association != nil {
			b.WriteString(j.Association.String())
		} else {
			b.WriteString(j.Target.Entity())
		}
		b.WriteString(" as ")
		b.WriteString(j.Target.Alias())
		if j.On != nil {
			b.WriteString(" with ")
			b.WriteString(expr.Render(j.On, s))
		}
	}

	if m.Where != nil {
		b.WriteString("\nwhere ")
		b.WriteString(expr.Render(m.Where, s))
	}

	if len(m.GroupBy) > 0 {
		b.WriteString("\ngroup by ")
		for i, g := range m.GroupBy {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(expr.Render(expr.Unalias(g), s))
		}
	}

	if m.Having != nil {
		b.WriteString("\nhaving ")
		b.WriteString(expr.Render(m.Having, s))
	}

	if len(m.OrderBy) > 0 {
		b.WriteString("\norder by ")
		for i, o := range m.OrderBy {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(expr.Render(expr.Unalias(o.Target), s))
			if o.Desc {
				b.WriteString(" desc")
			} else {
				b.WriteString(" asc")
			}
			switch o.Nulls {
			case expr.NullsFirst:
				b.WriteString(" nulls first")
			case expr.NullsLast:
				b.WriteString(" nulls last")
			}
		}
	}

	return b.String()
}
