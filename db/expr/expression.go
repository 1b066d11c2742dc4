// Package expr is the typed expression model queries are built from: paths
// into entities, constants, operations (predicates, aggregates, functions),
// aliases and order specifiers.
//
// Expressions are immutable once built and may be shared between queries.
package expr

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/dongjun6343/query/db/types"
)

// Node is one of the core node types a Style knows how to render:
// *Path, *EntityPath, *Constant, *Operation and *Alias.
type Node interface {
	node()
}

// Expression is anything that can appear in a query. Typed wrappers such as
// *StringPath or *NumberOperation return their core node from Node.
type Expression interface {
	fmt.Stringer
	Node() Node
}

// ExpressionOf is an Expression whose values have type T. It lets typed
// comparisons accept other expressions of the same type, e.g. a theta join
// condition between two string paths.
type ExpressionOf[T any] interface {
	Expression
	zero() T
}

// Entity is an aliased entity or a Q-type embedding one.
type Entity interface {
	Expression
	Root() *EntityPath
}

// TypeOf is the Go type values of e scan into: the value type of a typed
// expression, or *E for an entity. It is nil for untyped expressions.
func TypeOf(e Expression) reflect.Type {
	if t, ok := Unalias(e).(interface{ valueType() reflect.Type }); ok {
		return t.valueType()
	}
	return nil
}

// Style decides how paths, entities and constants are spelled. The SQL
// serializer binds constants as parameters; the object query style uses
// numbered placeholders and property names.
type Style interface {
	Path(p *Path) string
	Entity(e *EntityPath) string
	Constant(v any) string
}

// Render writes e using s.
func Render(e Expression, s Style) string {
	var b strings.Builder
	render(&b, e.Node(), s)
	return b.String()
}

// Constant is a bound value.
type Constant struct {
	Value any
}

func ConstantOf(v any) *Constant {
	return &Constant{Value: v}
}

func (c *Constant) node()          {}
func (c *Constant) Node() Node     { return c }
func (c *Constant) String() string { return Render(c, inline) }

// Alias names an expression in a projection.
type Alias struct {
	Target Expression
	Name   string
}

func (a *Alias) node()          {}
func (a *Alias) Node() Node     { return a }
func (a *Alias) String() string { return Render(a, inline) }

// Unalias strips any alias from e.
func Unalias(e Expression) Expression {
	for {
		a, ok := e.Node().(*Alias)
		if !ok {
			return e
		}
		e = a.Target
	}
}

// Operation applies an operator or function to its arguments.
type Operation struct {
	Op   types.SqlKeyWord
	Args []Expression
}

func (o *Operation) node()          {}
func (o *Operation) Node() Node     { return o }
func (o *Operation) String() string { return Render(o, inline) }

func precedence(n Node) int {
	op, ok := n.(*Operation)
	if !ok {
		return 100
	}

	switch op.Op {
	case types.Or:
		return 10
	case types.And:
		return 20
	case types.Not:
		return 30
	case types.Eq, types.Ne, types.Gt, types.Ge, types.Lt, types.Le,
		types.Like, types.NotLike, types.In, types.NotIn, types.Between,
		types.IsNull, types.IsNotNull:
		return 40
	default:
		return 100
	}
}

func render(b *strings.Builder, n Node, s Style) {
	switch n := n.(type) {
	case *Path:
		b.WriteString(s.Path(n))
	case *EntityPath:
		b.WriteString(s.Entity(n))
	case *Constant:
		b.WriteString(s.Constant(n.Value))
	case *Alias:
		render(b, n.Target.Node(), s)
		b.WriteString(" AS ")
		b.WriteString(n.Name)
	case *Operation:
		renderOperation(b, n, s)
	default:
		panic(fmt.Sprintf("expr: unknown node %T", n))
	}
}

func renderOperation(b *strings.Builder, op *Operation, s Style) {
	arg := func(i int) {
		child := op.Args[i].Node()
		if precedence(child) < precedence(op) {
			b.WriteString("(")
			render(b, child, s)
			b.WriteString(")")
			return
		}
		render(b, child, s)
	}

	switch op.Op {
	case types.And, types.Or:
		for i := range op.Args {
			if i > 0 {
				b.WriteString(" " + string(op.Op) + " ")
			}
			arg(i)
		}
	case types.Not:
		b.WriteString("NOT (")
		render(b, op.Args[0].Node(), s)
		b.WriteString(")")
	case types.IsNull, types.IsNotNull:
		arg(0)
		b.WriteString(" " + string(op.Op))
	case types.In, types.NotIn:
		if len(op.Args) == 1 {
			// empty list: IN matches nothing, NOT IN matches everything
			if op.Op == types.In {
				b.WriteString("1 = 0")
			} else {
				b.WriteString("1 = 1")
			}
			return
		}
		arg(0)
		b.WriteString(" " + string(op.Op) + " (")
		for i := 1; i < len(op.Args); i++ {
			if i > 1 {
				b.WriteString(", ")
			}
			arg(i)
		}
		b.WriteString(")")
	case types.Between:
		arg(0)
		b.WriteString(" BETWEEN ")
		arg(1)
		b.WriteString(" AND ")
		arg(2)
	case types.Like, types.NotLike:
		arg(0)
		b.WriteString(" " + string(op.Op) + " ")
		arg(1)
		b.WriteString(" ESCAPE '" + string(types.LikeEscape) + "'")
	case types.CountAll:
		b.WriteString("COUNT(*)")
	case types.CountDistinct:
		b.WriteString("COUNT(DISTINCT ")
		render(b, op.Args[0].Node(), s)
		b.WriteString(")")
	case types.Count, types.Sum, types.Avg, types.Max, types.Min, types.Lower, types.Upper:
		b.WriteString(string(op.Op))
		b.WriteString("(")
		render(b, op.Args[0].Node(), s)
		b.WriteString(")")
	default:
		arg(0)
		b.WriteString(" " + string(op.Op) + " ")
		arg(1)
	}
}

// inline renders constants in place, used by String.
var inline inlineStyle

type inlineStyle struct{}

func (inlineStyle) Path(p *Path) string {
	if p.parent == nil {
		return p.property
	}
	return p.parent.alias + "." + p.property
}

func (inlineStyle) Entity(e *EntityPath) string {
	return e.alias
}

func (inlineStyle) Constant(v any) string {
	switch v := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	case nil:
		return "NULL"
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprint(v)
	}
}

func escapeLike(s string) string {
	esc := string(types.LikeEscape)
	r := strings.NewReplacer(esc, esc+esc, "%", esc+"%", "_", esc+"_")
	return r.Replace(s)
}
