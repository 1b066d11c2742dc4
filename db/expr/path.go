package expr

import (
	"reflect"

	"github.com/dongjun6343/query/db/types"
)

// Path is a column of an entity alias.
type Path struct {
	parent   *EntityPath
	property string
	column   string
}

func (p *Path) node()          {}
func (p *Path) Node() Node     { return p }
func (p *Path) String() string { return Render(p, inline) }

func (p *Path) Parent() *EntityPath { return p.parent }
func (p *Path) Property() string    { return p.property }
func (p *Path) Column() string      { return p.column }

// EntityPath is an aliased entity: the root every column path hangs off.
// Generated Q-types embed it.
type EntityPath struct {
	entity  string
	table   string
	alias   string
	typ     reflect.Type
	columns []*Path
	id      *Path
}

// NewEntityPath creates an entity alias. typ is the struct type rows of this
// entity scan into.
func NewEntityPath(entity, table, alias string, typ reflect.Type) *EntityPath {
	for typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return &EntityPath{
		entity: entity,
		table:  table,
		alias:  alias,
		typ:    typ,
	}
}

func (e *EntityPath) node()          {}
func (e *EntityPath) Node() Node     { return e }
func (e *EntityPath) String() string { return e.alias }

func (e *EntityPath) Entity() string     { return e.entity }
func (e *EntityPath) Table() string      { return e.table }
func (e *EntityPath) Alias() string      { return e.alias }
func (e *EntityPath) Type() reflect.Type { return e.typ }
func (e *EntityPath) ID() *Path          { return e.id }
func (e *EntityPath) Columns() []*Path   { return e.columns }

// ColumnPath returns the registered path for column, or an unregistered one
// when the column is not mapped.
func (e *EntityPath) ColumnPath(column string) *Path {
	for _, c := range e.columns {
		if c.column == column {
			return c
		}
	}
	return &Path{parent: e, property: column, column: column}
}

// Root lets generated Q-types, which embed *EntityPath, be used as an Entity.
func (e *EntityPath) Root() *EntityPath { return e }

func (e *EntityPath) valueType() reflect.Type {
	if e.typ == nil {
		return nil
	}
	return reflect.PointerTo(e.typ)
}

// Count counts rows of this entity by primary key.
func (e *EntityPath) Count() *NumberOperation[int64] {
	return newNumberOperation[int64](types.Count, e)
}

func (e *EntityPath) register(property, column string) *Path {
	p := &Path{parent: e, property: property, column: column}
	e.columns = append(e.columns, p)
	return p
}

// simpleOps is what every typed expression supports.
type simpleOps struct {
	self Expression
}

func (o simpleOps) IsNull() *Predicate {
	return newPredicate(types.IsNull, o.self)
}

func (o simpleOps) IsNotNull() *Predicate {
	return newPredicate(types.IsNotNull, o.self)
}

func (o simpleOps) Count() *NumberOperation[int64] {
	return newNumberOperation[int64](types.Count, o.self)
}

func (o simpleOps) CountDistinct() *NumberOperation[int64] {
	return newNumberOperation[int64](types.CountDistinct, o.self)
}

func (o simpleOps) Asc() *OrderSpecifier {
	return Asc(o.self)
}

func (o simpleOps) Desc() *OrderSpecifier {
	return Desc(o.self)
}

// As names the expression in a projection, used to scan into DTO fields.
func (o simpleOps) As(alias string) *Alias {
	return &Alias{Target: o.self, Name: alias}
}

// comparableOps adds equality and membership tests against values of type T.
type comparableOps[T any] struct {
	simpleOps
}

func (o comparableOps[T]) zero() T {
	var z T
	return z
}

func (o comparableOps[T]) valueType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (o comparableOps[T]) Eq(v T) *Predicate {
	return newPredicate(types.Eq, o.self, ConstantOf(v))
}

func (o comparableOps[T]) Ne(v T) *Predicate {
	return newPredicate(types.Ne, o.self, ConstantOf(v))
}

func (o comparableOps[T]) EqExpr(e ExpressionOf[T]) *Predicate {
	return newPredicate(types.Eq, o.self, e)
}

func (o comparableOps[T]) NeExpr(e ExpressionOf[T]) *Predicate {
	return newPredicate(types.Ne, o.self, e)
}

func (o comparableOps[T]) In(values ...T) *Predicate {
	return newPredicate(types.In, o.inArgs(values)...)
}

func (o comparableOps[T]) NotIn(values ...T) *Predicate {
	return newPredicate(types.NotIn, o.inArgs(values)...)
}

func (o comparableOps[T]) inArgs(values []T) []Expression {
	args := make([]Expression, 0, len(values)+1)
	args = append(args, o.self)
	for _, v := range values {
		args = append(args, ConstantOf(v))
	}
	return args
}

// SimplePath is a column with no ordering or arithmetic, e.g. bool or time.
type SimplePath[T any] struct {
	*Path
	comparableOps[T]
}

func NewSimplePath[T any](parent *EntityPath, property, column string) *SimplePath[T] {
	p := &SimplePath[T]{Path: parent.register(property, column)}
	p.comparableOps = comparableOps[T]{simpleOps{self: p}}
	return p
}

// Association is a to-one relationship: a foreign key column on the owning
// entity that references a column of the target entity.
type Association struct {
	parent       *EntityPath
	property     string
	joinColumn   *Path
	targetColumn string
}

func NewAssociation(parent *EntityPath, property string, joinColumn *Path, targetColumn string) *Association {
	return &Association{
		parent:       parent,
		property:     property,
		joinColumn:   joinColumn,
		targetColumn: targetColumn,
	}
}

func (a *Association) Parent() *EntityPath { return a.parent }
func (a *Association) Property() string    { return a.property }
func (a *Association) JoinColumn() *Path   { return a.joinColumn }

func (a *Association) String() string {
	return a.parent.alias + "." + a.property
}

// On is the join condition between the owning alias and target.
func (a *Association) On(target *EntityPath) *Predicate {
	return newPredicate(types.Eq, a.joinColumn, target.ColumnPath(a.targetColumn))
}

// IsNull matches owners with no associated row.
func (a *Association) IsNull() *Predicate {
	return newPredicate(types.IsNull, a.joinColumn)
}
