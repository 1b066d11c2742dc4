package codegen

// PathKind selects the expr path type generated for a column.
type PathKind int

const (
	SimplePath PathKind = iota
	NumberPath
	StringPath
)

// ModelFile is one parsed model source file.
type ModelFile struct {
	PackageName string
	ImportPath  string
	Entities    []*EntitySpec
}

// EntitySpec is a struct carrying a tableName marker.
type EntitySpec struct {
	Name         string
	Table        string
	Alias        string
	Fields       []*FieldSpec
	Associations []*AssociationSpec
}

// FieldSpec is one mapped column.
type FieldSpec struct {
	Name      string
	Property  string
	Column    string
	Kind      PathKind
	ValueType string
	Primary   bool
}

// AssociationSpec is a to-one relationship declared with a joinColumn tag.
type AssociationSpec struct {
	Name         string
	Property     string
	JoinField    string
	TargetColumn string
}
