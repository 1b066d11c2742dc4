// Package codegen generates Q-types for model structs:
//
//	type Member struct {
//		types.TableName `tableName:"member"`
//		ID    int64           `db:"id" tableField:"primary,autoIncrement"`
//		Name  nullable.String `db:"username"`
//		Team  *Team           `db:"-" joinColumn:"team_id"`
//	}
//
// becomes a QMember with one typed path per column and an association per
// joinColumn field.
package codegen

import (
	"go/ast"
	astparser "go/parser"
	"go/token"
	"go/types"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/mangohow/mangokit/tools/collection"
	"github.com/mangohow/mangokit/tools/stream"

	dbtypes "github.com/dongjun6343/query/db/types"
	"github.com/dongjun6343/query/internal/errors"
	"github.com/dongjun6343/query/internal/utils"
	"github.com/dongjun6343/query/internal/utils/stringutils"
)

const (
	tableNameMarker    = "TableName"
	referencedTagKey   = "referencedColumn"
	defaultTargetField = "id"
)

var (
	numberTypes = collection.NewSetFromSlice([]string{
		"int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64",
		"float32", "float64",
	})

	// nullable wrappers and the value type they scan
	nullableTypes = map[string]string{
		"nullable.String": "string",
		"nullable.Int64":  "int64",
		"sql.NullString":  "string",
		"sql.NullInt64":   "int64",
		"sql.NullInt32":   "int32",
		"sql.NullInt16":   "int16",
		"sql.NullFloat64": "float64",
		"sql.NullBool":    "bool",
		"sql.NullTime":    "time.Time",
		"sql.NullByte":    "byte",
	}

	// 与SQL关键字冲突的别名加上后缀1
	reservedAliases = collection.NewSetFromSlice([]string{
		"member", "user", "order", "group", "select", "from", "where", "table",
		"join", "left", "right", "limit", "offset", "key", "index", "values",
	})
)

// ParseFile reads the entities declared in a model source file.
func ParseFile(filename string) (*ModelFile, error) {
	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "reading file %s failed", filename)
	}
	importPath, err := utils.GetCurrentPackagePath(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "import path of %s", filename)
	}

	return Parse(source, importPath)
}

// Parse reads the entities of source, a file of the package importPath.
func Parse(source []byte, importPath string) (*ModelFile, error) {
	source = utils.TrimLineWithPrefix(source, []byte("//go:build "), []byte("// +build"), []byte("//go:generate"))
	f, err := astparser.ParseFile(token.NewFileSet(), "", source, astparser.ParseComments)
	if err != nil {
		return nil, errors.Errorf("parse source file failed, reason: %s", err)
	}

	res := &ModelFile{PackageName: f.Name.Name, ImportPath: importPath}
	for _, decl := range f.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}

		for _, spec := range genDecl.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok || !ts.Name.IsExported() || ts.TypeParams != nil {
				continue
			}
			structType, ok := ts.Type.(*ast.StructType)
			if !ok || structType.Fields == nil {
				continue
			}

			entity, err := parseEntity(ts.Name.Name, structType.Fields.List)
			if err != nil {
				return nil, errors.Wrapf(err, "parse model %s failed", ts.Name.Name)
			}
			if entity != nil {
				res.Entities = append(res.Entities, entity)
			}
		}
	}

	if len(res.Entities) == 0 {
		return nil, errors.Errorf("no struct with a %s marker in package %s", tableNameMarker, res.PackageName)
	}
	return res, nil
}

// parseEntity returns nil for structs without a table name marker.
func parseEntity(name string, fields []*ast.Field) (*EntitySpec, error) {
	marker, found := utils.Find(fields, isTableNameMarker)
	if !found {
		return nil, nil
	}

	table := tagOf(marker).Get(dbtypes.TableNameTagKey)
	if table == "" {
		return nil, errors.Errorf("tableName tag is not specified, model struct is %s", name)
	}

	entity := &EntitySpec{Name: name, Table: table, Alias: defaultAlias(name)}
	named := stream.Filter(fields, func(field *ast.Field) bool {
		return len(field.Names) > 0 && field.Names[0].IsExported()
	})
	for _, field := range named {
		tag := tagOf(field)
		column := tag.Get(dbtypes.ColumnTagKey)
		fieldName := field.Names[0].Name

		if joinColumn := tag.Get(dbtypes.JoinColumnTagKey); joinColumn != "" {
			target := tag.Get(referencedTagKey)
			if target == "" {
				target = defaultTargetField
			}
			entity.Associations = append(entity.Associations, &AssociationSpec{
				Name:         fieldName,
				Property:     stringutils.LowerCamel(fieldName),
				JoinField:    joinColumn,
				TargetColumn: target,
			})
			continue
		}
		if column == "" || column == "-" {
			continue
		}
		if len(field.Names) > 1 {
			return nil, errors.Errorf("repeated field %s shares one db tag", fieldName)
		}

		spec := &FieldSpec{
			Name:     fieldName,
			Property: stringutils.LowerCamel(fieldName),
			Column:   column,
			Primary:  slices.Contains(strings.Split(tag.Get(dbtypes.TableFieldTagKey), ","), dbtypes.TablePrimaryIdTagValue),
		}
		spec.Kind, spec.ValueType = pathKind(types.ExprString(field.Type))
		entity.Fields = append(entity.Fields, spec)
	}

	primaries := stream.Filter(entity.Fields, func(f *FieldSpec) bool { return f.Primary })
	if len(primaries) > 1 {
		return nil, errors.Errorf("invalid multiple primary key field in model struct %s", name)
	}
	if len(primaries) == 1 && primaries[0].Kind != NumberPath {
		return nil, errors.Errorf("primary key %s.%s must be numeric", name, primaries[0].Name)
	}

	// 关联字段引用的外键列替换为字段名
	for _, assoc := range entity.Associations {
		joinField, ok := utils.Find(entity.Fields, func(f *FieldSpec) bool { return f.Column == assoc.JoinField })
		if !ok {
			return nil, errors.Errorf("join column %s of %s.%s is not mapped", assoc.JoinField, name, assoc.Name)
		}
		assoc.JoinField = joinField.Name
	}

	return entity, nil
}

func isTableNameMarker(field *ast.Field) bool {
	if len(field.Names) != 0 {
		return false
	}
	switch ft := field.Type.(type) {
	case *ast.SelectorExpr:
		return ft.Sel.Name == tableNameMarker
	case *ast.Ident:
		return ft.Name == tableNameMarker
	}
	return false
}

func tagOf(field *ast.Field) reflect.StructTag {
	if field.Tag == nil {
		return ""
	}
	return reflect.StructTag(strings.Trim(field.Tag.Value, "`"))
}

// pathKind maps a field type to the path kind and value type parameter.
func pathKind(typ string) (PathKind, string) {
	if v, ok := nullableTypes[typ]; ok {
		typ = v
	} else if inner, ok := strings.CutPrefix(typ, "nullable.Value["); ok {
		typ = strings.TrimSuffix(inner, "]")
	} else if inner, ok := strings.CutPrefix(typ, "sql.Null["); ok {
		typ = strings.TrimSuffix(inner, "]")
	}

	switch {
	case typ == "string":
		return StringPath, typ
	case numberTypes.Has(typ):
		return NumberPath, typ
	default:
		return SimplePath, strings.TrimPrefix(typ, "*")
	}
}

func defaultAlias(name string) string {
	alias := stringutils.LowerFirst(name)
	if reservedAliases.Has(alias) {
		alias += "1"
	}
	return alias
}
