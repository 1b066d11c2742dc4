package codegen

const fileHeaderComment = "// Code generated by querydsl gen. DO NOT EDIT.\n\n"

const exprImportPath = "github.com/dongjun6343/query/db/expr"

var qTypeTemplate = `package {{ .Package }}

import (
	"reflect"

	"` + exprImportPath + `"
{{- if .ModelImport }}
	"{{ .ModelImport }}"
{{- end }}
)

// Q{{ .Entity.Name }} is the query type for {{ .ModelType }}.
type Q{{ .Entity.Name }} struct {
	*expr.EntityPath
{{- range .Entity.Fields }}
	{{ .Name }} {{ pathType . }}
{{- end }}
{{- range .Entity.Associations }}
	{{ .Name }} *expr.Association
{{- end }}
}

func NewQ{{ .Entity.Name }}(alias string) *Q{{ .Entity.Name }} {
	q := &Q{{ .Entity.Name }}{EntityPath: expr.NewEntityPath("{{ .Entity.Name }}", "{{ .Entity.Table }}", alias, reflect.TypeFor[{{ .ModelType }}]())}
{{- range .Entity.Fields }}
	q.{{ .Name }} = {{ constructor . }}(q.EntityPath, "{{ .Property }}", "{{ .Column }}")
{{- end }}
{{- range .Entity.Associations }}
	q.{{ .Name }} = expr.NewAssociation(q.EntityPath, "{{ .Property }}", q.{{ .JoinField }}.Path, "{{ .TargetColumn }}")
{{- end }}
	return q
}

var {{ .Entity.Name }} = NewQ{{ .Entity.Name }}("{{ .Entity.Alias }}")
`
