package codegen

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/dongjun6343/query/internal/errors"
	"github.com/dongjun6343/query/internal/log"
	"github.com/dongjun6343/query/internal/utils"
)

var qTypeTmpl = template.Must(template.New("qtype").Funcs(template.FuncMap{
	"pathType":    pathType,
	"constructor": constructor,
}).Parse(qTypeTemplate))

func pathType(f *FieldSpec) string {
	switch f.Kind {
	case NumberPath:
		return "*expr.NumberPath[" + f.ValueType + "]"
	case StringPath:
		return "*expr.StringPath"
	default:
		return "*expr.SimplePath[" + f.ValueType + "]"
	}
}

func constructor(f *FieldSpec) string {
	switch {
	case f.Primary:
		return "expr.NewIDPath[" + f.ValueType + "]"
	case f.Kind == NumberPath:
		return "expr.NewNumberPath[" + f.ValueType + "]"
	case f.Kind == StringPath:
		return "expr.NewStringPath"
	default:
		return "expr.NewSimplePath[" + f.ValueType + "]"
	}
}

// Generator renders the Q-types of one model file into a package.
type Generator struct {
	model         *ModelFile
	outputPackage string
	outputImport  string
}

// NewGenerator writes into the package outputImport. An empty outputImport
// generates next to the model.
func NewGenerator(model *ModelFile, outputImport string) *Generator {
	if outputImport == "" {
		outputImport = model.ImportPath
	}
	return &Generator{
		model:         model,
		outputPackage: utils.GetPackageName(outputImport),
		outputImport:  outputImport,
	}
}

type templateData struct {
	Package     string
	ModelImport string
	ModelType   string
	Entity      *EntitySpec
}

// Source renders and formats the file of one entity.
func (g *Generator) Source(entity *EntitySpec) ([]byte, error) {
	data := templateData{
		Package:   g.outputPackage,
		ModelType: entity.Name,
		Entity:    entity,
	}
	if g.outputImport != g.model.ImportPath {
		data.ModelImport = g.model.ImportPath
		data.ModelType = g.model.PackageName + "." + entity.Name
	}

	buffer := bytes.NewBufferString(fileHeaderComment)
	if err := qTypeTmpl.Execute(buffer, data); err != nil {
		return nil, errors.Wrapf(err, "execute template of %s", entity.Name)
	}

	source, err := imports.Process(FileName(entity), buffer.Bytes(), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "format source of %s", entity.Name)
	}
	return source, nil
}

// Execute writes every entity to dir and returns the written files.
func (g *Generator) Execute(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "mkdir %s error", dir)
	}

	files := make([]string, 0, len(g.model.Entities))
	for _, entity := range g.model.Entities {
		source, err := g.Source(entity)
		if err != nil {
			return nil, err
		}

		filename := filepath.Join(dir, FileName(entity))
		if err := os.WriteFile(filename, source, 0644); err != nil {
			return nil, errors.Wrapf(err, "write source to %s failed", filename)
		}
		log.Debugf("generated %s", filename)
		files = append(files, filename)
	}

	return files, nil
}

// FileName is the generated file of entity, e.g. member_gen.go.
func FileName(entity *EntitySpec) string {
	return strings.ToLower(entity.Name) + "_gen.go"
}
