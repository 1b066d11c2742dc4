package codegen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	modelDir    = "../example/model"
	modelImport = "github.com/dongjun6343/query/internal/example/model"
)

// The checked in query types must match what the generator produces.
func TestGeneratedModelIsUpToDate(t *testing.T) {
	for _, name := range []string{"member", "team"} {
		t.Run(name, func(t *testing.T) {
			model, err := ParseFile(filepath.Join(modelDir, name+".go"))
			require.NoError(t, err)
			assert.Equal(t, modelImport, model.ImportPath)
			require.Len(t, model.Entities, 1)

			source, err := NewGenerator(model, modelImport+"/qmodel").Source(model.Entities[0])
			require.NoError(t, err)

			want, err := os.ReadFile(filepath.Join(modelDir, "qmodel", name+"_gen.go"))
			require.NoError(t, err)
			assert.Equal(t, string(want), string(source))
		})
	}
}

func TestParse(t *testing.T) {
	src := `package shop

import (
	"time"

	"github.com/dongjun6343/query/db/nullable"
	"github.com/dongjun6343/query/db/types"
)

//go:generate querydsl gen -f $GOFILE

type Order struct {
	types.TableName ` + "`tableName:\"orders\"`" + `
	ID        uint64                  ` + "`db:\"id\" tableField:\"primary\"`" + `
	Price     float64                 ` + "`db:\"price\"`" + `
	Note      nullable.Value[string]  ` + "`db:\"note\"`" + `
	Paid      bool                    ` + "`db:\"paid\"`" + `
	CreatedAt time.Time               ` + "`db:\"created_at\"`" + `
	BuyerID   nullable.Int64          ` + "`db:\"buyer_id\"`" + `
	Buyer     *Buyer                  ` + "`db:\"-\" joinColumn:\"buyer_id\" referencedColumn:\"user_id\"`" + `
	cache     string
}

type Buyer struct {
	Name string
}
`
	model, err := Parse([]byte(src), "example.com/shop")
	require.NoError(t, err)

	assert.Equal(t, "shop", model.PackageName)
	require.Len(t, model.Entities, 1)
	order := model.Entities[0]
	assert.Equal(t, "orders", order.Table)
	assert.Equal(t, "order1", order.Alias)

	assert.Equal(t, []*FieldSpec{
		{Name: "ID", Property: "id", Column: "id", Kind: NumberPath, ValueType: "uint64", Primary: true},
		{Name: "Price", Property: "price", Column: "price", Kind: NumberPath, ValueType: "float64"},
		{Name: "Note", Property: "note", Column: "note", Kind: StringPath, ValueType: "string"},
		{Name: "Paid", Property: "paid", Column: "paid", Kind: SimplePath, ValueType: "bool"},
		{Name: "CreatedAt", Property: "createdAt", Column: "created_at", Kind: SimplePath, ValueType: "time.Time"},
		{Name: "BuyerID", Property: "buyerId", Column: "buyer_id", Kind: NumberPath, ValueType: "int64"},
	}, order.Fields)
	assert.Equal(t, []*AssociationSpec{
		{Name: "Buyer", Property: "buyer", JoinField: "BuyerID", TargetColumn: "user_id"},
	}, order.Associations)

	source, err := NewGenerator(model, "example.com/shop/qshop").Source(order)
	require.NoError(t, err)
	assert.Contains(t, string(source), "package qshop")
	assert.Contains(t, string(source), `CreatedAt *expr.SimplePath[time.Time]`)
	assert.Contains(t, string(source), `q.Buyer = expr.NewAssociation(q.EntityPath, "buyer", q.BuyerID.Path, "user_id")`)
	assert.Contains(t, string(source), `var Order = NewQOrder("order1")`)
}

func TestGenerateIntoModelPackage(t *testing.T) {
	src := "package shop\n\ntype Item struct {\n\ttypes.TableName `tableName:\"item\"`\n\tID int64 `db:\"id\" tableField:\"primary\"`\n}\n"
	model, err := Parse([]byte(src), "example.com/shop")
	require.NoError(t, err)

	source, err := NewGenerator(model, "").Source(model.Entities[0])
	require.NoError(t, err)
	assert.Contains(t, string(source), "reflect.TypeFor[Item]()")
	assert.NotContains(t, string(source), `"example.com/shop"`)
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"no entity":          "package shop\n\ntype A struct{ Name string }\n",
		"no table name":      "package shop\n\ntype A struct {\n\ttypes.TableName\n\tID int64 `db:\"id\"`\n}\n",
		"two primary keys":   "package shop\n\ntype A struct {\n\ttypes.TableName `tableName:\"a\"`\n\tID int64 `db:\"id\" tableField:\"primary\"`\n\tNo int64 `db:\"no\" tableField:\"primary\"`\n}\n",
		"unmapped join":      "package shop\n\ntype A struct {\n\ttypes.TableName `tableName:\"a\"`\n\tB *B `db:\"-\" joinColumn:\"b_id\"`\n}\n",
		"string primary key": "package shop\n\ntype A struct {\n\ttypes.TableName `tableName:\"a\"`\n\tID string `db:\"id\" tableField:\"primary\"`\n}\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(src), "example.com/shop")
			assert.Error(t, err)
		})
	}
}

func TestExecute(t *testing.T) {
	model, err := ParseFile(filepath.Join(modelDir, "member.go"))
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "qmodel")
	files, err := NewGenerator(model, modelImport+"/qmodel").Execute(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, "member_gen.go")}, files)
	assert.FileExists(t, files[0])
}
