package sqlbuilder

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/dongjun6343/query/db/dialect"
	"github.com/dongjun6343/query/db/expr"
	"github.com/dongjun6343/query/internal/example/model/qmodel"
)

func TestBuild(t *testing.T) {
	member, team := qmodel.Member, qmodel.Team

	tests := []struct {
		name    string
		dialect dialect.Dialect
		meta    *Metadata
		args    []any
	}{
		{
			name:    "select_where",
			dialect: dialect.SQLite{},
			meta: &Metadata{
				Projection: []expr.Expression{member},
				From:       []*expr.EntityPath{member.Root()},
				Where:      member.Username.Eq("member1").And(member.Age.Eq(10)),
			},
			args: []any{"member1", 10},
		},
		{
			name:    "sort_nulls_last",
			dialect: dialect.SQLite{},
			meta: &Metadata{
				Projection: []expr.Expression{member},
				From:       []*expr.EntityPath{member.Root()},
				Where:      member.Age.Eq(100),
				OrderBy:    []*expr.OrderSpecifier{member.Age.Desc(), member.Username.Asc().NullsLast()},
			},
			args: []any{100},
		},
		{
			name:    "sort_nulls_last_mysql",
			dialect: dialect.MySQL{},
			meta: &Metadata{
				Projection: []expr.Expression{member},
				From:       []*expr.EntityPath{member.Root()},
				Where:      member.Age.Eq(100),
				OrderBy:    []*expr.OrderSpecifier{member.Age.Desc(), member.Username.Asc().NullsLast()},
			},
			args: []any{100},
		},
		{
			name:    "paging_postgres",
			dialect: dialect.Postgres{},
			meta: &Metadata{
				Projection: []expr.Expression{member},
				From:       []*expr.EntityPath{member.Root()},
				OrderBy:    []*expr.OrderSpecifier{member.Username.Desc()},
				Offset:     1,
				Limit:      2,
			},
		},
		{
			name:    "aggregation",
			dialect: dialect.SQLite{},
			meta: &Metadata{
				Projection: []expr.Expression{member.Count(), member.Age.Sum(), member.Age.Avg(), member.Age.Max(), member.Age.Min()},
				From:       []*expr.EntityPath{member.Root()},
			},
		},
		{
			name:    "group_join",
			dialect: dialect.SQLite{},
			meta: &Metadata{
				Projection: []expr.Expression{team.Name, member.Age.Avg()},
				From:       []*expr.EntityPath{member.Root()},
				Joins:      []*Join{{Type: InnerJoin, Association: member.Team, Target: team.Root()}},
				GroupBy:    []expr.Expression{team.Name},
				Having:     member.Age.Avg().Gt(10),
			},
			args: []any{float64(10)},
		},
		{
			name:    "left_join_on",
			dialect: dialect.SQLite{},
			meta: &Metadata{
				Projection: []expr.Expression{member, team},
				From:       []*expr.EntityPath{member.Root()},
				Joins:      []*Join{{Type: LeftJoin, Association: member.Team, Target: team.Root(), On: team.Name.Eq("teamA")}},
			},
			args: []any{"teamA"},
		},
		{
			name:    "theta_join",
			dialect: dialect.SQLite{},
			meta: &Metadata{
				Projection: []expr.Expression{member},
				From:       []*expr.EntityPath{member.Root(), team.Root()},
				Where:      member.Username.EqExpr(team.Name),
			},
		},
	}

	g := goldie.New(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := Build(tt.dialect, tt.meta)
			g.Assert(t, tt.name, []byte(query))
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestBuildMySQLNullsWithConstant(t *testing.T) {
	member := qmodel.Member

	m := &Metadata{
		Projection: []expr.Expression{member},
		From:       []*expr.EntityPath{member.Root()},
		Where:      member.Username.Eq("member1"),
		OrderBy:    []*expr.OrderSpecifier{expr.Desc(member.Age.Gt(20)).NullsFirst()},
	}
	query, args := Build(dialect.MySQL{}, m)
	assert.Equal(t, "SELECT member1.id, member1.username, member1.age, member1.team_id FROM member member1"+
		" WHERE member1.username = ?"+
		" ORDER BY CASE WHEN member1.age > ? IS NULL THEN 0 ELSE 1 END, member1.age > ? DESC", query)
	assert.Equal(t, []any{"member1", 20, 20}, args)
	assert.Equal(t, strings.Count(query, "?"), len(args))
}

func TestBuildCount(t *testing.T) {
	member, team := qmodel.Member, qmodel.Team

	plain := &Metadata{
		Projection: []expr.Expression{member},
		From:       []*expr.EntityPath{member.Root()},
		Where:      member.Age.Goe(20),
		OrderBy:    []*expr.OrderSpecifier{member.Age.Desc()},
		Limit:      10,
	}
	query, args := BuildCount(dialect.SQLite{}, plain)
	assert.Equal(t, "SELECT COUNT(*) FROM member member1 WHERE member1.age >= ?", query)
	assert.Equal(t, []any{20}, args)

	grouped := &Metadata{
		Projection: []expr.Expression{team.Name, member.Age.Avg()},
		From:       []*expr.EntityPath{member.Root()},
		Joins:      []*Join{{Type: InnerJoin, Association: member.Team, Target: team.Root()}},
		GroupBy:    []expr.Expression{team.Name},
	}
	query, _ = BuildCount(dialect.SQLite{}, grouped)
	assert.Equal(t, "SELECT COUNT(*) FROM (SELECT 1 FROM member member1 INNER JOIN team team ON member1.team_id = team.id GROUP BY team.name) t", query)

	distinct := &Metadata{
		Distinct:   true,
		Projection: []expr.Expression{member.Age},
		From:       []*expr.EntityPath{member.Root()},
	}
	query, _ = BuildCount(dialect.SQLite{}, distinct)
	assert.Equal(t, "SELECT COUNT(*) FROM (SELECT DISTINCT member1.age FROM member member1) t", query)
}

func TestObjectQuery(t *testing.T) {
	member, team := qmodel.Member, qmodel.Team

	m := &Metadata{
		Projection: []expr.Expression{member, team},
		From:       []*expr.EntityPath{member.Root()},
		Joins:      []*Join{{Type: LeftJoin, Association: member.Team, Target: team.Root(), On: team.Name.Eq("teamA")}},
		Where:      member.Age.Gt(10),
		OrderBy:    []*expr.OrderSpecifier{member.Username.Asc().NullsLast()},
	}
	want := "select member1, team\n" +
		"from Member member1\n" +
		"  left join member1.team as team with team.name = ?1\n" +
		"where member1.age > ?2\n" +
		"order by member1.username asc nulls last"
	assert.Equal(t, want, ObjectQuery(m))
}

func TestMetadataClone(t *testing.T) {
	member, team := qmodel.Member, qmodel.Team

	m := &Metadata{
		From:  []*expr.EntityPath{member.Root()},
		Joins: []*Join{{Type: InnerJoin, Association: member.Team, Target: team.Root()}},
	}
	c := m.Clone()
	c.Joins[0].On = team.Name.Eq("teamA")
	c.From = append(c.From, team.Root())

	assert.Nil(t, m.Joins[0].On)
	assert.Len(t, m.From, 1)
}

func TestSimpleBuilders(t *testing.T) {
	insert := &InsertBuilder{TableName: "member", Field: []string{"username", "age"}, Batch: 2}
	assert.Equal(t, "INSERT INTO member (username, age) VALUES (?, ?), (?, ?)", insert.Build())

	returning := &InsertBuilder{TableName: "team", Field: []string{"name"}, Returning: "id"}
	assert.Equal(t, "INSERT INTO team (name) VALUES (?) RETURNING id", returning.Build())

	update := &UpdateBuilder{TableName: "member", Fields: []string{"username", "age"}, Condition: []string{"id"}}
	assert.Equal(t, "UPDATE member SET username = ?, age = ? WHERE id = ?", update.Build())

	del := &DeleteBuilder{TableName: "member", Condition: []string{"id"}}
	assert.Equal(t, "DELETE FROM member WHERE id = ?", del.Build())

	sel := &SelectSQLBuilder{TableName: "member", Fields: []string{"id", "age"}, Condition: []string{"id"}, DescOrderBy: []string{"age"}, Limit: 1}
	assert.Equal(t, "SELECT id, age FROM member WHERE id = ? ORDER BY age DESC LIMIT 1", sel.Build(dialect.MySQL{}))
}
