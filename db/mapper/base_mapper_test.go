package mapper_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dongjun6343/query/db/mapper"
	"github.com/dongjun6343/query/db/nullable"
	"github.com/dongjun6343/query/db/types"
	"github.com/dongjun6343/query/internal/example/model"
	"github.com/dongjun6343/query/internal/testdb"
)

func TestMapper(t *testing.T) {
	f := testdb.Tx(t, testdb.New(t))
	ctx := context.Background()

	teams, err := mapper.New[model.Team](f)
	require.NoError(t, err)
	members, err := mapper.New[model.Member](f)
	require.NoError(t, err)

	teamA := model.NewTeam("teamA")
	n, err := teams.Insert(ctx, teamA)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.NotZero(t, teamA.ID)

	member1 := model.NewMember("member1", 10, teamA)
	_, err = members.Insert(ctx, member1)
	require.NoError(t, err)
	assert.Equal(t, nullable.Int64From(teamA.ID), member1.TeamID)

	n, err = members.InsertBatch(ctx, []*model.Member{
		model.NewMember("member2", 20, teamA),
		model.NewMember("", 30, nil),
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	count, err := members.SelectCount(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	found, err := members.SelectById(ctx, member1.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "member1", found.Username.V)
	assert.Equal(t, 10, found.Age)

	missing, err := members.SelectById(ctx, -1)
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, err := members.SelectList(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.True(t, list[2].Username.IsNull())
	assert.True(t, list[2].TeamID.IsNull())

	found.Age = 11
	found.Username = nullable.StringFrom("renamed")
	n, err = members.UpdateById(ctx, found, mapper.IncludeFields("age"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	updated, err := members.SelectById(ctx, member1.ID)
	require.NoError(t, err)
	assert.Equal(t, 11, updated.Age)
	assert.Equal(t, "member1", updated.Username.V)

	batch, err := members.SelectBatchIds(ctx, list[0].ID, list[1].ID)
	require.NoError(t, err)
	assert.Len(t, batch, 2)

	n, err = members.DeleteBatchIds(ctx, list[1].ID, list[2].ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = members.DeleteById(ctx, member1.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	count, err = members.SelectCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUsing(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()

	teams, err := mapper.New[model.Team](db)
	require.NoError(t, err)

	tx, err := db.Begin(ctx)
	require.NoError(t, err)
	_, err = teams.Using(tx.Factory).Insert(ctx, model.NewTeam("teamA"))
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	count, err := teams.SelectCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestExcludeFields(t *testing.T) {
	f := testdb.Tx(t, testdb.New(t))
	ctx := context.Background()

	members, err := mapper.New[model.Member](f)
	require.NoError(t, err)

	m := model.NewMember("member1", 10, nil)
	_, err = members.Insert(ctx, m, mapper.ExcludeFields("age"))
	require.NoError(t, err)

	found, err := members.SelectById(ctx, m.ID)
	require.NoError(t, err)
	assert.Zero(t, found.Age)
}

type noTable struct {
	ID int64 `db:"id" tableField:"primary"`
}

type noPrimary struct {
	types.TableName `tableName:"thing"`
	Name            string `db:"name"`
}

func TestInvalidEntities(t *testing.T) {
	f := testdb.New(t)

	_, err := mapper.New[noTable](f)
	assert.ErrorIs(t, err, mapper.ErrNoTableName)

	_, err = mapper.New[noPrimary](f)
	assert.ErrorIs(t, err, mapper.ErrNoPrimaryKey)
}
