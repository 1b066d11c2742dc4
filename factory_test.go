package query_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dongjun6343/query"
	"github.com/dongjun6343/query/cache"
	"github.com/dongjun6343/query/db/dialect"
	"github.com/dongjun6343/query/db/mapper"
	"github.com/dongjun6343/query/internal/example/model"
	"github.com/dongjun6343/query/internal/testdb"
)

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Debug(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func countingInterceptor(n *atomic.Int32) query.InterceptorHandler {
	return func(option *query.ExecOption, next query.Handler) (any, error) {
		n.Add(1)
		return next(option)
	}
}

func TestSqlDebugInterceptor(t *testing.T) {
	logger := &recordingLogger{}
	f := setup(t, query.WithSqlDebug(logger))
	logger.lines = nil

	_, err := query.SelectFrom[model.Member](f, member).
		Where(member.Username.Eq("member1")).
		Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, logger.lines, 2)
	assert.Contains(t, logger.lines[0], "WHERE member1.username = ?")
	assert.Equal(t, `PARAMETERS ==> string("member1")`, logger.lines[1])
}

func TestFormatArgs(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, `string("a"), int(1), NULL, DATETIME(2024-05-01 12:30:00)`, query.FormatArgs([]any{"a", 1, nil, at}))
}

func TestInterceptorOrder(t *testing.T) {
	var calls []string
	record := func(name string) query.InterceptorHandler {
		return func(option *query.ExecOption, next query.Handler) (any, error) {
			calls = append(calls, name)
			return next(option)
		}
	}

	f := testdb.New(t, query.WithExecuteInterceptors(record("factory")))
	f.SetSlowQueryLoggingInterceptor(record("slow"))

	ctx := query.WithInterceptors(context.Background(), record("ctx"))
	_, err := query.SelectFrom[model.Team](f, team).Fetch(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"factory", "ctx", "slow"}, calls)
}

func TestInterceptorSeesStatement(t *testing.T) {
	f := setup(t)

	var seen *query.ExecOption
	ctx := query.WithInterceptors(context.Background(), func(option *query.ExecOption, next query.Handler) (any, error) {
		seen = option
		return next(option)
	})
	_, err := query.SelectFrom[model.Member](f, member).Where(member.Age.Gt(10)).Fetch(ctx)
	require.NoError(t, err)

	require.NotNil(t, seen)
	assert.Equal(t, query.SQLTypeSelect, seen.SQLType)
	assert.Equal(t, []any{10}, seen.Args)
	assert.Equal(t, "select member1\nfrom Member member1\nwhere member1.age > ?1", seen.Extension)
}

func TestSlowQueryLogging(t *testing.T) {
	var slow []string
	f := setup(t, query.WithSlowQueryLogging(0, func(used time.Duration, sql string) {
		slow = append(slow, sql)
	}))
	slow = nil

	_, err := query.SelectFrom[model.Member](f, member).Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, slow, 1)
	assert.Contains(t, slow[0], "FROM member member1")
}

func TestInterceptorError(t *testing.T) {
	f := setup(t)
	boom := errors.New("boom")

	ctx := query.WithInterceptors(context.Background(), func(*query.ExecOption, query.Handler) (any, error) {
		return nil, boom
	})
	_, err := query.SelectFrom[model.Member](f, member).Fetch(ctx)
	assert.ErrorIs(t, err, boom)
}

func TestCacheable(t *testing.T) {
	var hits atomic.Int32
	f := setup(t, query.WithExecuteInterceptors(countingInterceptor(&hits)))
	hits.Store(0)

	cfg := &query.CacheConfig[[]*model.Member]{
		Manager: cache.NewLocal[[]*model.Member](time.Minute),
		Key:     "members:teamA",
	}
	q := query.SelectFrom[model.Member](f, member).
		Join(member.Team, team).
		Where(team.Name.Eq("teamA")).
		OrderBy(member.ID.Asc())

	for range 3 {
		found, err := q.Fetch(query.CacheableCtx(context.Background(), cfg))
		require.NoError(t, err)
		assert.Equal(t, []string{"member1", "member2"}, usernames(found))
	}
	assert.EqualValues(t, 1, hits.Load())

	m, err := mapper.New[model.Member](f)
	require.NoError(t, err)
	_, err = m.DeleteBatchIds(query.CacheEvictCtx(context.Background(), cfg), -1)
	require.NoError(t, err)

	_, err = q.Fetch(query.CacheableCtx(context.Background(), cfg))
	require.NoError(t, err)
	assert.EqualValues(t, 3, hits.Load())
}

func TestCacheableNil(t *testing.T) {
	var hits atomic.Int32
	f := setup(t, query.WithExecuteInterceptors(countingInterceptor(&hits)))
	hits.Store(0)

	cfg := &query.CacheConfig[*model.Member]{
		Manager: cache.NewLocal[*model.Member](time.Minute),
		Key:     "member:nobody",
	}
	m, err := mapper.New[model.Member](f)
	require.NoError(t, err)

	for range 2 {
		found, err := m.SelectById(query.CacheableCtx(context.Background(), cfg), -1)
		require.NoError(t, err)
		assert.Nil(t, found)
	}
	assert.EqualValues(t, 2, hits.Load())
}

func TestCacheableSelectList(t *testing.T) {
	var hits atomic.Int32
	f := setup(t, query.WithExecuteInterceptors(countingInterceptor(&hits)))
	hits.Store(0)
	ctx := context.Background()

	m, err := mapper.New[model.Member](f)
	require.NoError(t, err)
	listCfg := &query.CacheConfig[[]*model.Member]{
		Manager: cache.NewLocal[[]*model.Member](time.Minute),
		Key:     "members:all",
	}
	for range 2 {
		found, err := m.SelectList(query.CacheableCtx(ctx, listCfg))
		require.NoError(t, err)
		assert.Equal(t, []string{"member1", "member2", "member3", "member4"}, usernames(found))
	}
	assert.EqualValues(t, 1, hits.Load())

	nativeCfg := &query.CacheConfig[[]*model.Member]{
		Manager: cache.NewLocal[[]*model.Member](time.Minute),
		Key:     "members:old",
	}
	for range 2 {
		found, err := query.Native[*model.Member](f, "SELECT id, username, age, team_id FROM member WHERE age >= :age ORDER BY id").
			SetParameter("age", 30).
			GetResultList(query.CacheableCtx(ctx, nativeCfg))
		require.NoError(t, err)
		assert.Equal(t, []string{"member3", "member4"}, usernames(found))
	}
	assert.EqualValues(t, 2, hits.Load())

	countCfg := &query.CacheConfig[int64]{
		Manager: cache.NewLocal[int64](time.Minute),
		Key:     "members:count",
	}
	for range 2 {
		count, err := m.SelectCount(query.CacheableCtx(ctx, countCfg))
		require.NoError(t, err)
		assert.EqualValues(t, 4, count)
	}
	assert.EqualValues(t, 3, hits.Load())
}

func TestCacheableFetchResults(t *testing.T) {
	var hits atomic.Int32
	f := setup(t, query.WithExecuteInterceptors(countingInterceptor(&hits)))
	hits.Store(0)
	ctx := context.Background()

	cfg := &query.CacheConfig[[]*model.Member]{
		Manager: cache.NewLocal[[]*model.Member](time.Minute),
		Key:     "members:window",
	}
	q := query.SelectFrom[model.Member](f, member).
		OrderBy(member.Age.Asc()).
		Offset(1).
		Limit(2)
	for range 2 {
		res, err := q.FetchResults(query.CacheableCtx(ctx, cfg))
		require.NoError(t, err)
		assert.EqualValues(t, 4, res.Total)
		assert.Equal(t, []string{"member2", "member3"}, usernames(res.Results))
	}
	// count + fetch, then the count alone
	assert.EqualValues(t, 3, hits.Load())

	pageCfg := &query.CacheConfig[[]*model.Member]{
		Manager: cache.NewLocal[[]*model.Member](time.Minute),
		Key:     "members:page2",
	}
	for range 2 {
		page, err := query.SelectFrom[model.Member](f, member).
			FetchPage(query.CacheableCtx(ctx, pageCfg), query.NewPaging(2, 3).AddOrders(member.Age.Asc()))
		require.NoError(t, err)
		assert.EqualValues(t, 4, page.TotalCount)
		assert.Equal(t, 2, page.TotalPages)
		assert.Equal(t, []string{"member4"}, usernames(page.Records))
	}
}

func TestCacheableWrongType(t *testing.T) {
	f := setup(t)

	cfg := &query.CacheConfig[int64]{
		Manager: cache.NewLocal[int64](time.Minute),
		Key:     "members:wrong",
	}
	_, err := query.SelectFrom[model.Member](f, member).Fetch(query.CacheableCtx(context.Background(), cfg))
	assert.ErrorContains(t, err, "cannot cache")

	_, exist, err := cfg.Manager.Get(context.Background(), cfg.Key)
	require.NoError(t, err)
	assert.False(t, exist)
}

func TestTransactional(t *testing.T) {
	f := testdb.New(t)
	ctx := context.Background()

	err := f.Transactional(ctx, func(tx *query.Factory) error {
		teams, err := mapper.New[model.Team](tx)
		if err != nil {
			return err
		}
		_, err = teams.Insert(ctx, model.NewTeam("committed"))
		return err
	})
	require.NoError(t, err)

	err = f.Transactional(ctx, func(tx *query.Factory) error {
		teams, err := mapper.New[model.Team](tx)
		if err != nil {
			return err
		}
		if _, err := teams.Insert(ctx, model.NewTeam("rolled back")); err != nil {
			return err
		}
		return errors.New("abort")
	})
	assert.EqualError(t, err, "abort")

	err = f.Transactional(ctx, func(tx *query.Factory) error {
		teams, err := mapper.New[model.Team](tx)
		if err != nil {
			return err
		}
		if _, err := teams.Insert(ctx, model.NewTeam("panicked")); err != nil {
			return err
		}
		panic("boom")
	})
	assert.EqualError(t, err, "recovered from boom")

	names, err := query.Select[string](f, team.Name).From(team).Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"committed"}, names)
}

func TestNestedBegin(t *testing.T) {
	tx := testdb.Tx(t, testdb.New(t))

	_, err := tx.Begin(context.Background())
	assert.ErrorIs(t, err, query.ErrInTransaction)
}

func TestPostgresRebind(t *testing.T) {
	f, err := query.NewFactory(sqlx.NewDb(nil, "pgx"))
	require.NoError(t, err)
	assert.Equal(t, dialect.Postgres{}, f.Dialect())

	stmt, args := query.SelectFrom[model.Member](f, member).
		Where(member.Age.Gt(10), member.Username.Eq("member1")).
		OrderBy(member.Username.Asc().NullsFirst()).
		Offset(5).
		SQL()
	assert.Equal(t, "SELECT member1.id, member1.username, member1.age, member1.team_id FROM member member1 "+
		"WHERE member1.age > $1 AND member1.username = $2 ORDER BY member1.username ASC NULLS FIRST OFFSET 5", stmt)
	assert.Equal(t, []any{10, "member1"}, args)
}
