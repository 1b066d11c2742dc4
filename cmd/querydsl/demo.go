package main

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/dongjun6343/query"
	"github.com/dongjun6343/query/cache"
	"github.com/dongjun6343/query/internal/config"
	"github.com/dongjun6343/query/internal/database"
	"github.com/dongjun6343/query/internal/example/model"
	"github.com/dongjun6343/query/internal/example/model/qmodel"
	"github.com/dongjun6343/query/internal/log"
	"github.com/dongjun6343/query/internal/seed"
	"github.com/dongjun6343/query/migrations"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Migrate, seed when empty and run example queries",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		f, err := database.Open(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := migrations.Up(ctx, f.DB().DB, f.Dialect()); err != nil {
			return err
		}

		count, err := query.SelectFrom[model.Member](f, qmodel.Member).FetchCount(ctx)
		if err != nil {
			return err
		}
		if count == 0 {
			if _, err := seed.Default().Apply(ctx, f); err != nil {
				return err
			}
		}

		manager, closeCache := newCacheManager(cfg)
		defer closeCache()
		logger.Debug().Str("cache", cacheName(cfg)).Msg("demo cache")

		return runDemo(ctx, f, manager)
	},
}

func newCacheManager(cfg *config.Config) (query.CacheManager[[]*model.Member], func()) {
	if cfg.Redis.Address == "" {
		return cache.NewLocal[[]*model.Member](cfg.Redis.TTL), func() {}
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Address})
	return cache.NewRedis[[]*model.Member](client, "querydsl:", cfg.Redis.TTL), func() { _ = client.Close() }
}

func cacheName(cfg *config.Config) string {
	if cfg.Redis.Address == "" {
		return "local"
	}
	return "redis " + cfg.Redis.Address
}

func runDemo(ctx context.Context, f *query.Factory, manager query.CacheManager[[]*model.Member]) error {
	member, team := qmodel.Member, qmodel.Team

	// 팀 A에 소속된 모든 회원
	inTeamA := query.SelectFrom[model.Member](f, member).
		Join(member.Team, team).
		Where(team.Name.Eq("teamA")).
		OrderBy(member.Username.Asc().NullsLast())
	log.Infof("%s", inTeamA)

	cfg := &query.CacheConfig[[]*model.Member]{Manager: manager, Key: "demo:members:teamA", QueryTimeOut: 5 * time.Second}
	for i := 0; i < 2; i++ {
		start := time.Now()
		members, err := inTeamA.Fetch(query.CacheableCtx(ctx, cfg))
		if err != nil {
			return err
		}
		log.Logf("  %v (%s)", members, time.Since(start))
	}

	// 팀의 이름과 각 팀의 평균 연령
	byTeam := query.SelectTuple(f, team.Name, member.Count(), member.Age.Avg()).
		From(member).
		Join(member.Team, team).
		GroupBy(team.Name).
		OrderBy(team.Name.Asc())
	log.Infof("%s", byTeam)
	tuples, err := byTeam.Fetch(ctx)
	if err != nil {
		return err
	}
	for _, t := range tuples {
		log.Logf("  %s: %d members, average age %.1f", t.GetString(team.Name), t.GetInt64(member.Count()), t.GetFloat64(member.Age.Avg()))
	}

	page, err := query.SelectFrom[model.Member](f, member).
		FetchPage(ctx, query.NewPaging(1, 2).AddOrders(member.Age.Desc()))
	if err != nil {
		return err
	}
	log.Infof("page %d of %d, %d members", page.PageNum, page.TotalPages, page.TotalCount)
	for _, m := range page.Records {
		log.Logf("  %s", m)
	}

	oldest, err := query.Native[*model.Member](f, "SELECT * FROM member WHERE age = (SELECT MAX(age) FROM member)").
		GetResultList(ctx)
	if err != nil {
		return err
	}
	log.Infof("oldest: %v", oldest)
	return nil
}
