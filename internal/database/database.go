// Package database opens the configured database as a query.Factory.
package database

import (
	"context"
	"strings"
	"time"

	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/dongjun6343/query"
	"github.com/dongjun6343/query/internal/config"
	"github.com/dongjun6343/query/internal/logger"
)

// DatabasePingTimeout bounds the startup ping.
const DatabasePingTimeout = 10 * time.Second

func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*query.Factory, error) {
	db, err := open(cfg, log)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	if IsMemorySQLite(cfg.Database.Driver, cfg.Database.DSN) {
		// 内存数据库每个连接都是独立的
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, DatabasePingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping database")
	}

	var opts []query.Option
	// pgx logs statements through its own tracer
	if cfg.Log.SQL && cfg.Database.Driver != "pgx" {
		opts = append(opts, query.WithSqlDebug(logger.NewSQLLogger(log)))
	}
	if cfg.Database.SlowQueryThreshold > 0 {
		opts = append(opts, query.WithSlowQueryLogging(cfg.Database.SlowQueryThreshold, logger.SlowQuery(log)))
	}

	f, err := query.NewFactory(db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Info().Str("driver", cfg.Database.Driver).Msg("connected to the database")
	return f, nil
}

func open(cfg *config.Config, log zerolog.Logger) (*sqlx.DB, error) {
	if cfg.Database.Driver != "pgx" {
		db, err := sqlx.Open(cfg.Database.Driver, cfg.Database.DSN)
		return db, errors.Wrapf(err, "open %s", cfg.Database.Driver)
	}

	connConfig, err := pgx.ParseConfig(cfg.Database.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "parse pgx config")
	}
	if cfg.Log.SQL {
		connConfig.Tracer = &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(log),
			LogLevel: logger.PgxTraceLogLevel(log.GetLevel()),
		}
	}

	return sqlx.NewDb(stdlib.OpenDB(*connConfig), "pgx"), nil
}

func IsMemorySQLite(driver, dsn string) bool {
	return driver == "sqlite3" && (strings.HasPrefix(dsn, ":memory:") || strings.Contains(dsn, "mode=memory"))
}
