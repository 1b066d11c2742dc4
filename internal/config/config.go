// Package config loads the CLI configuration from QUERYDSL_ prefixed
// environment variables, optionally read from .env files first.
//
//	QUERYDSL_DATABASE_DRIVER=sqlite3        -> database.driver
//	QUERYDSL_DATABASE_DSN=file:demo.db      -> database.dsn
//	QUERYDSL_LOG_LEVEL=debug                -> log.level
package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const EnvPrefix = "QUERYDSL_"

type Config struct {
	Env      string         `koanf:"env" validate:"required,oneof=local test production"`
	Database DatabaseConfig `koanf:"database" validate:"required"`
	Log      LogConfig      `koanf:"log"`
	Redis    RedisConfig    `koanf:"redis"`
}

type DatabaseConfig struct {
	Driver          string        `koanf:"driver" validate:"required,oneof=mysql sqlite3 pgx"`
	DSN             string        `koanf:"dsn" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	// SlowQueryThreshold enables slow query logging when positive.
	SlowQueryThreshold time.Duration `koanf:"slow_query_threshold"`
}

type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
	// SQL logs every statement with its parameters.
	SQL bool `koanf:"sql"`
}

type RedisConfig struct {
	// Address enables the redis query cache, host:port.
	Address string        `koanf:"address" validate:"omitempty,hostname_port"`
	TTL     time.Duration `koanf:"ttl"`
}

func Default() *Config {
	return &Config{
		Env: "local",
		Database: DatabaseConfig{
			Driver:       "sqlite3",
			DSN:          "file:querydsl.db?_foreign_keys=on",
			MaxOpenConns: 1,
			MaxIdleConns: 1,
		},
		Log: LogConfig{
			Level: "info",
		},
		Redis: RedisConfig{
			TTL: time.Minute,
		},
	}
}

// Load reads envFiles (missing files are skipped), then the environment, over
// the defaults, and validates the result.
func Load(envFiles ...string) (*Config, error) {
	for _, file := range envFiles {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return nil, errors.Wrapf(err, "load %s", file)
		}
	}

	k := koanf.New(".")
	// QUERYDSL_DATABASE_MAX_OPEN_CONNS -> database.max_open_conns
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, "load env")
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return cfg, nil
}
