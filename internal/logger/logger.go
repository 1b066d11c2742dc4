// Package logger builds the zerolog loggers used by the CLI and adapts them
// to the query interceptors and the pgx tracer.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// New returns a console logger at level; unknown levels fall back to info.
func New(level string, out io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if out == nil {
		out = os.Stderr
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

// SQLLogger logs statements at debug level, see query.WithSqlDebug.
type SQLLogger struct {
	log zerolog.Logger
}

func NewSQLLogger(log zerolog.Logger) *SQLLogger {
	return &SQLLogger{log: log.With().Str("component", "sql").Logger()}
}

func (l *SQLLogger) Debug(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

// SlowQuery reports slow statements at warn level, see
// query.WithSlowQueryLogging.
func SlowQuery(log zerolog.Logger) func(used time.Duration, sql string) {
	return func(used time.Duration, sql string) {
		log.Warn().Dur("used", used).Str("sql", sql).Msg("slow query")
	}
}

// PgxTraceLogLevel maps a zerolog level to the pgx tracelog level.
func PgxTraceLogLevel(level zerolog.Level) tracelog.LogLevel {
	switch level {
	case zerolog.TraceLevel:
		return tracelog.LogLevelTrace
	case zerolog.DebugLevel:
		return tracelog.LogLevelDebug
	case zerolog.InfoLevel:
		return tracelog.LogLevelInfo
	case zerolog.WarnLevel:
		return tracelog.LogLevelWarn
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		return tracelog.LogLevelError
	default:
		return tracelog.LogLevelNone
	}
}
