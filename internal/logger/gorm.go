package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// sqlLogger はgormのログをzapに流す。
// contextにloggerがあればそれを使うので、HTTPならrequest_id、botならupdate_id/chat_idがSQL行にも付く
type sqlLogger struct {
	base  *zap.Logger
	level gormlogger.LogLevel
	slow  time.Duration // 0なら遅延警告なし
}

// DI
func NewGormLogger(base *zap.Logger, level gormlogger.LogLevel, slow time.Duration) gormlogger.Interface {
	return &sqlLogger{base: base, level: level, slow: slow}
}

func (l *sqlLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *sqlLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		l.scoped(ctx).Info(fmt.Sprintf(msg, data...))
	}
}

func (l *sqlLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		l.scoped(ctx).Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *sqlLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		l.scoped(ctx).Error(fmt.Sprintf(msg, data...))
	}
}

// Trace はクエリ1本ごとに呼ばれる。NotFoundはusecase側で扱うので出さない
func (l *sqlLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	slow := l.slow > 0 && elapsed > l.slow

	switch {
	case err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound):
		if l.level >= gormlogger.Error {
			sql, rows := fc()
			l.scoped(ctx).Error("db query failed", queryFields(sql, rows, elapsed, zap.Error(err))...)
		}
	case slow && l.level >= gormlogger.Warn:
		sql, rows := fc()
		l.scoped(ctx).Warn("slow query", queryFields(sql, rows, elapsed, zap.Duration("threshold", l.slow))...)
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		l.scoped(ctx).Debug("query", queryFields(sql, rows, elapsed)...)
	}
}

func (l *sqlLogger) scoped(ctx context.Context) *zap.Logger {
	if scoped, ok := loggerFrom(ctx); ok {
		return scoped.Named("sql")
	}
	return l.base.Named("sql")
}

func queryFields(sql string, rows int64, elapsed time.Duration, extra ...zap.Field) []zap.Field {
	return append([]zap.Field{
		zap.String("sql", sql),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}, extra...)
}

// MapGormLogLevel follows the app log level; debug turns on query logging
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
