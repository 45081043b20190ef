package logger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("whatever"))
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := New(&Config{Level: "debug", Format: "json", Output: path})
	require.NoError(t, err)
	l.Info("hello")
	require.NoError(t, l.Sync())
	assert.FileExists(t, path)
}

func TestContextHelpers(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
	assert.Empty(t, GetRequestID(context.Background()))

	core, logs := observer.New(zapcore.InfoLevel)
	ctx, l := WithRequestID(context.Background(), zap.New(core), "req-1")
	assert.Equal(t, "req-1", GetRequestID(ctx))

	l.Info("a")
	FromContext(ctx).Info("b")
	for _, e := range logs.All() {
		assert.Equal(t, "req-1", e.ContextMap()["request_id"])
	}
	assert.Equal(t, 2, logs.Len())
}

func TestGormLogger_Trace(t *testing.T) {
	sql := func() (string, int64) { return "SELECT 1", 1 }

	t.Run("errors logged, record not found ignored", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Warn, 0)

		gl.Trace(context.Background(), time.Now(), sql, gormlogger.ErrRecordNotFound)
		assert.Equal(t, 0, logs.Len())

		gl.Trace(context.Background(), time.Now(), sql, errors.New("no such table"))
		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "db query failed", logs.All()[0].Message)
		assert.Equal(t, "sql", logs.All()[0].LoggerName)
	})

	t.Run("slow query carries the request id", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.NewNop(), gormlogger.Warn, time.Millisecond)
		ctx, _ := WithRequestID(context.Background(), zap.New(core), "req-9")

		gl.Trace(ctx, time.Now().Add(-time.Second), sql, nil)
		require.Equal(t, 1, logs.Len())
		e := logs.All()[0]
		assert.Equal(t, zapcore.WarnLevel, e.Level)
		assert.Equal(t, "slow query", e.Message)
		assert.Equal(t, "req-9", e.ContextMap()["request_id"])
	})

	t.Run("slow query carries the chat id", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.NewNop(), gormlogger.Warn, time.Millisecond)
		ctx := WithContext(context.Background(), zap.New(core).With(zap.Int64("chat_id", 100)))

		gl.Trace(ctx, time.Now().Add(-time.Second), sql, nil)
		require.Equal(t, 1, logs.Len())
		assert.Equal(t, int64(100), logs.All()[0].ContextMap()["chat_id"])
	})

	t.Run("no threshold no warning", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Warn, 0)
		gl.Trace(context.Background(), time.Now().Add(-time.Hour), sql, nil)
		assert.Equal(t, 0, logs.Len())
	})

	t.Run("info level logs every query", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Info, 0)
		gl.Trace(context.Background(), time.Now(), sql, nil)
		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "SELECT 1", logs.All()[0].ContextMap()["sql"])
	})

	t.Run("silent", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		gl := NewGormLogger(zap.New(core), gormlogger.Warn, 0).LogMode(gormlogger.Silent)
		gl.Trace(context.Background(), time.Now(), sql, errors.New("x"))
		assert.Equal(t, 0, logs.Len())
	})
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("info"))
}
