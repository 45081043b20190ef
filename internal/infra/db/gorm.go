package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tgshop/internal/config"
	"tgshop/internal/domain/model"
	"tgshop/internal/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// これより遅いクエリはwarnで出す
const slowQuery = 200 * time.Millisecond

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		Logger:         logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.LogLevel), slowQuery),
		TranslateError: true,
	}

	switch cfg.DBDriver {
	case config.DriverPostgres:
		return gorm.Open(postgres.Open(cfg.DatabaseURL), gcfg)
	case config.DriverSQLite:
		if err := ensureDir(cfg.DatabaseURL); err != nil {
			return nil, err
		}
		gdb, err := gorm.Open(sqlite.Open(sqliteDSN(cfg.DatabaseURL)), gcfg)
		if err != nil {
			return nil, err
		}
		// sqliteは書き込みが1本なので接続も1本に絞る
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return gdb, nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
	}
}

// Migrate はテーブルを作成/更新する
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(model.All()...)
}

// Ping はヘルスチェック用
func Ping(ctx context.Context, gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// 外部キーとbusy_timeoutを有効にする
func sqliteDSN(path string) string {
	if path == ":memory:" {
		return path
	}
	return "file:" + path + "?_foreign_keys=1&_busy_timeout=5000"
}

func ensureDir(path string) error {
	if path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
