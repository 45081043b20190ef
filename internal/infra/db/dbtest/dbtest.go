// Package dbtest opens throwaway in-memory databases for tests.
package dbtest

import (
	"testing"

	"tgshop/internal/domain/model"
	"tgshop/internal/infra/db"
	"tgshop/internal/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open returns a migrated in-memory sqlite database.
// One connection only, otherwise every new connection sees an empty database.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.NewGormLogger(zap.NewNop(), gormlogger.Silent, 0),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func Stock(n int64) *int64 { return &n }

// MustProduct inserts an active product.
func MustProduct(t testing.TB, gdb *gorm.DB, sku, title, price string, stock *int64) model.Product {
	t.Helper()
	p := model.Product{
		SKU:      sku,
		Title:    title,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
	}
	require.NoError(t, gdb.Create(&p).Error)
	return p
}

func MustUser(t testing.TB, gdb *gorm.DB, externalID int64, name string) model.User {
	t.Helper()
	u := model.User{ExternalID: externalID, DisplayName: name}
	require.NoError(t, gdb.Create(&u).Error)
	return u
}
