// Package app wires configuration, storage and usecases for the commands.
package app

import (
	"context"
	"fmt"

	"tgshop/internal/config"
	"tgshop/internal/infra/db"
	infraRepo "tgshop/internal/infra/repository"
	"tgshop/internal/logger"
	"tgshop/internal/ratelimit"
	"tgshop/internal/usecase"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewLogger(cfg config.Config) (*zap.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: "stdout",
	})
}

// Usecases はbotとwebが共有する
type Usecases struct {
	Users     *usecase.UserUsecase
	Catalog   *usecase.CatalogUsecase
	Orders    *usecase.OrderUsecase
	Assistant *usecase.AssistantUsecase
}

func NewUsecases(gdb *gorm.DB, cfg config.Config) Usecases {
	//Repository（GORM実装）
	userRepo := infraRepo.NewUserGormRepository(gdb)
	productRepo := infraRepo.NewProductGormRepository(gdb)
	orderRepo := infraRepo.NewOrderGormRepository(gdb)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gdb)
	aiLogRepo := infraRepo.NewAiLogGormRepository(gdb)
	txm := infraRepo.NewTxManagerGorm(gdb)

	return Usecases{
		Users:     usecase.NewUserUsecase(userRepo),
		Catalog:   usecase.NewCatalogUsecase(productRepo, cfg.CatalogLimit),
		Orders:    usecase.NewOrderUsecase(txm, userRepo, orderRepo, orderItemRepo, cfg.OrderHistoryLimit),
		Assistant: usecase.NewAssistantUsecase(userRepo, productRepo, aiLogRepo, cfg.SuggestionCount),
	}
}

// OpenDatabase connects, migrates and optionally seeds the demo catalog.
func OpenDatabase(ctx context.Context, cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	gdb, err := db.Connect(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	if err := db.Migrate(gdb); err != nil {
		_ = db.Close(gdb)
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if cfg.SeedDemo {
		n, err := NewUsecases(gdb, cfg).Catalog.SeedDemoProducts(ctx)
		if err != nil {
			_ = db.Close(gdb)
			return nil, fmt.Errorf("seed: %w", err)
		}
		if n > 0 {
			log.Info("demo products seeded", zap.Int("count", n))
		}
	}
	return gdb, nil
}

// NewLimiter returns a Redis limiter when REDIS_ADDR is set, Noop otherwise.
// The returned close func is always safe to call.
func NewLimiter(cfg config.Config, prefix string, log *zap.Logger) (ratelimit.Limiter, func()) {
	if !cfg.RateLimitEnabled() {
		return ratelimit.Noop{}, func() {}
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	log.Info("rate limiting enabled",
		zap.String("redis", cfg.RedisAddr),
		zap.String("scope", prefix),
		zap.Int("limit", cfg.RateLimit),
		zap.Duration("window", cfg.RateWindow),
	)
	return ratelimit.NewRedisLimiter(rdb, prefix, cfg.RateLimit, cfg.RateWindow), func() { _ = rdb.Close() }
}
