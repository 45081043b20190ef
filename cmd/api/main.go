package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tgshop/internal/app"
	"tgshop/internal/config"
	"tgshop/internal/infra/db"
	"tgshop/internal/server"
	"tgshop/internal/validator"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "api:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := app.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB接続
	gdb, err := app.OpenDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(gdb) }()

	uc := app.NewUsecases(gdb, cfg)

	limiter, closeLimiter := app.NewLimiter(cfg, "admin", log)
	defer closeLimiter()

	e, err := server.New(server.Deps{
		Log:          log,
		Catalog:      uc.Catalog,
		Orders:       uc.Orders,
		Assistant:    uc.Assistant,
		Validator:    validator.NewProductValidator(),
		Ping:         pinger(gdb),
		AdminLimiter: limiter,
	})
	if err != nil {
		return err
	}

	log.Info("starting api", zap.String("env", cfg.Env), zap.String("db_driver", cfg.DBDriver))
	return server.Start(ctx, e, cfg.Port, log)
}

func pinger(gdb *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error { return db.Ping(ctx, gdb) }
}
