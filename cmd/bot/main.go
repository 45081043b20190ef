package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tgshop/internal/app"
	"tgshop/internal/bot"
	"tgshop/internal/config"
	"tgshop/internal/infra/db"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"go.uber.org/zap"
)

func main() {
	check := flag.Bool("check", false, "call getMe and exit")
	flag.Parse()

	if err := run(*check); err != nil {
		fmt.Fprintln(os.Stderr, "bot:", err)
		os.Exit(1)
	}
}

func run(check bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.RequireBotToken(); err != nil {
		return err
	}

	log, err := app.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}

	if check {
		name, err := bot.Check(api)
		if err != nil {
			return err
		}
		fmt.Printf("ok: @%s\n", name)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := app.OpenDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(gdb) }()

	uc := app.NewUsecases(gdb, cfg)

	limiter, closeLimiter := app.NewLimiter(cfg, "bot", log)
	defer closeLimiter()

	b := bot.New(bot.Deps{
		Users:        uc.Users,
		Catalog:      uc.Catalog,
		Orders:       uc.Orders,
		Assistant:    uc.Assistant,
		Sender:       bot.NewTelegramSender(api),
		Limiter:      limiter,
		Log:          log,
		HistoryLimit: cfg.OrderHistoryLimit,
	})

	log.Info("starting bot", zap.String("env", cfg.Env), zap.String("db_driver", cfg.DBDriver))
	return b.Poll(ctx, api, cfg.BotPollTimeout)
}
