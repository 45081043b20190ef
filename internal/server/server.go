package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"tgshop/internal/handler"
	"tgshop/internal/middleware"
	"tgshop/internal/ratelimit"
	"tgshop/internal/usecase"
	"tgshop/internal/validator"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Deps は画面/APIの組み立てに必要なもの
type Deps struct {
	Log          *zap.Logger
	Catalog      *usecase.CatalogUsecase
	Orders       *usecase.OrderUsecase
	Assistant    *usecase.AssistantUsecase
	Validator    *validator.ProductValidator
	Ping         func(ctx context.Context) error
	AdminLimiter ratelimit.Limiter
}

// New builds the echo instance with middleware, renderer and every route.
func New(d Deps) (*echo.Echo, error) {
	renderer, err := handler.NewTemplateRenderer()
	if err != nil {
		return nil, err
	}
	if d.AdminLimiter == nil {
		d.AdminLimiter = ratelimit.Noop{}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer

	e.Use(middleware.RequestID(d.Log))
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())

	RegisterRoutes(e, d)
	return e, nil
}

// Start はctxが終わるまでサーバを動かし、終わったらgracefulに止める
func Start(ctx context.Context, e *echo.Echo, addr string, log *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
