package server

import (
	"tgshop/internal/handler"
	"tgshop/internal/middleware"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, d Deps) {
	handler.NewHealthHandler(d.Ping).RegisterRoutes(e)
	handler.NewPageHandler(d.Catalog, d.Orders).RegisterRoutes(e)
	handler.NewProductHandler(d.Catalog).RegisterRoutes(e)
	handler.NewOrderHandler(d.Orders, d.Assistant).RegisterRoutes(e)

	// 管理画面の書き込みだけレート制限
	handler.NewAdminProductHandler(d.Catalog, d.Validator).RegisterRoutes(e, middleware.RateLimit(d.AdminLimiter))
}
