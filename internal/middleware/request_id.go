package middleware

import (
	"tgshop/internal/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	HeaderRequestID = "X-Request-ID"
	CtxRequestIDKey = "request_id" // string
)

// 受け取ったX-Request-IDを使い、無ければ発行する。
// request_id付きのloggerをcontextに入れる
func RequestID(base *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(HeaderRequestID)
			if id == "" || len(id) > 64 {
				id = uuid.NewString()
			}

			ctx, _ := logger.WithRequestID(c.Request().Context(), base, id)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set(CtxRequestIDKey, id)
			c.Response().Header().Set(HeaderRequestID, id)

			return next(c)
		}
	}
}
