package middleware

import (
	"net/http"

	"tgshop/internal/logger"
	"tgshop/internal/ratelimit"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// IP単位のレート制限。Redisが落ちているときは通す
func RateLimit(l ratelimit.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, err := l.Allow(c.Request().Context(), "ip:"+c.RealIP())
			if err != nil {
				logger.FromContext(c.Request().Context()).Warn("rate limiter unavailable", zap.Error(err))
				return next(c)
			}
			if !ok {
				return c.JSON(http.StatusTooManyRequests, errorJSON("too many requests"))
			}
			return next(c)
		}
	}
}
