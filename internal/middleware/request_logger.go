package middleware

import (
	"fmt"
	"net/http"
	"time"

	"tgshop/internal/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request; 5xx at error, 4xx at warn.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)
			if err != nil {
				// echoのエラーハンドラにステータスを決めさせる
				c.Error(err)
			}

			status := c.Response().Status
			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
				zap.String("client_ip", c.RealIP()),
				zap.Int64("body_size", c.Response().Size),
			}
			if req.URL.RawQuery != "" {
				fields = append(fields, zap.String("query", req.URL.RawQuery))
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}

			l := logger.FromContext(req.Context())
			switch {
			case status >= 500:
				l.Error("HTTP Request", fields...)
			case status >= 400:
				l.Warn("HTTP Request", fields...)
			default:
				l.Info("HTTP Request", fields...)
			}
			return nil
		}
	}
}

// Recover turns a handler panic into a logged 500.
func Recover() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.FromContext(c.Request().Context()).Error("Panic recovered",
						zap.String("path", c.Request().URL.Path),
						zap.String("panic", fmt.Sprint(r)),
						zap.Stack("stacktrace"),
					)
					err = c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
				}
			}()
			return next(c)
		}
	}
}
