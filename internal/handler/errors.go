package handler

import (
	"errors"
	"net/http"

	"tgshop/internal/logger"
	"tgshop/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// エラー時のJSON
type ErrorResponse struct {
	Error string `json:"error"`
}

// usecaseのエラーをHTTPステータスに寄せる
func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrNotFound),
		errors.Is(err, usecase.ErrUnknownProduct),
		errors.Is(err, usecase.ErrUnknownUser):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrDuplicateSKU):
		return http.StatusConflict
	case errors.Is(err, usecase.ErrInvalidInput),
		errors.Is(err, usecase.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrInsufficientStock):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// 500の中身は外に出さない
func publicMessage(status int, err error) string {
	if status == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.FromContext(c.Request().Context()).Error("request failed", zap.Error(err))
	}
	return c.JSON(status, ErrorResponse{Error: publicMessage(status, err)})
}
