package repository

import (
	"context"

	"tgshop/internal/domain/model"
)

type OrderRepository interface {
	Create(ctx context.Context, order model.Order) (int64, error)
	// 新しい順（id desc）
	ListByUserID(ctx context.Context, userID int64, limit int) ([]model.Order, error)
}
