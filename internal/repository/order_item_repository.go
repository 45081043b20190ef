package repository

import (
	"context"

	"tgshop/internal/domain/model"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	// 履歴表示用にまとめて取る（N+1回避）
	ListByOrderIDs(ctx context.Context, orderIDs []int64) ([]model.OrderItem, error)
}
