package repository

import "context"

// 在庫の増減だけを約束。
type InventoryRepository interface {
	// 在庫が足りるときだけ減らす。足りなければfalse
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)
}
