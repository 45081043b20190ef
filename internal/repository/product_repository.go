package repository

import (
	"context"
	"errors"

	"tgshop/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 一意制約違反（SKU・external_idの重複）
var ErrDuplicate = errors.New("duplicate key")

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	// is_active=trueのみ、id昇順。limit<=0なら全件
	ListActive(ctx context.Context, limit int) ([]model.Product, error)
	// 管理画面用（無効な商品も含む）
	ListAll(ctx context.Context) ([]model.Product, error)
	FindBySKU(ctx context.Context, sku string) (model.Product, error)
	CountActive(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
}
