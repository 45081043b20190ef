package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"tgshop/internal/domain/model"
	repo "tgshop/internal/repository"

	"github.com/shopspring/decimal"
)

const maxHistoryLimit = 50

type OrderUsecase struct {
	tx           repo.TransactionManager
	users        repo.UserRepository
	orders       repo.OrderRepository
	orderItems   repo.OrderItemRepository
	defaultLimit int
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	users repo.UserRepository,
	orders repo.OrderRepository,
	orderItems repo.OrderItemRepository,
	defaultLimit int,
) *OrderUsecase {
	if defaultLimit < 1 {
		defaultLimit = 5
	}
	return &OrderUsecase{
		tx:           tx,
		users:        users,
		orders:       orders,
		orderItems:   orderItems,
		defaultLimit: defaultLimit,
	}
}

// CreateOrder buys quantity units of sku for the user in one transaction.
// The order and its single item are written together or not at all.
func (u *OrderUsecase) CreateOrder(ctx context.Context, externalID int64, sku string, quantity int64) (model.Order, error) {
	sku = strings.TrimSpace(sku)

	var out model.Order

	//注文処理はトランザクション
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := r.Users().FindByExternalID(ctx, externalID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUnknownUser
		}
		if err != nil {
			return storageErr(err)
		}

		p, err := r.Products().FindBySKU(ctx, sku)
		if errors.Is(err, repo.ErrNotFound) || (err == nil && !p.IsActive) {
			return ErrUnknownProduct
		}
		if err != nil {
			return storageErr(err)
		}

		if quantity < 1 {
			return ErrInvalidQuantity
		}
		// 合計がDECIMAL(12,2)を超える注文は受けない（sqliteでは丸められて明細と合わなくなる）
		if p.Price.Mul(decimal.NewFromInt(quantity)).GreaterThan(model.MaxMoney) {
			return ErrInvalidQuantity
		}

		//在庫減算（在庫管理している商品だけ）
		if p.TracksStock() {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, p.ID, quantity)
			if err != nil {
				return storageErr(err)
			}
			if !ok {
				return ErrInsufficientStock
			}
		}

		//スナップショット
		now := time.Now()
		items := []model.OrderItem{{
			ProductID:            p.ID,
			ProductSKU:           p.SKU,
			ProductTitleSnapshot: p.Title,
			UnitPrice:            p.Price,
			Quantity:             quantity,
			CreatedAt:            now,
		}}

		order := model.Order{
			UserID:    user.ID,
			Status:    model.OrderStatusCreated,
			Total:     items[0].LineTotal(),
			CreatedAt: now,
		}
		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return storageErr(err)
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
			return storageErr(err)
		}

		order.ID = orderID
		order.Items = items
		out = order
		return nil
	})

	if err != nil {
		return model.Order{}, classify(err)
	}
	return out, nil
}

// 新しい順。未登録ユーザーはエラーではなく空
func (u *OrderUsecase) ListOrdersForUser(ctx context.Context, externalID int64, limit int) ([]model.Order, error) {
	if limit <= 0 {
		limit = u.defaultLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	user, err := u.users.FindByExternalID(ctx, externalID)
	if errors.Is(err, repo.ErrNotFound) {
		return []model.Order{}, nil
	}
	if err != nil {
		return nil, storageErr(err)
	}

	orders, err := u.orders.ListByUserID(ctx, user.ID, limit)
	if err != nil {
		return nil, storageErr(err)
	}
	if len(orders) == 0 {
		return []model.Order{}, nil
	}

	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	items, err := u.orderItems.ListByOrderIDs(ctx, ids)
	if err != nil {
		return nil, storageErr(err)
	}

	byOrder := make(map[int64][]model.OrderItem, len(orders))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
	}
	return orders, nil
}
