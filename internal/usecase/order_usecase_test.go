package usecase_test

import (
	"context"
	"sync"
	"testing"

	"tgshop/internal/domain/model"
	"tgshop/internal/infra/db/dbtest"
	"tgshop/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder_TotalMatchesSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.EnsureUser(ctx, 42, "alice")
	require.NoError(t, err)
	dbtest.MustProduct(t, f.db, "SKU-1", "Mug", "9.99", nil)

	order, err := f.orders.CreateOrder(ctx, 42, "SKU-1", 3)
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("29.97").Equal(order.Total), "total=%s", order.Total)
	assert.Equal(t, model.OrderStatusCreated, order.Status)
	require.Len(t, order.Items, 1)
	assert.True(t, decimal.RequireFromString("9.99").Equal(order.Items[0].UnitPrice))
	assert.Equal(t, int64(3), order.Items[0].Quantity)
	assert.Equal(t, order.ID, order.Items[0].OrderID)

	// 読み直しても合計と明細が一致する
	history, err := f.orders.ListOrdersForUser(ctx, 42, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Len(t, history[0].Items, 1)
	assert.True(t, history[0].Total.Equal(history[0].ItemsTotal()))
	assert.Equal(t, "Mug", history[0].Items[0].ProductTitleSnapshot)
}

func TestCreateOrder_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dbtest.MustUser(t, f.db, 42, "alice")
	dbtest.MustProduct(t, f.db, "SKU-1", "Mug", "9.99", nil)
	hidden := dbtest.MustProduct(t, f.db, "SKU-OFF", "Old", "1.00", nil)
	require.NoError(t, f.db.Model(&hidden).Update("is_active", false).Error)

	tests := []struct {
		name       string
		externalID int64
		sku        string
		qty        int64
		wantErr    error
	}{
		{"unknown user", 7, "SKU-1", 1, usecase.ErrUnknownUser},
		{"unknown sku", 42, "NOPE", 1, usecase.ErrUnknownProduct},
		{"inactive product", 42, "SKU-OFF", 1, usecase.ErrUnknownProduct},
		{"zero quantity", 42, "SKU-1", 0, usecase.ErrInvalidQuantity},
		{"negative quantity", 42, "SKU-1", -2, usecase.ErrInvalidQuantity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.orders.CreateOrder(ctx, tt.externalID, tt.sku, tt.qty)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Equal(t, int64(0), count(t, f.db, "orders"))
	assert.Equal(t, int64(0), count(t, f.db, "order_items"))
}

func TestCreateOrder_StockTracking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dbtest.MustUser(t, f.db, 42, "alice")
	p := dbtest.MustProduct(t, f.db, "SKU-1", "Mug", "5.00", dbtest.Stock(2))

	_, err := f.orders.CreateOrder(ctx, 42, "SKU-1", 3)
	assert.ErrorIs(t, err, usecase.ErrInsufficientStock)

	var reloaded model.Product
	require.NoError(t, f.db.First(&reloaded, p.ID).Error)
	require.NotNil(t, reloaded.Stock)
	assert.Equal(t, int64(2), *reloaded.Stock)
	assert.Equal(t, int64(0), count(t, f.db, "orders"))

	_, err = f.orders.CreateOrder(ctx, 42, "SKU-1", 2)
	require.NoError(t, err)

	require.NoError(t, f.db.First(&reloaded, p.ID).Error)
	assert.Equal(t, int64(0), *reloaded.Stock)
}

func TestCreateOrder_PriceChangeKeepsHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dbtest.MustUser(t, f.db, 42, "alice")
	dbtest.MustProduct(t, f.db, "SKU-1", "Mug", "9.99", nil)

	_, err := f.orders.CreateOrder(ctx, 42, "SKU-1", 1)
	require.NoError(t, err)

	_, err = f.catalog.AdminUpdateProduct(ctx, "SKU-1", usecase.ProductInput{
		Title:    "Mug v2",
		Price:    decimal.RequireFromString("19.99"),
		IsActive: true,
	})
	require.NoError(t, err)

	history, err := f.orders.ListOrdersForUser(ctx, 42, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, decimal.RequireFromString("9.99").Equal(history[0].Items[0].UnitPrice))
	assert.Equal(t, "Mug", history[0].Items[0].ProductTitleSnapshot)
	assert.True(t, decimal.RequireFromString("9.99").Equal(history[0].Total))
}

// dbtestは接続1本なので、ここで確かめているのは直列化された購入で在庫が負にならないこと。
// 競合でUPDATEが0件になったときの扱いは TestCreateOrder_LostStockRaceIsInsufficientStock
func TestCreateOrder_ConcurrentBuysDoNotOversell(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dbtest.MustUser(t, f.db, 42, "alice")
	p := dbtest.MustProduct(t, f.db, "SKU-1", "Mug", "1.00", dbtest.Stock(3))

	const buyers = 8
	var wg sync.WaitGroup
	errs := make(chan error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.orders.CreateOrder(ctx, 42, "SKU-1", 1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok, outOfStock := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, usecase.ErrInsufficientStock):
			outOfStock++
		}
	}
	assert.Equal(t, 3, ok)
	assert.Equal(t, buyers-3, outOfStock)

	var reloaded model.Product
	require.NoError(t, f.db.First(&reloaded, p.ID).Error)
	assert.Equal(t, int64(0), *reloaded.Stock)
	assert.Equal(t, int64(3), count(t, f.db, "order_items"))
}

func TestCreateOrder_TotalBeyondStoredPrecisionRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	dbtest.MustUser(t, f.db, 42, "alice")
	dbtest.MustProduct(t, f.db, "SKU-1", "Cent", "0.01", nil)

	_, err := f.orders.CreateOrder(ctx, 42, "SKU-1", 123456789012345678)
	assert.ErrorIs(t, err, usecase.ErrInvalidQuantity)
	assert.Equal(t, int64(0), count(t, f.db, "orders"))

	// 上限ちょうどは通り、読み戻しても明細の合計と一致する
	order, err := f.orders.CreateOrder(ctx, 42, "SKU-1", 999999999999)
	require.NoError(t, err)
	assert.True(t, model.MaxMoney.Equal(order.Total))

	_, err = f.orders.CreateOrder(ctx, 42, "SKU-1", 1000000000000)
	assert.ErrorIs(t, err, usecase.ErrInvalidQuantity)

	history, err := f.orders.ListOrdersForUser(ctx, 42, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].Total.Equal(history[0].ItemsTotal()), "stored %s, items %s", history[0].Total, history[0].ItemsTotal())
	assert.True(t, model.MaxMoney.Equal(history[0].Total))
}

func TestListOrdersForUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("unregistered user gets empty list", func(t *testing.T) {
		orders, err := f.orders.ListOrdersForUser(ctx, 99, 5)
		require.NoError(t, err)
		assert.NotNil(t, orders)
		assert.Empty(t, orders)
	})

	t.Run("newest first and capped", func(t *testing.T) {
		dbtest.MustUser(t, f.db, 42, "alice")
		dbtest.MustProduct(t, f.db, "SKU-1", "Mug", "2.50", nil)

		var last int64
		for q := int64(1); q <= 7; q++ {
			o, err := f.orders.CreateOrder(ctx, 42, "SKU-1", q)
			require.NoError(t, err)
			last = o.ID
		}

		orders, err := f.orders.ListOrdersForUser(ctx, 42, 0)
		require.NoError(t, err)
		require.Len(t, orders, 5)
		assert.Equal(t, last, orders[0].ID)
		for i := 1; i < len(orders); i++ {
			assert.Greater(t, orders[i-1].ID, orders[i].ID)
		}
		for _, o := range orders {
			require.Len(t, o.Items, 1)
			assert.True(t, o.Total.Equal(o.ItemsTotal()))
		}

		all, err := f.orders.ListOrdersForUser(ctx, 42, 100)
		require.NoError(t, err)
		assert.Len(t, all, 7)
	})
}
