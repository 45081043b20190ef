package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ID                   int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID              int64           `gorm:"not null;index" json:"order_id"`
	ProductID            int64           `gorm:"not null;index" json:"product_id"`
	ProductSKU           string          `gorm:"type:varchar(32);not null" json:"sku"`
	ProductTitleSnapshot string          `gorm:"type:varchar(120);not null" json:"title"`
	UnitPrice            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Quantity             int64           `gorm:"not null" json:"quantity"`
	CreatedAt            time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (it OrderItem) LineTotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))
}
