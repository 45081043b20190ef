package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const SKUMaxLen = 32

// decimal(12,2) に入る最大額（価格・明細・合計すべて）
var MaxMoney = decimal.RequireFromString("9999999999.99")

type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	SKU         string          `gorm:"type:varchar(32);uniqueIndex;not null" json:"sku"`
	Title       string          `gorm:"type:varchar(120);not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	// nilなら在庫管理しない
	Stock     *int64    `json:"stock,omitempty"`
	IsActive  bool      `gorm:"not null" json:"is_active"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 購入時に在庫を減らす必要があるか
func (p Product) TracksStock() bool {
	return p.Stock != nil
}

// 在庫管理しない商品は常にtrue
func (p Product) InStock() bool {
	return p.Stock == nil || *p.Stock > 0
}
