package bot

import (
	"errors"
	"fmt"
	"strings"

	"tgshop/internal/domain/model"
	"tgshop/internal/usecase"
)

const (
	helpText = `Commands:
/catalog - list products
/buy <SKU> [qty] - place an order
/myorders - your latest orders
/ai <text> - ask the shop assistant
/help - this message`

	buyUsage        = "Usage: /buy <SKU> [qty], e.g. /buy SKU-001 2"
	emptyCatalogMsg = "The catalog is empty for now."
	noOrdersMsg     = "You have no orders yet."
	tooManyMsg      = "too many requests, please slow down"
	genericFailMsg  = "Something went wrong, please try again later."
)

// usecaseのエラーをユーザー向けの文に変える
func userMessage(err error) string {
	switch {
	case errors.Is(err, usecase.ErrUnknownUser):
		return "Please send /start first."
	case errors.Is(err, usecase.ErrUnknownProduct):
		return "Unknown product. See /catalog for available SKUs."
	case errors.Is(err, usecase.ErrInvalidQuantity):
		return "Quantity must be a positive whole number."
	case errors.Is(err, usecase.ErrInsufficientStock):
		return "Sorry, not enough stock for this order."
	case errors.Is(err, usecase.ErrInvalidInput):
		return "Invalid input."
	default:
		return genericFailMsg
	}
}

func formatCatalog(products []model.Product) string {
	if len(products) == 0 {
		return emptyCatalogMsg
	}
	var b strings.Builder
	b.WriteString("Catalog:\n")
	for _, p := range products {
		fmt.Fprintf(&b, "%s — %s — %s", p.SKU, p.Title, p.Price.StringFixed(2))
		if !p.InStock() {
			b.WriteString(" (out of stock)")
		}
		b.WriteString("\n")
	}
	b.WriteString("\nTo order: /buy <SKU> [qty]")
	return b.String()
}

func formatOrderCreated(o model.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order #%d created.\n", o.ID)
	for _, it := range o.Items {
		fmt.Fprintf(&b, "%s x%d = %s\n", it.ProductTitleSnapshot, it.Quantity, it.LineTotal().StringFixed(2))
	}
	fmt.Fprintf(&b, "Total: %s", o.Total.StringFixed(2))
	return b.String()
}

func formatOrders(orders []model.Order) string {
	if len(orders) == 0 {
		return noOrdersMsg
	}
	var b strings.Builder
	b.WriteString("Your latest orders:\n")
	for _, o := range orders {
		fmt.Fprintf(&b, "\n#%d %s — %s — %s\n", o.ID, o.CreatedAt.Format("2006-01-02 15:04"), o.Status, o.Total.StringFixed(2))
		for _, it := range o.Items {
			fmt.Fprintf(&b, "  %s %s x%d — %s\n", it.ProductSKU, it.ProductTitleSnapshot, it.Quantity, it.LineTotal().StringFixed(2))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
