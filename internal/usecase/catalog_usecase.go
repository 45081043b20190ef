package usecase

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"tgshop/internal/domain/model"
	repo "tgshop/internal/repository"

	"github.com/shopspring/decimal"
)

const titleMaxLen = 120

type CatalogUsecase struct {
	products repo.ProductRepository
	limit    int
}

// DI。limitは公開一覧の最大件数
func NewCatalogUsecase(products repo.ProductRepository, limit int) *CatalogUsecase {
	if limit < 1 {
		limit = 20
	}
	return &CatalogUsecase{products: products, limit: limit}
}

// 公開中の商品を登録順で返す
func (u *CatalogUsecase) ListProducts(ctx context.Context) ([]model.Product, error) {
	items, err := u.products.ListActive(ctx, u.limit)
	if err != nil {
		return nil, storageErr(err)
	}
	return items, nil
}

func (u *CatalogUsecase) CountActive(ctx context.Context) (int64, error) {
	n, err := u.products.CountActive(ctx)
	if err != nil {
		return 0, storageErr(err)
	}
	return n, nil
}

// 無効な商品は見つからない扱い
func (u *CatalogUsecase) GetProduct(ctx context.Context, sku string) (model.Product, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return model.Product{}, ErrNotFound
	}

	p, err := u.products.FindBySKU(ctx, sku)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, ErrNotFound
	}
	if err != nil {
		return model.Product{}, storageErr(err)
	}
	if !p.IsActive {
		return model.Product{}, ErrNotFound
	}
	return p, nil
}

// 管理画面用
func (u *CatalogUsecase) ListAllProducts(ctx context.Context) ([]model.Product, error) {
	items, err := u.products.ListAll(ctx)
	if err != nil {
		return nil, storageErr(err)
	}
	return items, nil
}

type ProductInput struct {
	SKU         string
	Title       string
	Description string
	Price       decimal.Decimal
	Stock       *int64
	IsActive    bool
}

func (in ProductInput) validate(requireSKU bool) error {
	if requireSKU {
		if in.SKU == "" {
			return invalidInput("sku is required")
		}
		if len(in.SKU) > model.SKUMaxLen {
			return invalidInput("sku is too long")
		}
	}
	if in.Title == "" {
		return invalidInput("title is required")
	}
	if utf8.RuneCountInString(in.Title) > titleMaxLen {
		return invalidInput("title is too long")
	}
	if in.Price.IsNegative() {
		return invalidInput("price must be >= 0")
	}
	if in.Price.GreaterThan(model.MaxMoney) {
		return invalidInput("price is too large")
	}
	if in.Stock != nil && *in.Stock < 0 {
		return invalidInput("stock must be >= 0")
	}
	return nil
}

func (u *CatalogUsecase) AdminCreateProduct(ctx context.Context, in ProductInput) (model.Product, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if err := in.validate(true); err != nil {
		return model.Product{}, err
	}

	p, err := u.products.Create(ctx, model.Product{
		SKU:         in.SKU,
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price.Round(2),
		Stock:       in.Stock,
		IsActive:    in.IsActive,
	})
	if errors.Is(err, repo.ErrDuplicate) {
		return model.Product{}, ErrDuplicateSKU
	}
	if err != nil {
		return model.Product{}, storageErr(err)
	}
	return p, nil
}

// SKUは変更しない。IsActive=falseで論理的に非公開にする
func (u *CatalogUsecase) AdminUpdateProduct(ctx context.Context, sku string, in ProductInput) (model.Product, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if err := in.validate(false); err != nil {
		return model.Product{}, err
	}

	p, err := u.products.FindBySKU(ctx, strings.TrimSpace(sku))
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, ErrNotFound
	}
	if err != nil {
		return model.Product{}, storageErr(err)
	}

	p.Title = in.Title
	p.Description = in.Description
	p.Price = in.Price.Round(2)
	p.Stock = in.Stock
	p.IsActive = in.IsActive

	if err := u.products.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, ErrNotFound
		}
		return model.Product{}, storageErr(err)
	}
	return p, nil
}

// デモ用の商品（テーブルが空のときだけ入れる）
var demoProducts = []ProductInput{
	{SKU: "SKU-001", Title: "Mug", Description: "Ceramic mug, 350 ml", Price: decimal.RequireFromString("499.00"), IsActive: true},
	{SKU: "SKU-002", Title: "T-shirt", Description: "Cotton T-shirt with logo", Price: decimal.RequireFromString("1299.00"), IsActive: true},
	{SKU: "SKU-003", Title: "Notebook", Description: "A5 dotted notebook", Price: decimal.RequireFromString("299.00"), IsActive: true},
	{SKU: "SKU-004", Title: "Backpack", Description: "City backpack, 20 l", Price: decimal.RequireFromString("3499.00"), IsActive: true},
	{SKU: "SKU-005", Title: "Headphones", Description: "Wired in-ear headphones", Price: decimal.RequireFromString("899.00"), IsActive: true},
}

// SeedDemoProducts fills an empty catalog and reports how many rows it added.
func (u *CatalogUsecase) SeedDemoProducts(ctx context.Context) (int, error) {
	n, err := u.products.Count(ctx)
	if err != nil {
		return 0, storageErr(err)
	}
	if n > 0 {
		return 0, nil
	}

	added := 0
	for _, in := range demoProducts {
		if _, err := u.AdminCreateProduct(ctx, in); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}
