package handler

import (
	"net/http"

	"tgshop/internal/domain/model"
	"tgshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 商品のJSON表現（priceは小数2桁の文字列）
type ProductResponse struct {
	SKU         string `json:"sku"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Stock       *int64 `json:"stock"`
	IsActive    bool   `json:"is_active"`
}

type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
}

func toProductResponse(p model.Product) ProductResponse {
	return ProductResponse{
		SKU:         p.SKU,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Stock:       p.Stock,
		IsActive:    p.IsActive,
	}
}

// /api/products の公開API
type ProductHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewProductHandler(uc *usecase.CatalogUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/products", h.list)
	e.GET("/api/products/:sku", h.detail)
}

func (h *ProductHandler) list(c echo.Context) error {
	products, err := h.uc.ListProducts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	out := ProductListResponse{Items: make([]ProductResponse, 0, len(products))}
	for _, p := range products {
		out.Items = append(out.Items, toProductResponse(p))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	p, err := h.uc.GetProduct(c.Request().Context(), c.Param("sku"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toProductResponse(p))
}
