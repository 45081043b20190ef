package handler

import (
	"net/http"

	"tgshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 画面（/, /catalog, /orders）
type PageHandler struct {
	catalog *usecase.CatalogUsecase
	orders  *usecase.OrderUsecase
}

// DI
func NewPageHandler(catalog *usecase.CatalogUsecase, orders *usecase.OrderUsecase) *PageHandler {
	return &PageHandler{catalog: catalog, orders: orders}
}

func (h *PageHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.home)
	e.GET("/catalog", h.catalogPage)
	e.GET("/orders", h.ordersPage)
}

func (h *PageHandler) home(c echo.Context) error {
	n, err := h.catalog.CountActive(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.Render(http.StatusOK, "home.html", map[string]interface{}{
		"ActiveCount": n,
	})
}

func (h *PageHandler) catalogPage(c echo.Context) error {
	products, err := h.catalog.ListProducts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.Render(http.StatusOK, "catalog.html", map[string]interface{}{
		"Products": products,
	})
}

func (h *PageHandler) ordersPage(c echo.Context) error {
	data := map[string]interface{}{
		"UserParam": c.QueryParam("user"),
		"HasUser":   false,
	}
	if data["UserParam"] == "" {
		data["UserParam"] = c.QueryParam("tg_id")
	}

	userID, ok, err := userParam(c)
	if err != nil {
		data["Error"] = err.Error()
		return c.Render(http.StatusBadRequest, "orders.html", data)
	}
	if !ok {
		return c.Render(http.StatusOK, "orders.html", data)
	}

	orders, err := h.orders.ListOrdersForUser(c.Request().Context(), userID, 0)
	if err != nil {
		return writeError(c, err)
	}
	data["HasUser"] = true
	data["Orders"] = orders
	return c.Render(http.StatusOK, "orders.html", data)
}
