package handler

import (
	"errors"
	"net/http"

	"tgshop/internal/usecase"
	"tgshop/internal/validator"

	"github.com/labstack/echo/v4"
)

var notices = map[string]string{
	"created": "Product created",
	"updated": "Product updated",
}

// /admin/products の管理画面（認証なし）
type AdminProductHandler struct {
	uc *usecase.CatalogUsecase
	pv *validator.ProductValidator
}

// DI
func NewAdminProductHandler(uc *usecase.CatalogUsecase, pv *validator.ProductValidator) *AdminProductHandler {
	return &AdminProductHandler{uc: uc, pv: pv}
}

// adminを登録（POSTにだけmiddlewareをかける）
func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo, postMW ...echo.MiddlewareFunc) {
	admin := e.Group("/admin")

	admin.GET("/products", h.index)
	admin.POST("/products", h.createProduct, postMW...)
	admin.POST("/products/:sku", h.updateProduct, postMW...)
}

func (h *AdminProductHandler) index(c echo.Context) error {
	return h.render(c, http.StatusOK, validator.ProductForm{}, nil, notices[c.QueryParam("notice")])
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	var form validator.ProductForm
	if err := c.Bind(&form); err != nil {
		return h.render(c, http.StatusBadRequest, form, []string{"invalid form"}, "")
	}

	in, err := h.pv.Validate(form, true)
	if err != nil {
		return h.renderError(c, form, err)
	}

	if _, err := h.uc.AdminCreateProduct(c.Request().Context(), in); err != nil {
		return h.renderError(c, form, err)
	}

	return c.Redirect(http.StatusSeeOther, "/admin/products?notice=created")
}

func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	var form validator.ProductForm
	if err := c.Bind(&form); err != nil {
		return h.render(c, http.StatusBadRequest, validator.ProductForm{}, []string{"invalid form"}, "")
	}

	in, err := h.pv.Validate(form, false)
	if err != nil {
		return h.renderError(c, validator.ProductForm{}, err)
	}

	if _, err := h.uc.AdminUpdateProduct(c.Request().Context(), c.Param("sku"), in); err != nil {
		return h.renderError(c, validator.ProductForm{}, err)
	}

	return c.Redirect(http.StatusSeeOther, "/admin/products?notice=updated")
}

// エラーは同じ画面に出す。ステータスはJSON APIと同じ対応
func (h *AdminProductHandler) renderError(c echo.Context, form validator.ProductForm, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		return writeError(c, err)
	}

	var fe *validator.FormError
	if errors.As(err, &fe) {
		return h.render(c, status, form, fe.Messages, "")
	}
	return h.render(c, status, form, []string{err.Error()}, "")
}

func (h *AdminProductHandler) render(c echo.Context, status int, form validator.ProductForm, errs []string, notice string) error {
	products, err := h.uc.ListAllProducts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.Render(status, "admin_products.html", map[string]interface{}{
		"Products": products,
		"Form":     form,
		"Errors":   errs,
		"Notice":   notice,
	})
}
