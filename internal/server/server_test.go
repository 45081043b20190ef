package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"tgshop/internal/domain/model"
	"tgshop/internal/infra/db/dbtest"
	infraRepo "tgshop/internal/infra/repository"
	"tgshop/internal/ratelimit"
	"tgshop/internal/server"
	"tgshop/internal/usecase"
	"tgshop/internal/validator"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type denyAll struct{}

func (denyAll) Allow(context.Context, string) (bool, error) { return false, nil }

type app struct {
	e         *echo.Echo
	db        *gorm.DB
	orders    *usecase.OrderUsecase
	assistant *usecase.AssistantUsecase
}

func newApp(t *testing.T, opts ...func(*server.Deps)) app {
	t.Helper()
	gdb := dbtest.Open(t)

	userRepo := infraRepo.NewUserGormRepository(gdb)
	productRepo := infraRepo.NewProductGormRepository(gdb)
	orders := usecase.NewOrderUsecase(
		infraRepo.NewTxManagerGorm(gdb),
		userRepo,
		infraRepo.NewOrderGormRepository(gdb),
		infraRepo.NewOrderItemGormRepository(gdb),
		5,
	)
	assistant := usecase.NewAssistantUsecase(userRepo, productRepo, infraRepo.NewAiLogGormRepository(gdb), 3)

	d := server.Deps{
		Log:          zap.NewNop(),
		Catalog:      usecase.NewCatalogUsecase(productRepo, 20),
		Orders:       orders,
		Assistant:    assistant,
		Validator:    validator.NewProductValidator(),
		Ping:         func(context.Context) error { return nil },
		AdminLimiter: ratelimit.Noop{},
	}
	for _, o := range opts {
		o(&d)
	}

	e, err := server.New(d)
	require.NoError(t, err)
	return app{e: e, db: gdb, orders: orders, assistant: assistant}
}

func (a app) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func (a app) postForm(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func (a app) product(t *testing.T, sku string) model.Product {
	t.Helper()
	var p model.Product
	require.NoError(t, a.db.Where("sku = ?", sku).First(&p).Error)
	return p
}

func TestHealthz(t *testing.T) {
	a := newApp(t)
	rec := a.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	down := newApp(t, func(d *server.Deps) {
		d.Ping = func(context.Context) error { return errors.New("connection refused") }
	})
	rec = down.get(t, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPages(t *testing.T) {
	a := newApp(t)
	dbtest.MustProduct(t, a.db, "SKU-1", "Mug", "499", dbtest.Stock(3))
	dbtest.MustProduct(t, a.db, "SKU-2", "Pen", "9.99", nil)
	dbtest.MustUser(t, a.db, 42, "alice")

	_, err := a.orders.CreateOrder(context.Background(), 42, "SKU-2", 3)
	require.NoError(t, err)

	t.Run("home counts active products", func(t *testing.T) {
		rec := a.get(t, "/")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Active products: <b>2</b>")
	})

	t.Run("catalog", func(t *testing.T) {
		rec := a.get(t, "/catalog")
		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "SKU-1")
		assert.Contains(t, body, "499.00")
		assert.Contains(t, body, "not tracked")
	})

	t.Run("orders without user shows help", func(t *testing.T) {
		rec := a.get(t, "/orders")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Enter a Telegram user id")
	})

	t.Run("orders with non numeric user", func(t *testing.T) {
		rec := a.get(t, "/orders?user=abc")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "user id must be a number")
	})

	t.Run("orders via tg_id alias", func(t *testing.T) {
		rec := a.get(t, "/orders?tg_id=42")
		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Order #")
		assert.Contains(t, body, "29.97")
	})

	t.Run("orders of unknown user", func(t *testing.T) {
		rec := a.get(t, "/orders?user=999")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "No orders yet.")
	})
}

func TestProductAPI(t *testing.T) {
	a := newApp(t)
	dbtest.MustProduct(t, a.db, "SKU-1", "Mug", "499", dbtest.Stock(3))

	rec := a.get(t, "/api/products")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Items []struct {
			SKU   string `json:"sku"`
			Price string `json:"price"`
			Stock *int64 `json:"stock"`
		} `json:"items"`
	}
	decode(t, rec, &list)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "SKU-1", list.Items[0].SKU)
	assert.Equal(t, "499.00", list.Items[0].Price)
	assert.Equal(t, int64(3), *list.Items[0].Stock)

	rec = a.get(t, "/api/products/SKU-1")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = a.get(t, "/api/products/NOPE")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"not found"}`, rec.Body.String())
}

func TestOrderAPI(t *testing.T) {
	a := newApp(t)
	dbtest.MustProduct(t, a.db, "SKU-1", "Pen", "9.99", nil)
	dbtest.MustUser(t, a.db, 42, "alice")
	_, err := a.orders.CreateOrder(context.Background(), 42, "SKU-1", 3)
	require.NoError(t, err)
	_, err = a.assistant.HandleAIRequest(context.Background(), 42, "hello")
	require.NoError(t, err)

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"missing user", "/api/orders", http.StatusBadRequest},
		{"non numeric user", "/api/orders?user=x", http.StatusBadRequest},
		{"bad limit", "/api/orders?user=42&limit=x", http.StatusBadRequest},
		{"ai logs missing user", "/api/ai-logs", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, a.get(t, tt.target).Code)
		})
	}

	rec := a.get(t, "/api/orders?user=42")
	require.Equal(t, http.StatusOK, rec.Code)
	var orders struct {
		Items []struct {
			Total string `json:"total"`
			Items []struct {
				SKU       string `json:"sku"`
				Quantity  int64  `json:"quantity"`
				LineTotal string `json:"line_total"`
			} `json:"items"`
		} `json:"items"`
	}
	decode(t, rec, &orders)
	require.Len(t, orders.Items, 1)
	assert.Equal(t, "29.97", orders.Items[0].Total)
	require.Len(t, orders.Items[0].Items, 1)
	assert.Equal(t, int64(3), orders.Items[0].Items[0].Quantity)

	rec = a.get(t, "/api/orders?user=7")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())

	rec = a.get(t, "/api/ai-logs?user=42")
	require.Equal(t, http.StatusOK, rec.Code)
	var logs struct {
		Items []struct {
			InputText string `json:"input_text"`
		} `json:"items"`
	}
	decode(t, rec, &logs)
	require.Len(t, logs.Items, 1)
	assert.Equal(t, "hello", logs.Items[0].InputText)
}

func TestAdminProducts(t *testing.T) {
	a := newApp(t)

	t.Run("create redirects", func(t *testing.T) {
		rec := a.postForm(t, "/admin/products", url.Values{
			"sku": {"SKU-9"}, "title": {"Lamp"}, "price": {"15,50"}, "stock": {"4"}, "is_active": {"on"},
		})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin/products?notice=created", rec.Header().Get(echo.HeaderLocation))

		p := a.product(t, "SKU-9")
		assert.Equal(t, "15.5", p.Price.String())
		assert.Equal(t, int64(4), *p.Stock)
		assert.True(t, p.IsActive)
	})

	t.Run("legacy field names", func(t *testing.T) {
		rec := a.postForm(t, "/admin/products", url.Values{
			"sku": {"SKU-10"}, "name": {"Desk"}, "price_rub": {"1 299,50"},
		})
		assert.Equal(t, http.StatusSeeOther, rec.Code)

		p := a.product(t, "SKU-10")
		assert.Equal(t, "Desk", p.Title)
		assert.Equal(t, "1299.5", p.Price.String())
		assert.Nil(t, p.Stock)
		assert.False(t, p.IsActive)
	})

	t.Run("duplicate sku", func(t *testing.T) {
		rec := a.postForm(t, "/admin/products", url.Values{
			"sku": {"SKU-9"}, "title": {"Other"}, "price": {"1"},
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "duplicate sku")
	})

	t.Run("validation failure re-renders", func(t *testing.T) {
		rec := a.postForm(t, "/admin/products", url.Values{
			"sku": {"SKU-11"}, "price": {"-1"},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "title: required")
		assert.Contains(t, body, "price: must be &gt;= 0")
		assert.Contains(t, body, `value="SKU-11"`)
	})

	t.Run("notice shown", func(t *testing.T) {
		rec := a.get(t, "/admin/products?notice=created")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Product created")
		assert.Contains(t, rec.Body.String(), "SKU-10")
	})

	t.Run("edit deactivates", func(t *testing.T) {
		rec := a.postForm(t, "/admin/products/SKU-9", url.Values{
			"title": {"Lamp XL"}, "price": {"20"}, "stock": {""},
		})
		assert.Equal(t, http.StatusSeeOther, rec.Code)

		p := a.product(t, "SKU-9")
		assert.Equal(t, "Lamp XL", p.Title)
		assert.False(t, p.IsActive)
		assert.Nil(t, p.Stock)
		assert.Equal(t, http.StatusNotFound, a.get(t, "/api/products/SKU-9").Code)
	})

	t.Run("edit unknown sku", func(t *testing.T) {
		rec := a.postForm(t, "/admin/products/NOPE", url.Values{
			"title": {"x"}, "price": {"1"},
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAdminRateLimit(t *testing.T) {
	a := newApp(t, func(d *server.Deps) { d.AdminLimiter = denyAll{} })

	rec := a.postForm(t, "/admin/products", url.Values{"sku": {"SKU-1"}, "title": {"x"}, "price": {"1"}})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	assert.Equal(t, http.StatusOK, a.get(t, "/admin/products").Code)
}
