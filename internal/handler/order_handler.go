package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tgshop/internal/domain/model"
	"tgshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

var (
	errUserRequired = errors.New("user is required")
	errUserNotNum   = errors.New("user id must be a number")
)

// ?user= か ?tg_id= を読む。無ければ (0, false, nil)
func userParam(c echo.Context) (int64, bool, error) {
	raw := strings.TrimSpace(c.QueryParam("user"))
	if raw == "" {
		raw = strings.TrimSpace(c.QueryParam("tg_id"))
	}
	if raw == "" {
		return 0, false, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, true, errUserNotNum
	}
	return id, true, nil
}

// limitは任意。数値でなければ400
func limitParam(c echo.Context) (int, error) {
	v := c.QueryParam("limit")
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New("invalid limit")
	}
	return n, nil
}

type OrderItemResponse struct {
	SKU       string `json:"sku"`
	Title     string `json:"title"`
	UnitPrice string `json:"unit_price"`
	Quantity  int64  `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type OrderResponse struct {
	ID        int64               `json:"id"`
	Status    string              `json:"status"`
	Total     string              `json:"total"`
	CreatedAt time.Time           `json:"created_at"`
	Items     []OrderItemResponse `json:"items"`
}

type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
}

func toOrderResponse(o model.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			SKU:       it.ProductSKU,
			Title:     it.ProductTitleSnapshot,
			UnitPrice: it.UnitPrice.StringFixed(2),
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal().StringFixed(2),
		})
	}
	return OrderResponse{
		ID:        o.ID,
		Status:    string(o.Status),
		Total:     o.Total.StringFixed(2),
		CreatedAt: o.CreatedAt,
		Items:     items,
	}
}

type AiLogResponse struct {
	ID         int64     `json:"id"`
	InputText  string    `json:"input_text"`
	OutputText string    `json:"output_text"`
	CreatedAt  time.Time `json:"created_at"`
}

type AiLogListResponse struct {
	Items []AiLogResponse `json:"items"`
}

// /api/orders と /api/ai-logs
type OrderHandler struct {
	orders    *usecase.OrderUsecase
	assistant *usecase.AssistantUsecase
}

// DI
func NewOrderHandler(orders *usecase.OrderUsecase, assistant *usecase.AssistantUsecase) *OrderHandler {
	return &OrderHandler{orders: orders, assistant: assistant}
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/orders", h.listOrders)
	e.GET("/api/ai-logs", h.listAiLogs)
}

func (h *OrderHandler) listOrders(c echo.Context) error {
	userID, ok, err := userParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: errUserRequired.Error()})
	}
	limit, err := limitParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	orders, err := h.orders.ListOrdersForUser(c.Request().Context(), userID, limit)
	if err != nil {
		return writeError(c, err)
	}

	out := OrderListResponse{Items: make([]OrderResponse, 0, len(orders))}
	for _, o := range orders {
		out.Items = append(out.Items, toOrderResponse(o))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) listAiLogs(c echo.Context) error {
	userID, ok, err := userParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: errUserRequired.Error()})
	}
	limit, err := limitParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	logs, err := h.assistant.RecentLogs(c.Request().Context(), userID, limit)
	if err != nil {
		return writeError(c, err)
	}

	out := AiLogListResponse{Items: make([]AiLogResponse, 0, len(logs))}
	for _, l := range logs {
		out.Items = append(out.Items, AiLogResponse{
			ID:         l.ID,
			InputText:  l.InputText,
			OutputText: l.OutputText,
			CreatedAt:  l.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, out)
}
