package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/beauty_shop/pkg/domain"
	"github.com/Skotchmaster/beauty_shop/pkg/logging"
	middleware "github.com/Skotchmaster/beauty_shop/pkg/middleware/auth"
	"github.com/Skotchmaster/beauty_shop/services/backend/internal/service"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders")

	orders, err := h.Svc.ListOrders(ctx, middleware.UserID(c))
	if err != nil {
		return fail(l, "list_orders_failed", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "functions.create_order")

	var req domain.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.CreateOrder(ctx, middleware.UserID(c), req)
	if err != nil {
		return fail(l, "create_order_failed", err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *OrderHTTP) CaptureOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "functions.capture_order")

	var req domain.CaptureOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("capture_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.CaptureOrder(ctx, req.OrderID)
	if err != nil {
		return fail(l, "capture_order_failed", err)
	}
	return c.JSON(http.StatusOK, res)
}
