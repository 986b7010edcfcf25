package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/beauty_shop/pkg/domain"
	"github.com/Skotchmaster/beauty_shop/pkg/logging"
	"github.com/Skotchmaster/beauty_shop/services/storefront/internal/checkout"
)

type CheckoutHTTP struct {
	Svc *checkout.Service
}

type beginRequest struct {
	Shipping domain.ShippingInfo `json:"shipping"`
}

// Begin is what the payment button calls when the buyer starts paying.
func (h *CheckoutHTTP) Begin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.begin")

	var req beginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "checkout_begin_error", "invalid body", err)
	}

	s := sessionOf(c)
	ref, err := h.Svc.Begin(ctx, s.Checkout, s.Cart, req.Shipping)
	if err != nil {
		return fail(l, "checkout_begin_failed", err)
	}
	return c.JSON(http.StatusOK, domain.CreateOrderResponse{ID: ref})
}

// Capture is called once the buyer approved the payment.
func (h *CheckoutHTTP) Capture(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.capture")

	var req domain.CaptureOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "checkout_capture_error", "invalid body", err)
	}

	s := sessionOf(c)
	conf, err := h.Svc.Complete(ctx, s.Checkout, s.Cart, req.OrderID)
	if err != nil {
		return fail(l, "checkout_capture_failed", err)
	}
	return c.JSON(http.StatusOK, conf)
}

func (h *CheckoutHTTP) History(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.history")

	orders, err := h.Svc.OrderHistory(ctx)
	if err != nil {
		return fail(l, "order_history_failed", err)
	}
	return c.JSON(http.StatusOK, orders)
}
