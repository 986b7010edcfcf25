// Package checkout drives the two payment steps: create-order when the buyer
// starts paying and capture-order once the payment provider approved it.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/beauty_shop/pkg/backendclient"
	"github.com/Skotchmaster/beauty_shop/pkg/domain"
	"github.com/Skotchmaster/beauty_shop/pkg/logging"
	"github.com/Skotchmaster/beauty_shop/services/storefront/internal/store"
)

var (
	ErrEmptyCart  = errors.New("cart is empty")
	ErrUnknownRef = errors.New("no order with this reference was started on this device")
)

// OrdersBackend is implemented by *backendclient.Client and backendclient.Inert.
type OrdersBackend interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.CreateOrderResponse, error)
	CaptureOrder(ctx context.Context, providerRef string) (domain.CaptureOrderResponse, error)
}

var (
	_ OrdersBackend = (*backendclient.Client)(nil)
	_ OrdersBackend = backendclient.Inert{}
)

type Confirmation struct {
	OrderID   string             `json:"order_id"`
	Status    domain.OrderStatus `json:"status"`
	Lines     []store.CartLine   `json:"lines"`
	ItemCount int                `json:"item_count"`
	Subtotal  decimal.Decimal    `json:"subtotal"`
	Shipping  decimal.Decimal    `json:"shipping"`
	Total     decimal.Decimal    `json:"total"`
}

// State is the checkout progress of one device. ordered is the cart as it
// was sent to create-order for the pending reference.
type State struct {
	mu      sync.Mutex
	pending string
	ordered store.Summary
	last    *Confirmation
	lastRef string
}

func (s *State) Pending() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

type Service struct {
	Backend OrdersBackend
}

// Begin asks the backend to create an order for the cart and returns the
// payment provider reference the buyer approves.
func (s *Service) Begin(ctx context.Context, st *State, cart *store.Cart, shipping domain.ShippingInfo) (string, error) {
	l := logging.FromContext(ctx).With("flow", "checkout.begin")

	shipping = trimShipping(shipping)
	if field := shipping.MissingField(); field != "" {
		return "", fmt.Errorf("shipping %s required: %w", field, store.ErrValidation)
	}
	if _, err := mail.ParseAddress(shipping.Email); err != nil {
		return "", fmt.Errorf("invalid shipping email: %w", store.ErrValidation)
	}

	sum := cart.Summary()
	if len(sum.Lines) == 0 {
		return "", fmt.Errorf("%w: %w", store.ErrValidation, ErrEmptyCart)
	}
	items := make([]domain.CheckoutItem, 0, len(sum.Lines))
	for _, line := range sum.Lines {
		items = append(items, domain.CheckoutItem{ProductID: line.Product.ID, Quantity: line.Quantity})
	}

	resp, err := s.Backend.CreateOrder(ctx, domain.CreateOrderRequest{Items: items, Shipping: shipping})
	if err != nil {
		l.Warn("create_order_failed", "error", err)
		return "", store.BackendError("create order", err)
	}

	st.mu.Lock()
	st.pending = resp.ID
	st.ordered = sum
	st.mu.Unlock()

	l.Info("order_created", "provider_ref", resp.ID, "items", len(items))
	return resp.ID, nil
}

// Complete captures the payment for the order this device started. The
// confirmation lists what was ordered, and only those quantities leave the
// cart, once per reference: repeating the call returns the first
// confirmation.
func (s *Service) Complete(ctx context.Context, st *State, cart *store.Cart, providerRef string) (Confirmation, error) {
	l := logging.FromContext(ctx).With("flow", "checkout.complete", "provider_ref", providerRef)

	providerRef = strings.TrimSpace(providerRef)
	if providerRef == "" {
		return Confirmation{}, fmt.Errorf("order reference required: %w", store.ErrValidation)
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.last != nil && st.lastRef == providerRef {
		return *st.last, nil
	}
	if st.pending == "" || st.pending != providerRef {
		l.Warn("capture_rejected", "reason", "reference not pending on this device")
		return Confirmation{}, fmt.Errorf("%w: %w", store.ErrNotFound, ErrUnknownRef)
	}

	resp, err := s.Backend.CaptureOrder(ctx, providerRef)
	if err != nil {
		l.Warn("capture_failed", "error", err)
		return Confirmation{}, store.BackendError("capture order", err)
	}

	sum := st.ordered
	conf := Confirmation{
		OrderID:   resp.OrderID,
		Status:    resp.Status,
		Lines:     sum.Lines,
		ItemCount: sum.ItemCount,
		Subtotal:  sum.Subtotal,
		Shipping:  sum.Shipping,
		Total:     sum.Total,
	}
	cart.Deduct(sum.Lines)

	st.last = &conf
	st.lastRef = providerRef
	st.pending = ""
	st.ordered = store.Summary{}

	l.Info("order_captured", "order_id", resp.OrderID)
	return conf, nil
}

// OrderHistory lists the signed-in user's orders, newest first.
func (s *Service) OrderHistory(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.Backend.ListOrders(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn("order_history_failed", "error", err)
		return nil, store.BackendError("list orders", err)
	}
	return orders, nil
}

func trimShipping(s domain.ShippingInfo) domain.ShippingInfo {
	s.FullName = strings.TrimSpace(s.FullName)
	s.Email = strings.TrimSpace(s.Email)
	s.Address = strings.TrimSpace(s.Address)
	s.City = strings.TrimSpace(s.City)
	s.PostalCode = strings.TrimSpace(s.PostalCode)
	s.Country = strings.TrimSpace(s.Country)
	return s
}
