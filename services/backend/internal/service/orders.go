package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/beauty_shop/pkg/domain"
	"github.com/Skotchmaster/beauty_shop/pkg/logging"
	"github.com/Skotchmaster/beauty_shop/pkg/mykafka"
	"github.com/Skotchmaster/beauty_shop/services/backend/internal/models"
	"github.com/Skotchmaster/beauty_shop/services/backend/internal/payment"
	"github.com/Skotchmaster/beauty_shop/services/backend/internal/repo"
)

const DefaultCurrency = "EUR"

type OrderService struct {
	Repo     *repo.GormRepo
	Events   mykafka.Publisher
	Payments payment.Provider
	Currency string
}

func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	uid, ok := models.ParseID(userID)
	if !ok {
		return nil, fmt.Errorf("%w: bad user id", ErrUnauthorized)
	}
	rows, err := s.Repo.ListOrders(ctx, uid)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(rows))
	for _, o := range rows {
		out = append(out, o.ToDomain())
	}
	return out, nil
}

// CreateOrder prices the lines from the products table, stores a pending
// order and opens the matching order at the payment provider. It returns the
// provider reference the buyer approves. userID is empty for guests.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, req domain.CreateOrderRequest) (domain.CreateOrderResponse, error) {
	l := logging.FromContext(ctx).With("svc", "orders.create")

	if err := validateShipping(req.Shipping); err != nil {
		return domain.CreateOrderResponse{}, err
	}
	quantities, order, err := mergeLines(req.Items)
	if err != nil {
		return domain.CreateOrderResponse{}, err
	}

	products, err := s.Repo.GetProductsByIDs(ctx, order)
	if err != nil {
		return domain.CreateOrderResponse{}, err
	}
	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	row := models.Order{
		ID:      uuid.New(),
		Status:  string(domain.OrderStatusPending),
		Address: models.AddressFromDomain(req.Shipping),
	}
	if userID != "" {
		uid, ok := models.ParseID(userID)
		if !ok {
			return domain.CreateOrderResponse{}, fmt.Errorf("%w: bad user id", ErrUnauthorized)
		}
		row.UserID = &uid
	}

	subtotal := decimal.Zero
	for _, id := range order {
		p, ok := byID[id]
		if !ok {
			return domain.CreateOrderResponse{}, fmt.Errorf("%w: unknown product %s", ErrValidation, id)
		}
		unit := p.ToDomain().ActiveUnitPrice()
		qty := quantities[id]
		subtotal = subtotal.Add(unit.Mul(decimal.NewFromInt(int64(qty))))
		row.Items = append(row.Items, models.OrderItem{ProductID: id, Quantity: qty, UnitPrice: unit})
	}
	row.Shipping = domain.ShippingFor(subtotal)
	row.Total = subtotal.Add(row.Shipping)

	ref, err := s.Payments.CreateOrder(ctx, row.Total, s.currency(), row.ID.String())
	if err != nil {
		l.Warn("provider_create_failed", "order_id", row.ID, "error", err)
		return domain.CreateOrderResponse{}, fmt.Errorf("%w: %v", ErrPayment, err)
	}
	row.ProviderRef = ref

	if err := s.Repo.CreateOrder(ctx, &row); err != nil {
		return domain.CreateOrderResponse{}, err
	}

	s.publishOrder(ctx, "order_created", &row)
	l.Info("order_created", "order_id", row.ID, "total", row.Total.StringFixed(2))
	return domain.CreateOrderResponse{ID: ref}, nil
}

// CaptureOrder captures the payment for providerRef and settles the order.
// Capturing an already paid order returns it again.
func (s *OrderService) CaptureOrder(ctx context.Context, providerRef string) (domain.CaptureOrderResponse, error) {
	l := logging.FromContext(ctx).With("svc", "orders.capture")

	if strings.TrimSpace(providerRef) == "" {
		return domain.CaptureOrderResponse{}, fmt.Errorf("%w: order reference required", ErrValidation)
	}
	row, err := s.Repo.GetOrderByProviderRef(ctx, providerRef)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CaptureOrderResponse{}, fmt.Errorf("order %q: %w", providerRef, ErrNotFound)
		}
		return domain.CaptureOrderResponse{}, err
	}

	switch domain.OrderStatus(row.Status) {
	case domain.OrderStatusPaid:
		return domain.CaptureOrderResponse{OrderID: row.ID.String(), Status: domain.OrderStatusPaid}, nil
	case domain.OrderStatusFailed:
		return domain.CaptureOrderResponse{}, fmt.Errorf("%w: order already failed", ErrPayment)
	}

	if err := s.Payments.CaptureOrder(ctx, providerRef); err != nil {
		if errors.Is(err, payment.ErrDeclined) {
			if setErr := s.Repo.SetOrderStatus(ctx, row.ID, string(domain.OrderStatusFailed)); setErr != nil {
				return domain.CaptureOrderResponse{}, setErr
			}
			row.Status = string(domain.OrderStatusFailed)
			s.publishOrder(ctx, "order_failed", row)
		}
		l.Warn("capture_failed", "order_id", row.ID, "error", err)
		return domain.CaptureOrderResponse{}, fmt.Errorf("%w: %v", ErrPayment, err)
	}

	if err := s.Repo.SetOrderStatus(ctx, row.ID, string(domain.OrderStatusPaid)); err != nil {
		return domain.CaptureOrderResponse{}, err
	}
	row.Status = string(domain.OrderStatusPaid)
	s.publishOrder(ctx, "order_paid", row)

	l.Info("order_paid", "order_id", row.ID)
	return domain.CaptureOrderResponse{OrderID: row.ID.String(), Status: domain.OrderStatusPaid}, nil
}

func (s *OrderService) publishOrder(ctx context.Context, eventType string, o *models.Order) {
	ev := OrderEvent{
		Type:    eventType,
		OrderID: o.ID.String(),
		Total:   o.Total.StringFixed(2),
		Status:  o.Status,
		At:      time.Now().UTC(),
	}
	if o.UserID != nil {
		ev.UserID = o.UserID.String()
	}
	publish(ctx, s.Events, TopicOrders, ev.OrderID, ev)
}

func (s *OrderService) currency() string {
	if s.Currency != "" {
		return s.Currency
	}
	return DefaultCurrency
}

func validateShipping(info domain.ShippingInfo) error {
	if field := info.MissingField(); field != "" {
		return fmt.Errorf("%w: shipping %s required", ErrValidation, field)
	}
	return nil
}

// mergeLines folds repeated products into one line and keeps first-seen order.
func mergeLines(items []domain.CheckoutItem) (map[uuid.UUID]int, []uuid.UUID, error) {
	if len(items) == 0 {
		return nil, nil, fmt.Errorf("%w: order has no items", ErrValidation)
	}
	quantities := make(map[uuid.UUID]int, len(items))
	order := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		id, ok := models.ParseID(it.ProductID)
		if !ok {
			return nil, nil, fmt.Errorf("%w: unknown product %s", ErrValidation, it.ProductID)
		}
		if it.Quantity < 1 {
			return nil, nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
		}
		if _, seen := quantities[id]; !seen {
			order = append(order, id)
		}
		quantities[id] += it.Quantity
	}
	return quantities, order, nil
}
