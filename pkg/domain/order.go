package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "Pending"
	OrderStatusPaid    OrderStatus = "Paid"
	OrderStatusFailed  OrderStatus = "Failed"
)

// ShippingCost is the flat shipping fee charged on any non-empty order.
var ShippingCost = decimal.RequireFromString("5.00")

// ShippingFor returns the shipping fee for a given subtotal.
func ShippingFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.IsPositive() {
		return ShippingCost
	}
	return decimal.Zero
}

type OrderItem struct {
	ProductID string          `json:"product_id"`
	Product   *Product        `json:"product,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type Order struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id,omitempty"`
	Total       decimal.Decimal `json:"total"`
	Shipping    decimal.Decimal `json:"shipping"`
	Status      OrderStatus     `json:"status"`
	ProviderRef string          `json:"provider_ref,omitempty"`
	Address     ShippingInfo    `json:"shipping_address"`
	CreatedAt   time.Time       `json:"created_at"`
	Items       []OrderItem     `json:"items"`
}

type ShippingInfo struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country,omitempty"`
}

// MissingField names the first required shipping field that is blank, or
// returns "" when the address is complete.
func (s ShippingInfo) MissingField() string {
	required := []struct{ name, value string }{
		{"full name", s.FullName},
		{"email", s.Email},
		{"address", s.Address},
		{"city", s.City},
		{"postal code", s.PostalCode},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return f.name
		}
	}
	return ""
}

// CheckoutItem is what the storefront sends to the create-order function.
// Prices are re-read on the server.
type CheckoutItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CreateOrderRequest struct {
	Items    []CheckoutItem `json:"items"`
	Shipping ShippingInfo   `json:"shipping"`
}

type CreateOrderResponse struct {
	ID string `json:"id"`
}

type CaptureOrderRequest struct {
	OrderID string `json:"orderID"`
}

type CaptureOrderResponse struct {
	OrderID string      `json:"order_id"`
	Status  OrderStatus `json:"status"`
}
