package backendclient

import (
	"context"
	"net/http"

	"github.com/Skotchmaster/beauty_shop/pkg/domain"
)

// ListOrders returns the caller's orders with their items, newest first.
// The ctx must carry an access token.
func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	if err := c.do(ctx, http.MethodGet, "/rest/v1/orders", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateOrder invokes the create-order function and returns the payment
// provider's order reference.
func (c *Client) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (domain.CreateOrderResponse, error) {
	var out domain.CreateOrderResponse
	err := c.do(ctx, http.MethodPost, "/functions/v1/create-order", nil, req, &out)
	return out, err
}

func (c *Client) CaptureOrder(ctx context.Context, providerRef string) (domain.CaptureOrderResponse, error) {
	var out domain.CaptureOrderResponse
	err := c.do(ctx, http.MethodPost, "/functions/v1/capture-order", nil, domain.CaptureOrderRequest{OrderID: providerRef}, &out)
	return out, err
}
