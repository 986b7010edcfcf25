package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/beauty_shop/pkg/domain"
	"github.com/Skotchmaster/beauty_shop/pkg/logging"
	"github.com/Skotchmaster/beauty_shop/services/storefront/internal/store"
)

type CartHTTP struct {
	Catalog *store.Catalog
}

type cartItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  json.RawMessage `json:"quantity"`
}

// parseQuantity accepts a JSON number or a numeric string.
func parseQuantity(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		n = json.Number(strings.TrimSpace(s))
	}
	v, err := strconv.Atoi(n.String())
	if err != nil {
		return 0, false
	}
	return v, true
}

// clampQuantity turns anything that is not a positive integer into 1.
func clampQuantity(raw json.RawMessage) int {
	if q, ok := parseQuantity(raw); ok && q >= 1 {
		return q
	}
	return 1
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	return c.JSON(http.StatusOK, sessionOf(c).Cart.Summary())
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	var req cartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "cart_add_error", "invalid body", err)
	}

	p, ok := h.Catalog.Product(req.ProductID)
	if !ok {
		l.Warn("cart_add_error", "status", http.StatusNotFound, "reason", "unknown product", "product_id", req.ProductID)
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	cart := sessionOf(c).Cart
	cart.AddToCart(p, clampQuantity(req.Quantity))
	return c.JSON(http.StatusOK, cart.Summary())
}

// UpdateItem sets the quantity; zero or less removes the line.
func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_item")

	var req cartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "cart_update_error", "invalid body", err)
	}
	q, ok := parseQuantity(req.Quantity)
	if !ok {
		return badRequest(l, "cart_update_error", "quantity must be a whole number", nil)
	}

	cart := sessionOf(c).Cart
	cart.UpdateQuantity(c.Param("id"), q)
	return c.JSON(http.StatusOK, cart.Summary())
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	cart := sessionOf(c).Cart
	cart.RemoveFromCart(c.Param("id"))
	return c.JSON(http.StatusOK, cart.Summary())
}

type wishlistResponse struct {
	IDs      []string         `json:"ids"`
	Products []domain.Product `json:"products"`
	Count    int              `json:"count"`
}

func (h *CartHTTP) wishlist(c echo.Context) error {
	ids := sessionOf(c).Wishlist.Items()
	products := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := h.Catalog.Product(id); ok {
			products = append(products, p)
		}
	}
	return c.JSON(http.StatusOK, wishlistResponse{IDs: ids, Products: products, Count: len(ids)})
}

func (h *CartHTTP) GetWishlist(c echo.Context) error {
	return h.wishlist(c)
}

func (h *CartHTTP) AddToWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.add")

	id := c.Param("id")
	if _, ok := h.Catalog.Product(id); !ok {
		l.Warn("wishlist_add_error", "status", http.StatusNotFound, "reason", "unknown product", "product_id", id)
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err := sessionOf(c).Wishlist.AddToWishlist(id); err != nil {
		return fail(l, "wishlist_add_failed", err)
	}
	return h.wishlist(c)
}

func (h *CartHTTP) RemoveFromWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.remove")

	if err := sessionOf(c).Wishlist.RemoveFromWishlist(c.Param("id")); err != nil {
		return fail(l, "wishlist_remove_failed", err)
	}
	return h.wishlist(c)
}
