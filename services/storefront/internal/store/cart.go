package store

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/beauty_shop/pkg/domain"
)

type CartLine struct {
	Product  domain.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.Product.ActiveUnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is one device's in-memory cart. Lines are keyed by product ID and keep
// the order in which products were first added.
type Cart struct {
	mu    sync.RWMutex
	lines []CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

// AddToCart adds qty units of p. Callers clamp qty; values below 1 are ignored.
func (c *Cart) AddToCart(p domain.Product, qty int) {
	if qty < 1 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(p.ID); i >= 0 {
		c.lines[i].Quantity += qty
		return
	}
	c.lines = append(c.lines, CartLine{Product: p, Quantity: qty})
}

// UpdateQuantity sets the line quantity; anything below 1 removes the line.
func (c *Cart) UpdateQuantity(productID string, qty int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	if qty < 1 {
		c.remove(i)
		return
	}
	c.lines[i].Quantity = qty
}

func (c *Cart) RemoveFromCart(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(productID); i >= 0 {
		c.remove(i)
	}
}

// Deduct removes the given quantities, e.g. the lines of a paid order. Lines
// that drop below 1 are removed; products absent from the cart are skipped.
func (c *Cart) Deduct(lines []CartLine) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range lines {
		i := c.indexOf(l.Product.ID)
		if i < 0 {
			continue
		}
		if c.lines[i].Quantity -= l.Quantity; c.lines[i].Quantity < 1 {
			c.remove(i)
		}
	}
}

func (c *Cart) ClearCart() {
	c.mu.Lock()
	c.lines = nil
	c.mu.Unlock()
}

func (c *Cart) Lines() []CartLine {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]CartLine{}, c.lines...)
}

func (c *Cart) Has(productID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexOf(productID) >= 0
}

func (c *Cart) ItemCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Subtotal() decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return subtotal(c.lines)
}

func (c *Cart) Shipping() decimal.Decimal {
	return domain.ShippingFor(c.Subtotal())
}

func (c *Cart) Total() decimal.Decimal {
	s := c.Subtotal()
	return s.Add(domain.ShippingFor(s))
}

// Summary is a consistent snapshot of the cart and its totals.
type Summary struct {
	Lines     []CartLine      `json:"lines"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Shipping  decimal.Decimal `json:"shipping"`
	Total     decimal.Decimal `json:"total"`
}

func (c *Cart) Summary() Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Summary{Lines: append([]CartLine{}, c.lines...)}
	for _, l := range c.lines {
		s.ItemCount += l.Quantity
	}
	s.Subtotal = subtotal(c.lines)
	s.Shipping = domain.ShippingFor(s.Subtotal)
	s.Total = s.Subtotal.Add(s.Shipping)
	return s
}

func subtotal(lines []CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}

func (c *Cart) indexOf(id string) int {
	for i, l := range c.lines {
		if l.Product.ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) remove(i int) {
	c.lines = append(c.lines[:i:i], c.lines[i+1:]...)
}
