package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCart_AddSameProductMergesLines(t *testing.T) {
	c := NewCart()
	p := product("a", "10")

	c.AddToCart(p, 2)
	c.AddToCart(p, 3)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, 5, c.ItemCount())
}

func TestCart_SubtotalUsesActivePrice(t *testing.T) {
	c := NewCart()
	c.AddToCart(withSale(product("a", "20"), "15"), 2)
	c.AddToCart(withSale(product("b", "10"), "12"), 1)

	assert.True(t, dec("40").Equal(c.Subtotal()), c.Subtotal().String())
	assert.True(t, dec("5").Equal(c.Shipping()))
	assert.True(t, dec("45").Equal(c.Total()))
}

func TestCart_UpdateQuantity(t *testing.T) {
	c := NewCart()
	c.AddToCart(product("a", "1"), 1)

	c.UpdateQuantity("a", 4)
	assert.Equal(t, 4, c.ItemCount())

	c.UpdateQuantity("a", 0)
	assert.Empty(t, c.Lines())

	c.UpdateQuantity("missing", 3)
	assert.Empty(t, c.Lines())
}

func TestCart_RemoveMissingIsNoop(t *testing.T) {
	c := NewCart()
	c.AddToCart(product("a", "1"), 1)
	c.RemoveFromCart("zzz")
	assert.Len(t, c.Lines(), 1)
	c.RemoveFromCart("a")
	assert.Empty(t, c.Lines())
}

func TestCart_IgnoresNonPositiveAdd(t *testing.T) {
	c := NewCart()
	c.AddToCart(product("a", "1"), 0)
	assert.Empty(t, c.Lines())
}

func TestCart_EmptyToClear(t *testing.T) {
	c := NewCart()
	p := withSale(product("a", "30"), "25")

	c.AddToCart(p, 1)
	assert.Equal(t, 1, c.ItemCount())
	assert.True(t, p.ActiveUnitPrice().Equal(c.Subtotal()))

	c.ClearCart()
	assert.Equal(t, 0, c.ItemCount())
	assert.True(t, c.Subtotal().IsZero())
	assert.True(t, c.Shipping().IsZero())

	s := c.Summary()
	assert.Empty(t, s.Lines)
	assert.True(t, s.Total.IsZero())
}

func TestCart_DeductOrderedLines(t *testing.T) {
	c := NewCart()
	a, b := product("a", "10"), product("b", "5")
	c.AddToCart(a, 3)
	c.AddToCart(b, 1)

	c.Deduct([]CartLine{{Product: a, Quantity: 2}, {Product: b, Quantity: 1}, {Product: product("gone", "1"), Quantity: 4}})

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "a", lines[0].Product.ID)
	assert.Equal(t, 1, lines[0].Quantity)
}
