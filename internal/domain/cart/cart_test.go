package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadiqstore/storefront/internal/domain/product"
)

func newTestProduct(id, name string, price string) product.Product {
	return product.Product{
		ID:           id,
		Name:         name,
		Image:        "products/" + id + ".png",
		Price:        decimal.RequireFromString(price),
		Category:     "test",
		Availability: product.InStock,
	}
}

func TestAdd_Subtotal(t *testing.T) {
	psn := newTestProduct("psn", "PSN Card", "75.00")
	xgp := newTestProduct("xgp", "Game Pass", "45.50")

	c := New("u1")
	c.Add(psn, "", 1)
	c.Add(xgp, "", 1)

	assert.True(t, decimal.RequireFromString("120.50").Equal(c.Subtotal()))
	assert.Equal(t, 2, c.Count())
}

func TestAdd_IncrementsExistingLine(t *testing.T) {
	psn := newTestProduct("psn", "PSN Card", "75.00")

	c := New("u1")
	c.Add(psn, "", 1)
	c.Add(psn, "", 2)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, 3, c.Count())
}

func TestAdd_OptionPriceSnapshot(t *testing.T) {
	psn := newTestProduct("psn", "PSN Card", "75.00")
	psn.Options = []product.Option{
		{Label: "$20 Card", SKU: "psn-20", Price: decimal.RequireFromString("20.00"), Availability: product.InStock},
	}

	c := New("u1")
	c.Add(psn, "psn-20", 1)

	require.Len(t, c.Items, 1)
	assert.True(t, decimal.RequireFromString("20.00").Equal(c.Items[0].UnitPrice))
}

func TestAdd_SeparateLinesPerOption(t *testing.T) {
	psn := newTestProduct("psn", "PSN Card", "75.00")
	psn.Options = []product.Option{
		{Label: "$20 Card", SKU: "psn-20", Price: decimal.RequireFromString("20.00")},
		{Label: "$50 Card", SKU: "psn-50", Price: decimal.RequireFromString("50.00")},
	}

	c := New("u1")
	c.Add(psn, "psn-20", 1)
	c.Add(psn, "psn-50", 1)

	assert.Len(t, c.Items, 2)
	assert.True(t, decimal.RequireFromString("70.00").Equal(c.Subtotal()))
}

func TestAdd_NonPositiveQuantityBecomesOne(t *testing.T) {
	psn := newTestProduct("psn", "PSN Card", "75.00")

	c := New("u1")
	c.Add(psn, "", 0)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 1, c.Items[0].Quantity)
}

func TestUpdateQuantity_BelowOneRemovesLine(t *testing.T) {
	psn := newTestProduct("psn", "PSN Card", "75.00")

	for _, qty := range []int{0, -1} {
		c := New("u1")
		c.Add(psn, "", 2)

		c.UpdateQuantity(Key{ProductID: "psn"}, qty)

		assert.Empty(t, c.Items, "quantity %d should remove the line", qty)
		assert.True(t, decimal.Zero.Equal(c.Subtotal()))
	}
}

func TestUpdateQuantity_SetsQuantity(t *testing.T) {
	psn := newTestProduct("psn", "PSN Card", "75.00")

	c := New("u1")
	c.Add(psn, "", 1)
	c.UpdateQuantity(Key{ProductID: "psn"}, 5)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
}

func TestUpdateQuantity_UnknownKeyIgnored(t *testing.T) {
	c := New("u1")
	c.UpdateQuantity(Key{ProductID: "ghost"}, 3)
	assert.Empty(t, c.Items)
}

func TestRemove_AbsentKeyIsNoOp(t *testing.T) {
	psn := newTestProduct("psn", "PSN Card", "75.00")

	c := New("u1")
	c.Add(psn, "", 1)
	c.Remove(Key{ProductID: "ghost"})

	assert.Len(t, c.Items, 1)
}

func TestClear(t *testing.T) {
	psn := newTestProduct("psn", "PSN Card", "75.00")

	c := New("u1")
	c.Add(psn, "", 2)
	c.Clear()

	assert.Empty(t, c.Items)
	assert.Equal(t, 0, c.Count())
	assert.True(t, decimal.Zero.Equal(c.Subtotal()))
}

func TestSnapshot_Independent(t *testing.T) {
	psn := newTestProduct("psn", "PSN Card", "75.00")

	c := New("u1")
	c.Add(psn, "", 1)

	snap := c.Snapshot()
	c.UpdateQuantity(Key{ProductID: "psn"}, 9)
	c.Clear()

	require.Len(t, snap, 1)
	assert.Equal(t, 1, snap[0].Quantity)
}
