// Package cart implements the shopper's working selection: line items with
// price snapshots taken at add time, and the subtotal/count aggregates the
// storefront renders.
package cart

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sadiqstore/storefront/internal/domain/product"
)

// Key identifies a line item within a cart. A product listed with two
// different option SKUs occupies two separate lines.
type Key struct {
	ProductID string
	OptionSKU string
}

// Item is a single cart line. Name, Image and UnitPrice are snapshots taken
// when the item was added, so later catalog edits do not retroactively change
// a cart's pricing.
type Item struct {
	ProductID string          `json:"productId"`
	OptionSKU string          `json:"optionSku,omitempty"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
}

// Key returns the line identity of the item.
func (i Item) Key() Key {
	return Key{ProductID: i.ProductID, OptionSKU: i.OptionSKU}
}

// Cart holds a user's current selection. The zero value (with UserID set) is
// an empty, usable cart.
type Cart struct {
	UserID string
	Items  []Item
}

// New returns an empty cart for the given user.
func New(userID string) *Cart {
	return &Cart{UserID: userID}
}

// Add puts quantity units of the product (optionally a specific variant) into
// the cart. Adding a product that is already present increments the existing
// line instead of appending a duplicate. Non-positive quantities are treated
// as 1.
func (c *Cart) Add(p product.Product, optionSKU string, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	price := p.Price
	if opt, ok := p.Option(optionSKU); ok {
		price = opt.Price
	}

	key := Key{ProductID: p.ID, OptionSKU: optionSKU}
	for i := range c.Items {
		if c.Items[i].Key() == key {
			c.Items[i].Quantity += quantity
			return
		}
	}

	c.Items = append(c.Items, Item{
		ProductID: p.ID,
		OptionSKU: optionSKU,
		Name:      p.Name,
		Image:     p.Image,
		UnitPrice: price,
		Quantity:  quantity,
	})
}

// UpdateQuantity sets the quantity of an existing line. A quantity below 1
// removes the line entirely. Unknown keys are ignored.
func (c *Cart) UpdateQuantity(key Key, quantity int) {
	if quantity < 1 {
		c.Remove(key)
		return
	}
	for i := range c.Items {
		if c.Items[i].Key() == key {
			c.Items[i].Quantity = quantity
			return
		}
	}
}

// Remove deletes the line with the given key. Removing an absent key is a
// no-op, not an error.
func (c *Cart) Remove(key Key) {
	for i := range c.Items {
		if c.Items[i].Key() == key {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart. Called once, after a successful checkout.
func (c *Cart) Clear() {
	c.Items = nil
}

// Subtotal returns the sum of unit price times quantity across all lines.
// An empty cart has a zero subtotal.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range c.Items {
		line := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		sum = sum.Add(line)
	}
	return sum
}

// Count returns the sum of quantities, not the number of distinct lines.
// This is the number shown on the header badge.
func (c *Cart) Count() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// Snapshot returns an independent copy of the cart's lines. Mutating the
// cart afterwards does not affect the returned slice.
func (c *Cart) Snapshot() []Item {
	items := make([]Item, len(c.Items))
	copy(items, c.Items)
	return items
}

// Repository persists carts between requests. Get returns an empty cart for
// users that have never added an item.
type Repository interface {
	Get(ctx context.Context, userID string) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	Clear(ctx context.Context, userID string) error
}
