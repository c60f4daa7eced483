package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Availability describes whether a product (or one of its options) can
// currently be purchased.
type Availability string

const (
	InStock    Availability = "in_stock"
	OutOfStock Availability = "out_of_stock"
	ComingSoon Availability = "coming_soon"
)

// Product represents a digital catalog item: a gift card, game top-up, or
// subscription voucher.
type Product struct {
	ID           string
	Name         string
	Image        string
	Price        decimal.Decimal
	Category     string
	Featured     bool
	Availability Availability
	Options      []Option
}

// Option is a purchasable variant of a product, e.g. a denomination
// ("$20 card" vs "$50 card") with its own SKU and price.
type Option struct {
	Label        string          `json:"label"`
	SKU          string          `json:"sku"`
	Price        decimal.Decimal `json:"price"`
	Availability Availability    `json:"availability"`
}

// Option returns the variant with the given SKU, or false when the product
// has no such variant.
func (p *Product) Option(sku string) (Option, bool) {
	for _, o := range p.Options {
		if o.SKU == sku {
			return o, true
		}
	}
	return Option{}, false
}

// Repository defines read operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
}
