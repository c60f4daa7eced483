// Package promo implements promotional code validation and discount
// application for checkout.
package promo

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrInvalidCode is returned when a promo code does not exist, is disabled,
// or its conditions are not met by the cart.
var ErrInvalidCode = errors.New("invalid promo code")

// DiscountType selects how a rule's value is interpreted.
type DiscountType string

const (
	// DiscountPercentage takes Value as a percentage of the subtotal.
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixed takes Value as an absolute amount off the subtotal.
	DiscountFixed DiscountType = "fixed"
)

// Rule is a stored promotional code and its discount terms.
type Rule struct {
	Code        string
	Type        DiscountType
	Value       decimal.Decimal
	MinItems    int
	Description string
	Active      bool
}

// Item is the slice of a cart a rule is evaluated against.
type Item struct {
	ProductID string
	Quantity  int
}

// Discount is the outcome of applying a rule to a subtotal.
type Discount struct {
	Code        string
	Description string
	Amount      decimal.Decimal
}

// Repository looks up stored rules. Find returns ErrInvalidCode for unknown
// codes.
type Repository interface {
	Find(ctx context.Context, code string) (*Rule, error)
}
