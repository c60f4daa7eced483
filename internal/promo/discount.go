package promo

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Apply computes the discount the rule grants against the given subtotal.
// The amount is rounded to cents and never exceeds the subtotal itself.
func (r *Rule) Apply(subtotal decimal.Decimal) Discount {
	var amount decimal.Decimal
	switch r.Type {
	case DiscountPercentage:
		amount = subtotal.Mul(r.Value).Div(hundred)
	case DiscountFixed:
		amount = r.Value
	}

	amount = amount.Round(2)
	if amount.GreaterThan(subtotal) {
		amount = subtotal
	}
	if amount.IsNegative() {
		amount = decimal.Zero
	}

	return Discount{
		Code:        r.Code,
		Description: r.Description,
		Amount:      amount,
	}
}

// Eligible reports whether the cart meets the rule's conditions.
func (r *Rule) Eligible(items []Item) bool {
	if !r.Active {
		return false
	}
	if r.MinItems > 0 {
		count := 0
		for _, it := range items {
			count += it.Quantity
		}
		if count < r.MinItems {
			return false
		}
	}
	return true
}
