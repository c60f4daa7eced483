package promo

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Validator resolves a promo code against a cart and returns the discount it
// grants. Implementations return ErrInvalidCode (possibly wrapped) when the
// code cannot be applied.
type Validator interface {
	Validate(ctx context.Context, code string, items []Item, subtotal decimal.Decimal) (Discount, error)
}

// RepoValidator validates codes against a rule repository.
type RepoValidator struct {
	rules Repository
}

var _ Validator = (*RepoValidator)(nil)

// NewValidator builds a Validator on top of the given rule repository.
func NewValidator(rules Repository) *RepoValidator {
	return &RepoValidator{rules: rules}
}

// Validate implements Validator.
func (v *RepoValidator) Validate(ctx context.Context, code string, items []Item, subtotal decimal.Decimal) (Discount, error) {
	rule, err := v.rules.Find(ctx, code)
	if err != nil {
		return Discount{}, errors.Wrap(err, "find rule")
	}
	if !rule.Eligible(items) {
		return Discount{}, errors.Wrapf(ErrInvalidCode, "%q conditions not met", code)
	}
	return rule.Apply(subtotal), nil
}
