package promo

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_Percentage(t *testing.T) {
	rule := &Rule{
		Code:  "WELCOME10",
		Type:  DiscountPercentage,
		Value: decimal.NewFromInt(10),
	}

	d := rule.Apply(decimal.RequireFromString("120.50"))
	assert.True(t, decimal.RequireFromString("12.05").Equal(d.Amount))
	assert.Equal(t, "WELCOME10", d.Code)
}

func TestApply_PercentageRoundsToCents(t *testing.T) {
	rule := &Rule{Type: DiscountPercentage, Value: decimal.NewFromInt(18)}

	// 18% of 10.55 is 1.899, which rounds to 1.90.
	d := rule.Apply(decimal.RequireFromString("10.55"))
	assert.True(t, decimal.RequireFromString("1.90").Equal(d.Amount))
}

func TestApply_Fixed(t *testing.T) {
	rule := &Rule{Type: DiscountFixed, Value: decimal.NewFromInt(5)}

	d := rule.Apply(decimal.RequireFromString("45.50"))
	assert.True(t, decimal.RequireFromString("5.00").Equal(d.Amount))
}

func TestApply_CappedAtSubtotal(t *testing.T) {
	rule := &Rule{Type: DiscountFixed, Value: decimal.NewFromInt(100)}

	d := rule.Apply(decimal.RequireFromString("20.00"))
	assert.True(t, decimal.RequireFromString("20.00").Equal(d.Amount))
}

func TestEligible_MinItems(t *testing.T) {
	rule := &Rule{Code: "GAMER5", Type: DiscountFixed, Value: decimal.NewFromInt(5), MinItems: 2, Active: true}

	assert.False(t, rule.Eligible([]Item{{ProductID: "psn", Quantity: 1}}))
	assert.True(t, rule.Eligible([]Item{{ProductID: "psn", Quantity: 2}}))
	assert.True(t, rule.Eligible([]Item{
		{ProductID: "psn", Quantity: 1},
		{ProductID: "xgp", Quantity: 1},
	}))
}

func TestEligible_Inactive(t *testing.T) {
	rule := &Rule{Code: "OLD", Active: false}
	assert.False(t, rule.Eligible([]Item{{ProductID: "psn", Quantity: 5}}))
}

type mockRuleRepo struct {
	rules map[string]*Rule
}

func (m *mockRuleRepo) Find(_ context.Context, code string) (*Rule, error) {
	r, ok := m.rules[code]
	if !ok {
		return nil, ErrInvalidCode
	}
	return r, nil
}

func TestValidator_Validate(t *testing.T) {
	repo := &mockRuleRepo{rules: map[string]*Rule{
		"WELCOME10": {Code: "WELCOME10", Type: DiscountPercentage, Value: decimal.NewFromInt(10), Active: true},
	}}
	v := NewValidator(repo)

	d, err := v.Validate(context.Background(), "WELCOME10",
		[]Item{{ProductID: "psn", Quantity: 1}}, decimal.RequireFromString("75.00"))

	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("7.50").Equal(d.Amount))
}

func TestValidator_UnknownCode(t *testing.T) {
	v := NewValidator(&mockRuleRepo{rules: map[string]*Rule{}})

	_, err := v.Validate(context.Background(), "BOGUS", nil, decimal.NewFromInt(10))
	require.ErrorIs(t, err, ErrInvalidCode)
}

func TestValidator_ConditionsNotMet(t *testing.T) {
	repo := &mockRuleRepo{rules: map[string]*Rule{
		"GAMER5": {Code: "GAMER5", Type: DiscountFixed, Value: decimal.NewFromInt(5), MinItems: 2, Active: true},
	}}
	v := NewValidator(repo)

	_, err := v.Validate(context.Background(), "GAMER5",
		[]Item{{ProductID: "psn", Quantity: 1}}, decimal.NewFromInt(75))
	require.ErrorIs(t, err, ErrInvalidCode)
}
