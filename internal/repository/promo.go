package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sadiqstore/storefront/internal/promo"
)

const getPromoRuleSQL = `SELECT code, discount_type, value, min_items, description, active
	FROM promo_codes WHERE code = $1`

var _ promo.Repository = (*PromoRepository)(nil)

// PromoRepository implements promo.Repository backed by PostgreSQL.
type PromoRepository struct {
	pool *pgxpool.Pool
}

// NewPromoRepository returns a PromoRepository that uses the given pool.
func NewPromoRepository(pool *pgxpool.Pool) *PromoRepository {
	return &PromoRepository{pool: pool}
}

// Find returns the rule for a code. Unknown codes map to
// promo.ErrInvalidCode so callers do not have to distinguish "missing" from
// "not applicable".
func (r *PromoRepository) Find(ctx context.Context, code string) (*promo.Rule, error) {
	rows, err := r.pool.Query(ctx, getPromoRuleSQL, code)
	if err != nil {
		return nil, fmt.Errorf("finding promo code %q: %w", code, err)
	}

	rule, err := pgx.CollectExactlyOneRow(rows, func(row pgx.CollectableRow) (promo.Rule, error) {
		var rule promo.Rule
		err := row.Scan(&rule.Code, &rule.Type, &rule.Value, &rule.MinItems, &rule.Description, &rule.Active)
		return rule, err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.Wrapf(promo.ErrInvalidCode, "%q", code)
		}
		return nil, fmt.Errorf("finding promo code %q: %w", code, err)
	}
	return &rule, nil
}
