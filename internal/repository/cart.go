package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sadiqstore/storefront/internal/domain/cart"
)

const (
	getCartItemsSQL = `SELECT product_id, option_sku, name, image, unit_price, quantity
		FROM cart_items WHERE user_id = $1 ORDER BY added_at`

	insertCartItemSQL = `INSERT INTO cart_items (user_id, product_id, option_sku, name, image, unit_price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	deleteCartItemsSQL = `DELETE FROM cart_items WHERE user_id = $1`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL. Save
// replaces the user's rows wholesale inside a transaction, which keeps the
// stored cart an exact mirror of the aggregate without diffing lines.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// Get loads the user's cart. Users without stored rows get an empty cart.
func (r *CartRepository) Get(ctx context.Context, userID string) (*cart.Cart, error) {
	rows, err := r.pool.Query(ctx, getCartItemsSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("getting cart for user %q: %w", userID, err)
	}

	items, err := pgx.CollectRows(rows, scanCartItem)
	if err != nil {
		return nil, fmt.Errorf("getting cart for user %q: %w", userID, err)
	}

	c := cart.New(userID)
	c.Items = items
	return c, nil
}

// Save replaces the stored cart with the given one.
func (r *CartRepository) Save(ctx context.Context, c *cart.Cart) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning cart save: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.Exec(ctx, deleteCartItemsSQL, c.UserID); err != nil {
		return fmt.Errorf("clearing cart rows for user %q: %w", c.UserID, err)
	}

	for _, item := range c.Items {
		_, err := tx.Exec(ctx, insertCartItemSQL,
			c.UserID, item.ProductID, item.OptionSKU,
			item.Name, item.Image, item.UnitPrice, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("inserting cart row for user %q: %w", c.UserID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing cart save: %w", err)
	}
	return nil
}

// Clear removes every row of the user's cart.
func (r *CartRepository) Clear(ctx context.Context, userID string) error {
	if _, err := r.pool.Exec(ctx, deleteCartItemsSQL, userID); err != nil {
		return fmt.Errorf("clearing cart for user %q: %w", userID, err)
	}
	return nil
}

func scanCartItem(row pgx.CollectableRow) (cart.Item, error) {
	var item cart.Item
	err := row.Scan(
		&item.ProductID, &item.OptionSKU, &item.Name,
		&item.Image, &item.UnitPrice, &item.Quantity,
	)
	return item, err
}
