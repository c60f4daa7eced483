package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sadiqstore/storefront/internal/domain/order"
)

const (
	createOrderSQL = `INSERT INTO orders (id, user_id, items, subtotal, discounts, total, status,
			payment_method, promo_code, customer_email, customer_first_name, customer_last_name,
			created_at, updated_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	updateOrderSQL = `UPDATE orders SET items = $2, status = $3, updated_at = $4, completed_at = $5
		WHERE id = $1`

	selectOrderSQL = `SELECT id, user_id, items, subtotal, discounts, total, status,
			payment_method, promo_code, customer_email, customer_first_name, customer_last_name,
			created_at, updated_at, completed_at
		FROM orders`

	getOrderByIDSQL   = selectOrderSQL + ` WHERE id = $1`
	listOrdersByUser  = selectOrderSQL + ` WHERE user_id = $1 ORDER BY created_at DESC`
	listAllOrdersSQL  = selectOrderSQL + ` ORDER BY created_at DESC`
	deleteOrderSQL    = `DELETE FROM orders WHERE id = $1`
	orderStatsByState = `SELECT status, COUNT(*), COALESCE(SUM(total), 0)
		FROM orders GROUP BY status ORDER BY status`
)

var _ order.Store = (*OrderRepository)(nil)

// OrderRepository implements order.Store backed by PostgreSQL. Items are
// serialized to a JSONB column, so an update rewrites the whole row and a
// completion attaches all delivery codes atomically.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshaling order items: %w", err)
	}

	_, err = r.pool.Exec(ctx, createOrderSQL,
		o.ID, o.UserID, itemsJSON, o.Subtotal, o.Discounts, o.Total, o.Status,
		o.PaymentMethod, o.PromoCode, o.Customer.Email, o.Customer.FirstName, o.Customer.LastName,
		o.CreatedAt, o.UpdatedAt, o.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}

	return nil
}

// Update rewrites the mutable part of the order row: items, status and the
// lifecycle timestamps.
func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshaling order items: %w", err)
	}

	tag, err := r.pool.Exec(ctx, updateOrderSQL,
		o.ID, itemsJSON, o.Status, o.UpdatedAt, o.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("updating order %q: %w", o.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// GetByID returns a single order by its identifier.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	return &o, nil
}

// ListByUser returns the user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByUser, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %q: %w", userID, err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// List returns every order, newest first.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listAllOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// Delete removes an order permanently.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deleteOrderSQL, id)
	if err != nil {
		return fmt.Errorf("deleting order %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// Stats returns per-status order counts and revenue.
func (r *OrderRepository) Stats(ctx context.Context) ([]order.StatusStat, error) {
	rows, err := r.pool.Query(ctx, orderStatsByState)
	if err != nil {
		return nil, fmt.Errorf("collecting order stats: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (order.StatusStat, error) {
		var s order.StatusStat
		err := row.Scan(&s.Status, &s.Count, &s.Total)
		return s, err
	})
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o     order.Order
		items []byte
	)
	err := row.Scan(
		&o.ID, &o.UserID, &items, &o.Subtotal, &o.Discounts, &o.Total, &o.Status,
		&o.PaymentMethod, &o.PromoCode, &o.Customer.Email, &o.Customer.FirstName, &o.Customer.LastName,
		&o.CreatedAt, &o.UpdatedAt, &o.CompletedAt,
	)
	if err != nil {
		return o, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return o, fmt.Errorf("unmarshaling order items: %w", err)
	}
	return o, nil
}
