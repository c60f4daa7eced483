// Package order owns the order entity and its lifecycle: creation from a
// cart snapshot, status transitions, and delivery-code fulfillment on first
// completion.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors for lifecycle operations.
var (
	// ErrEmptyCart is returned by Create when the checkout cart has no items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrNotFound is returned when no order exists with the requested id.
	ErrNotFound = errors.New("order not found")
)

// Item is an order line: a cart line frozen at checkout time, plus the
// delivery fields attached when the order first completes. Code and
// DeliveredAt are write-once — re-completing an order never regenerates them.
type Item struct {
	ProductID   string          `json:"productId"`
	OptionSKU   string          `json:"optionSku,omitempty"`
	Name        string          `json:"name"`
	Image       string          `json:"image"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	Code        string          `json:"code,omitempty"`
	DeliveredAt *time.Time      `json:"deliveredAt,omitempty"`
}

// CustomerInfo is the contact snapshot captured at checkout, independent of
// the live user record.
type CustomerInfo struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Order is a placed purchase. Items, Subtotal, Discounts and Total are set
// once at creation and never recomputed; after creation the only mutation of
// Items is attaching Code/DeliveredAt during the first completion.
type Order struct {
	ID            string
	UserID        string
	Items         []Item
	Subtotal      decimal.Decimal
	Discounts     decimal.Decimal
	Total         decimal.Decimal
	Status        Status
	PaymentMethod string
	PromoCode     string
	Customer      CustomerInfo
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time
}

// StatusStat is an aggregate row for the admin dashboard.
type StatusStat struct {
	Status Status
	Count  int64
	Total  decimal.Decimal
}

// Store defines persistence for orders. Update must write the whole order
// (items included) atomically so that a completion either attaches all codes
// or none. GetByID, Update and Delete return ErrNotFound for unknown ids.
type Store interface {
	Create(ctx context.Context, o *Order) error
	Update(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	List(ctx context.Context) ([]Order, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) ([]StatusStat, error)
}
