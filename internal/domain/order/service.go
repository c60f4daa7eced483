package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sadiqstore/storefront/internal/domain/cart"
	"github.com/sadiqstore/storefront/internal/promo"
)

// Fulfiller attaches delivery codes to order items. Items that already carry
// a code must be left untouched.
type Fulfiller interface {
	Fulfill(items []Item, now time.Time) error
}

// Service implements the order lifecycle over a Store.
type Service struct {
	store  Store
	promos promo.Validator
	fulfil Fulfiller
	now    func() time.Time
}

// NewService wires the lifecycle service. The promo validator may be nil when
// promotional codes are not offered.
func NewService(store Store, promos promo.Validator, fulfil Fulfiller) *Service {
	return &Service{
		store:  store,
		promos: promos,
		fulfil: fulfil,
		now:    time.Now,
	}
}

// CreateRequest carries everything checkout needs to place an order.
type CreateRequest struct {
	UserID        string
	Cart          *cart.Cart
	Customer      CustomerInfo
	PaymentMethod string
	PromoCode     string
}

// Create places a new pending order from the cart snapshot. Totals are
// computed once here and never recomputed; a discount can reduce the total to
// zero but never below. An empty cart yields ErrEmptyCart and nothing is
// persisted.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Order, error) {
	if req.Cart == nil || len(req.Cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	lines := req.Cart.Snapshot()
	items := make([]Item, len(lines))
	for i, l := range lines {
		items[i] = Item{
			ProductID: l.ProductID,
			OptionSKU: l.OptionSKU,
			Name:      l.Name,
			Image:     l.Image,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
		}
	}

	subtotal := req.Cart.Subtotal()
	discount := decimal.Zero
	promoCode := ""
	if req.PromoCode != "" {
		if s.promos == nil {
			return nil, errors.Wrap(promo.ErrInvalidCode, "promo codes not accepted")
		}
		promoItems := make([]promo.Item, len(items))
		for i, it := range items {
			promoItems[i] = promo.Item{ProductID: it.ProductID, Quantity: it.Quantity}
		}
		d, err := s.promos.Validate(ctx, req.PromoCode, promoItems, subtotal)
		if err != nil {
			return nil, errors.Wrap(err, "validate promo")
		}
		discount = d.Amount
		promoCode = d.Code
	}

	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	now := s.now().UTC()
	o := &Order{
		ID:            uuid.NewString(),
		UserID:        req.UserID,
		Items:         items,
		Subtotal:      subtotal.Round(2),
		Discounts:     discount,
		Total:         total.Round(2),
		Status:        StatusPending,
		PaymentMethod: req.PaymentMethod,
		PromoCode:     promoCode,
		Customer:      req.Customer,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.store.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}
	return o, nil
}

// UpdateStatus moves an order to the given state and persists the whole row.
// The first transition into completed stamps CompletedAt and attaches a
// delivery code to every item; later completions leave both untouched, so a
// code observed by the customer never changes.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (*Order, error) {
	if !status.Valid() {
		return nil, errors.Wrapf(ErrInvalidStatus, "%q", status)
	}

	o, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "get order")
	}

	now := s.now().UTC()
	o.Status = status
	o.UpdatedAt = now

	if status == StatusCompleted && o.CompletedAt == nil {
		o.CompletedAt = &now
		if s.fulfil != nil {
			if err := s.fulfil.Fulfill(o.Items, now); err != nil {
				return nil, errors.Wrap(err, "fulfill items")
			}
		}
	}

	if err := s.store.Update(ctx, o); err != nil {
		return nil, errors.Wrap(err, "update order")
	}
	return o, nil
}

// Cancel moves the order to cancelled. Delivery codes attached by an earlier
// completion are preserved.
func (s *Service) Cancel(ctx context.Context, id string) (*Order, error) {
	return s.UpdateStatus(ctx, id, StatusCancelled)
}

// GetByID returns a single order.
func (s *Service) GetByID(ctx context.Context, id string) (*Order, error) {
	return s.store.GetByID(ctx, id)
}

// ListByUser returns the user's orders, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return s.store.ListByUser(ctx, userID)
}

// ListAll returns every order, newest first. Admin surface only.
func (s *Service) ListAll(ctx context.Context) ([]Order, error) {
	return s.store.List(ctx)
}

// Delete removes an order permanently. Admin surface only.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Stats returns per-status order counts and revenue. Admin surface only.
func (s *Service) Stats(ctx context.Context) ([]StatusStat, error) {
	return s.store.Stats(ctx)
}
