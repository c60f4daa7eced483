package api

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/sadiqstore/storefront/internal/domain/order"
	"github.com/sadiqstore/storefront/internal/payment"
	"github.com/sadiqstore/storefront/internal/promo"
)

type orderResponse struct {
	ID            string             `json:"id"`
	UserID        string             `json:"userId"`
	Items         []order.Item       `json:"items"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Discounts     decimal.Decimal    `json:"discounts"`
	Total         decimal.Decimal    `json:"total"`
	Status        string             `json:"status"`
	PaymentMethod string             `json:"paymentMethod"`
	PromoCode     string             `json:"promoCode,omitempty"`
	Customer      order.CustomerInfo `json:"customerInfo"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
	CompletedAt   *time.Time         `json:"completedAt,omitempty"`
}

func toOrderResponse(o *order.Order) orderResponse {
	return orderResponse{
		ID:            o.ID,
		UserID:        o.UserID,
		Items:         o.Items,
		Subtotal:      o.Subtotal,
		Discounts:     o.Discounts,
		Total:         o.Total,
		Status:        o.Status.String(),
		PaymentMethod: o.PaymentMethod,
		PromoCode:     o.PromoCode,
		Customer:      o.Customer,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		CompletedAt:   o.CompletedAt,
	}
}

type placeOrderRequest struct {
	UserID        string             `json:"userId"`
	PaymentMethod string             `json:"paymentMethod"`
	PromoCode     string             `json:"promoCode"`
	Customer      order.CustomerInfo `json:"customerInfo"`
}

// placeOrder checks out the user's server-side cart: the order is created
// pending and the cart is cleared only after the order is persisted.
func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId required")
		return
	}

	c, err := h.carts.Get(r.Context(), req.UserID)
	if err != nil {
		serverError(w, r, errors.Wrap(err, "get cart"))
		return
	}

	o, err := h.orders.Create(r.Context(), order.CreateRequest{
		UserID:        req.UserID,
		Cart:          c,
		Customer:      req.Customer,
		PaymentMethod: req.PaymentMethod,
		PromoCode:     req.PromoCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, order.ErrEmptyCart):
			writeError(w, http.StatusBadRequest, "cart is empty")
		case errors.Is(err, promo.ErrInvalidCode):
			writeError(w, http.StatusUnprocessableEntity, "invalid promo code")
		default:
			serverError(w, r, errors.Wrap(err, "create order"))
		}
		return
	}

	if err := h.carts.Clear(r.Context(), req.UserID); err != nil {
		// The order exists either way; a stale cart is recoverable, a lost
		// order is not.
		serverError(w, r, errors.Wrap(err, "clear cart after checkout"))
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(o))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "userId query parameter required")
		return
	}

	orders, err := h.orders.ListByUser(r.Context(), userID)
	if err != nil {
		serverError(w, r, errors.Wrap(err, "list orders"))
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("orderID")

	o, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		serverError(w, r, errors.Wrapf(err, "get order %s", id))
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// completeOrder charges the order total through the payment gateway and, on
// success, transitions the order to completed. Declines surface as 402 and
// leave the order untouched.
func (h *Handler) completeOrder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("orderID")

	o, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		serverError(w, r, errors.Wrapf(err, "get order %s", id))
		return
	}

	// Only charge orders that have not been paid yet. Re-completing a
	// completed order skips the gateway and is otherwise harmless.
	if o.CompletedAt == nil {
		_, err := h.gateway.Charge(r.Context(), payment.ChargeRequest{
			OrderID: o.ID,
			UserID:  o.UserID,
			Amount:  o.Total,
			Method:  o.PaymentMethod,
		})
		if err != nil {
			var payErr *payment.Error
			if errors.As(err, &payErr) {
				writeError(w, http.StatusPaymentRequired, payErr.Message)
				return
			}
			serverError(w, r, errors.Wrap(err, "charge order"))
			return
		}
	}

	updated, err := h.orders.UpdateStatus(r.Context(), id, order.StatusCompleted)
	if err != nil {
		serverError(w, r, errors.Wrapf(err, "complete order %s", id))
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(updated))
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("orderID")

	o, err := h.orders.Cancel(r.Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		serverError(w, r, errors.Wrapf(err, "cancel order %s", id))
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func toOrderResponses(orders []order.Order) []orderResponse {
	resp := make([]orderResponse, len(orders))
	for i := range orders {
		resp[i] = toOrderResponse(&orders[i])
	}
	return resp
}
