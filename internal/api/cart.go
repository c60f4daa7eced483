package api

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/sadiqstore/storefront/internal/domain/cart"
	"github.com/sadiqstore/storefront/internal/domain/product"
)

type cartResponse struct {
	UserID   string          `json:"userId"`
	Items    []cart.Item     `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Count    int             `json:"count"`
}

func toCartResponse(c *cart.Cart) cartResponse {
	items := c.Snapshot()
	if items == nil {
		items = []cart.Item{}
	}
	return cartResponse{
		UserID:   c.UserID,
		Items:    items,
		Subtotal: c.Subtotal(),
		Count:    c.Count(),
	}
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")

	c, err := h.carts.Get(r.Context(), userID)
	if err != nil {
		serverError(w, r, errors.Wrap(err, "get cart"))
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	OptionSKU string `json:"optionSku"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")

	var req addItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "productId required")
		return
	}

	p, err := h.products.GetByID(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, http.StatusUnprocessableEntity, "product not found")
			return
		}
		serverError(w, r, errors.Wrapf(err, "get product %s", req.ProductID))
		return
	}
	if req.OptionSKU != "" {
		if _, ok := p.Option(req.OptionSKU); !ok {
			writeError(w, http.StatusUnprocessableEntity, "unknown product option")
			return
		}
	}

	c, err := h.carts.Get(r.Context(), userID)
	if err != nil {
		serverError(w, r, errors.Wrap(err, "get cart"))
		return
	}

	c.Add(*p, req.OptionSKU, req.Quantity)
	if err := h.carts.Save(r.Context(), c); err != nil {
		serverError(w, r, errors.Wrap(err, "save cart"))
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

type updateItemRequest struct {
	OptionSKU string `json:"optionSku"`
	Quantity  int    `json:"quantity"`
}

// updateCartItem sets a line's quantity. A quantity below 1 removes the line,
// matching what the storefront does when the shopper steps the counter down
// to zero.
func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	productID := r.PathValue("productID")

	var req updateItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.carts.Get(r.Context(), userID)
	if err != nil {
		serverError(w, r, errors.Wrap(err, "get cart"))
		return
	}

	c.UpdateQuantity(cart.Key{ProductID: productID, OptionSKU: req.OptionSKU}, req.Quantity)
	if err := h.carts.Save(r.Context(), c); err != nil {
		serverError(w, r, errors.Wrap(err, "save cart"))
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	productID := r.PathValue("productID")
	optionSKU := r.URL.Query().Get("optionSku")

	c, err := h.carts.Get(r.Context(), userID)
	if err != nil {
		serverError(w, r, errors.Wrap(err, "get cart"))
		return
	}

	c.Remove(cart.Key{ProductID: productID, OptionSKU: optionSKU})
	if err := h.carts.Save(r.Context(), c); err != nil {
		serverError(w, r, errors.Wrap(err, "save cart"))
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")

	if err := h.carts.Clear(r.Context(), userID); err != nil {
		serverError(w, r, errors.Wrap(err, "clear cart"))
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(cart.New(userID)))
}
