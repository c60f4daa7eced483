// Package api exposes the storefront over HTTP: catalog, carts, checkout,
// the order lifecycle and the admin surface.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/sadiqstore/storefront/internal/domain/auth"
	"github.com/sadiqstore/storefront/internal/domain/cart"
	"github.com/sadiqstore/storefront/internal/domain/order"
	"github.com/sadiqstore/storefront/internal/domain/product"
	"github.com/sadiqstore/storefront/internal/domain/user"
	"github.com/sadiqstore/storefront/internal/payment"
)

// HandlerConfig holds non-dependency configuration for the Handler.
type HandlerConfig struct {
	// ImageBaseURL is prepended to relative image paths in product responses.
	// When empty, image paths are returned as stored in the database.
	ImageBaseURL string
	// APIKeyPepper is the HMAC secret for admin API key hashing.
	APIKeyPepper string
}

// CodeStockCounter reports the remaining vendor delivery-code stock per
// product.
type CodeStockCounter interface {
	StockByProduct(ctx context.Context) (map[string]int64, error)
}

// Handler serves the storefront API, delegating business logic to the
// injected domain services and repositories.
type Handler struct {
	products     product.Repository
	users        user.Repository
	carts        cart.Repository
	orders       *order.Service
	gateway      payment.Gateway
	apikeys      auth.Repository
	codeStock    CodeStockCounter
	imageBaseURL string
	pepper       []byte
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	cfg HandlerConfig,
	products product.Repository,
	users user.Repository,
	carts cart.Repository,
	orders *order.Service,
	gateway payment.Gateway,
	apikeys auth.Repository,
	codeStock CodeStockCounter,
) *Handler {
	return &Handler{
		products:     products,
		users:        users,
		carts:        carts,
		orders:       orders,
		gateway:      gateway,
		apikeys:      apikeys,
		codeStock:    codeStock,
		imageBaseURL: cfg.ImageBaseURL,
		pepper:       []byte(cfg.APIKeyPepper),
	}
}

// Routes registers every endpoint on the mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("GET /api/products/{productID}", h.getProduct)

	mux.HandleFunc("GET /api/cart/{userID}", h.getCart)
	mux.HandleFunc("POST /api/cart/{userID}/items", h.addCartItem)
	mux.HandleFunc("PATCH /api/cart/{userID}/items/{productID}", h.updateCartItem)
	mux.HandleFunc("DELETE /api/cart/{userID}/items/{productID}", h.removeCartItem)
	mux.HandleFunc("DELETE /api/cart/{userID}", h.clearCart)

	mux.HandleFunc("POST /api/orders", h.placeOrder)
	mux.HandleFunc("GET /api/orders", h.listOrders)
	mux.HandleFunc("GET /api/orders/{orderID}", h.getOrder)
	mux.HandleFunc("POST /api/orders/{orderID}/complete", h.completeOrder)
	mux.HandleFunc("POST /api/orders/{orderID}/cancel", h.cancelOrder)

	mux.Handle("GET /api/admin/orders", h.requireAdmin(h.adminListOrders))
	mux.Handle("PATCH /api/admin/orders/{orderID}/status", h.requireAdmin(h.adminUpdateStatus))
	mux.Handle("DELETE /api/admin/orders/{orderID}", h.requireAdmin(h.adminDeleteOrder))
	mux.Handle("GET /api/admin/users", h.requireAdmin(h.adminListUsers))
	mux.Handle("GET /api/admin/stats", h.requireAdmin(h.adminStats))
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Code: status, Message: msg})
}

// serverError logs the underlying failure and hides it behind a generic 500.
func serverError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
