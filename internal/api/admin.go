package api

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/sadiqstore/storefront/internal/domain/order"
)

func (h *Handler) adminListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context())
	if err != nil {
		serverError(w, r, errors.Wrap(err, "list all orders"))
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) adminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("orderID")

	var req updateStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "unknown status")
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), id, status)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		serverError(w, r, errors.Wrapf(err, "update order %s status", id))
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) adminDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("orderID")

	if err := h.orders.Delete(r.Context(), id); err != nil {
		if errors.Is(err, order.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		serverError(w, r, errors.Wrapf(err, "delete order %s", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *Handler) adminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		serverError(w, r, errors.Wrap(err, "list users"))
		return
	}

	resp := make([]userResponse, len(users))
	for i, u := range users {
		resp[i] = userResponse{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Role:      string(u.Role),
			CreatedAt: u.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type statsResponse struct {
	TotalOrders  int64                    `json:"totalOrders"`
	TotalRevenue decimal.Decimal          `json:"totalRevenue"`
	ByStatus     map[string]statusSummary `json:"byStatus"`
	CodeStock    map[string]int64         `json:"codeStock"`
}

type statusSummary struct {
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// adminStats aggregates order counts per status and remaining code stock per
// product. Revenue counts completed orders only.
func (h *Handler) adminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.orders.Stats(r.Context())
	if err != nil {
		serverError(w, r, errors.Wrap(err, "collect stats"))
		return
	}

	stock, err := h.codeStock.StockByProduct(r.Context())
	if err != nil {
		serverError(w, r, errors.Wrap(err, "count code stock"))
		return
	}

	resp := statsResponse{
		TotalRevenue: decimal.Zero,
		ByStatus:     make(map[string]statusSummary, len(stats)),
		CodeStock:    stock,
	}
	for _, s := range stats {
		resp.TotalOrders += s.Count
		if s.Status == order.StatusCompleted {
			resp.TotalRevenue = resp.TotalRevenue.Add(s.Total)
		}
		resp.ByStatus[s.Status.String()] = statusSummary{Count: s.Count, Total: s.Total}
	}
	writeJSON(w, http.StatusOK, resp)
}
