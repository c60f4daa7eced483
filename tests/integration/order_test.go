//go:build integration

package integration

import (
	"net/http"
	"regexp"
	"testing"
	"time"
)

var deliveryCodePattern = regexp.MustCompile(`^[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}$`)

func fillCart(t *testing.T, userID string) {
	t.Helper()

	for _, item := range []map[string]any{
		{"productId": "psn-card", "quantity": 1},
		{"productId": "xbox-gamepass", "quantity": 1},
	} {
		resp := doPost(t, "/api/cart/"+userID+"/items", item)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("add to cart: expected 200, got %d", resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func placeOrder(t *testing.T, userID string, promoCode string) orderResponse {
	t.Helper()

	resp := doPost(t, "/api/orders", map[string]any{
		"userId":        userID,
		"paymentMethod": "card",
		"promoCode":     promoCode,
		"customerInfo": map[string]string{
			"email":     "customer@example.com",
			"firstName": "Sam",
			"lastName":  "Doe",
		},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("place order: expected 201, got %d", resp.StatusCode)
	}
	return decodeJSON[orderResponse](t, resp)
}

func TestCheckoutLifecycle(t *testing.T) {
	const userID = "it-lifecycle"
	fillCart(t, userID)

	o := placeOrder(t, userID, "")
	if o.Status != "pending" {
		t.Fatalf("status = %q, want pending", o.Status)
	}
	if o.Total != 120.50 {
		t.Errorf("total = %v, want 120.50", o.Total)
	}
	if o.CompletedAt != nil {
		t.Error("new order must not have completedAt")
	}

	// Cart must be empty after checkout.
	resp := doGet(t, "/api/cart/"+userID)
	c := decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if len(c.Items) != 0 {
		t.Errorf("cart not cleared: %d items", len(c.Items))
	}

	// Complete: codes are attached exactly once.
	resp = doPost(t, "/api/orders/"+o.ID+"/complete", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("complete: expected 200, got %d", resp.StatusCode)
	}
	done := decodeJSON[orderResponse](t, resp)
	resp.Body.Close()

	if done.Status != "completed" {
		t.Fatalf("status = %q, want completed", done.Status)
	}
	if done.CompletedAt == nil {
		t.Fatal("completedAt missing")
	}
	for _, item := range done.Items {
		if !deliveryCodePattern.MatchString(item.Code) {
			t.Errorf("bad delivery code %q", item.Code)
		}
		if item.DeliveredAt == nil {
			t.Errorf("deliveredAt missing for %s", item.ProductID)
		}
	}

	// Re-completing keeps the same codes.
	resp = doPost(t, "/api/orders/"+o.ID+"/complete", nil)
	again := decodeJSON[orderResponse](t, resp)
	resp.Body.Close()
	for i := range done.Items {
		if done.Items[i].Code != again.Items[i].Code {
			t.Errorf("code changed on re-completion: %q -> %q", done.Items[i].Code, again.Items[i].Code)
		}
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	resp := doPost(t, "/api/orders", map[string]any{"userId": "it-empty"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCheckout_WithPromo(t *testing.T) {
	const userID = "it-promo"
	fillCart(t, userID)

	o := placeOrder(t, userID, "WELCOME10")
	if o.PromoCode != "WELCOME10" {
		t.Errorf("promoCode = %q", o.PromoCode)
	}
	if o.Discounts != 12.05 {
		t.Errorf("discounts = %v, want 12.05", o.Discounts)
	}
	if o.Total != 108.45 {
		t.Errorf("total = %v, want 108.45", o.Total)
	}
}

func TestCheckout_InvalidPromo(t *testing.T) {
	const userID = "it-bad-promo"
	fillCart(t, userID)

	resp := doPost(t, "/api/orders", map[string]any{
		"userId":    userID,
		"promoCode": "NOPE",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestListOrdersByUser(t *testing.T) {
	const userID = "it-history"

	fillCart(t, userID)
	first := placeOrder(t, userID, "")

	// Keep the created_at timestamps apart so the ordering is unambiguous.
	time.Sleep(50 * time.Millisecond)

	fillCart(t, userID)
	second := placeOrder(t, userID, "")

	resp := doGet(t, "/api/orders?userId="+userID)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	orders := decodeJSON[[]orderResponse](t, resp)
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	if orders[0].ID != second.ID || orders[1].ID != first.ID {
		t.Errorf("orders not newest first: got %s, %s", orders[0].ID, orders[1].ID)
	}
	if !orders[0].CreatedAt.After(orders[1].CreatedAt) {
		t.Errorf("createdAt not descending: %v before %v", orders[0].CreatedAt, orders[1].CreatedAt)
	}
}

func TestCancelOrder(t *testing.T) {
	const userID = "it-cancel"
	fillCart(t, userID)
	o := placeOrder(t, userID, "")

	resp := doPost(t, "/api/orders/"+o.ID+"/cancel", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	cancelled := decodeJSON[orderResponse](t, resp)
	if cancelled.Status != "cancelled" {
		t.Errorf("status = %q, want cancelled", cancelled.Status)
	}
}

func TestAdminEndpoints(t *testing.T) {
	const userID = "it-admin"
	fillCart(t, userID)
	o := placeOrder(t, userID, "")

	// Unauthenticated access is rejected.
	resp := doGet(t, "/api/admin/orders")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Status update with the seeded admin key.
	resp = doRequest(t, http.MethodPatch, "/api/admin/orders/"+o.ID+"/status",
		map[string]string{"status": "processing"},
		map[string]string{"api_key": adminAPIKey})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin status update: expected 200, got %d", resp.StatusCode)
	}
	updated := decodeJSON[orderResponse](t, resp)
	resp.Body.Close()
	if updated.Status != "processing" {
		t.Errorf("status = %q, want processing", updated.Status)
	}

	// User listing.
	resp = doRequest(t, http.MethodGet, "/api/admin/users", nil,
		map[string]string{"api_key": adminAPIKey})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin users: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}
