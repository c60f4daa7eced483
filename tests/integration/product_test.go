//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestListProducts(t *testing.T) {
	resp := doGet(t, "/api/products")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) != 5 {
		t.Fatalf("expected 5 products, got %d", len(products))
	}

	byID := make(map[string]productResponse, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	psn, ok := byID["psn-card"]
	if !ok {
		t.Fatal("psn-card not in catalog")
	}
	if psn.Price != 75.00 {
		t.Errorf("psn-card price = %v, want 75.00", psn.Price)
	}
	if len(psn.Options) != 3 {
		t.Errorf("psn-card options = %d, want 3", len(psn.Options))
	}
}

func TestGetProduct(t *testing.T) {
	resp := doGet(t, "/api/products/xbox-gamepass")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	p := decodeJSON[productResponse](t, resp)
	if p.Name != "Xbox Game Pass Ultimate" {
		t.Errorf("name = %q", p.Name)
	}
	if p.Price != 45.50 {
		t.Errorf("price = %v, want 45.50", p.Price)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	resp := doGet(t, "/api/products/no-such-product")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	body := decodeJSON[errorResponse](t, resp)
	if body.Code != http.StatusNotFound {
		t.Errorf("error code = %d", body.Code)
	}
}
