package handlers

import (
	"net/http"
	"testing"

	"bluepink-backend/internal/auth"
	"bluepink-backend/internal/products"
)

func TestListProductsIsPublic(t *testing.T) {
	env := newTestEnv(t)

	env.productStore.list = func() ([]products.Product, error) {
		return []products.Product{{ID: "p-1", Name: "Candle", Price: 12.5}}, nil
	}

	w := env.do(t, http.MethodGet, "/products/list", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}
}

func TestCreateProductRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]any{"name": "Candle", "price": 12.5}

	w := env.do(t, http.MethodPost, "/products/create", "", body)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated: got status %d, want %d", w.Code, http.StatusUnauthorized)
	}

	token := env.tokenFor(t, "u-1", auth.RoleNormal)
	w = env.do(t, http.MethodPost, "/products/create", token, body)
	if w.Code != http.StatusForbidden {
		t.Fatalf("normal role: got status %d, want %d", w.Code, http.StatusForbidden)
	}

	adminToken := env.tokenFor(t, "admin-1", auth.RoleAdmin)
	w = env.do(t, http.MethodPost, "/products/create", adminToken, body)
	if w.Code != http.StatusOK {
		t.Fatalf("admin role: got status %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
}

func TestCreateProductValidation(t *testing.T) {
	env := newTestEnv(t)

	called := false
	env.productStore.insert = func(np products.NewProduct) (products.Product, error) {
		called = true
		return products.Product{}, nil
	}

	token := env.tokenFor(t, "admin-1", auth.RoleAdmin)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"price": 10.0}},
		{"zero price", map[string]any{"name": "Candle", "price": 0}},
		{"negative stock", map[string]any{"name": "Candle", "price": 10.0, "stock": -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/products/create", token, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("got status %d, want %d: %s", w.Code, http.StatusBadRequest, w.Body.String())
			}
		})
	}
	if called {
		t.Error("store was called for an invalid product payload")
	}
}

func TestGetProductNotFound(t *testing.T) {
	env := newTestEnv(t)

	// The default stub reports no row for every id.
	w := env.do(t, http.MethodGet, "/products/view/missing", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestDeleteProductIsIdempotent(t *testing.T) {
	env := newTestEnv(t)

	env.productStore.delete_ = func(productID string) error {
		return nil
	}

	token := env.tokenFor(t, "admin-1", auth.RoleAdmin)
	for i := 0; i < 2; i++ {
		w := env.do(t, http.MethodDelete, "/products/delete/p-1", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("delete #%d: got status %d, want %d", i+1, w.Code, http.StatusOK)
		}
	}
}

func TestUpdateProductPreservesIdentity(t *testing.T) {
	env := newTestEnv(t)

	existing := products.Product{ID: "p-1", Name: "Candle", Price: 12.5}
	env.productStore.get = func(productID string) (products.Product, error) {
		return existing, nil
	}

	var gotProduct products.Product
	env.productStore.update = func(productID string, p products.Product) (products.Product, error) {
		gotProduct = p
		return p, nil
	}

	token := env.tokenFor(t, "admin-1", auth.RoleAdmin)
	w := env.do(t, http.MethodPut, "/products/update/p-1", token, map[string]any{
		"id":    "forged-id",
		"name":  "Scented Candle",
		"price": 15.0,
	})

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	if gotProduct.ID != "p-1" {
		t.Errorf("update wrote id %q, want %q", gotProduct.ID, "p-1")
	}
	if gotProduct.Name != "Scented Candle" {
		t.Errorf("update wrote name %q, want %q", gotProduct.Name, "Scented Candle")
	}
}
