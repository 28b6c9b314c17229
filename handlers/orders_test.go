package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"bluepink-backend/internal/auth"
	"bluepink-backend/internal/orders"
)

func TestCheckoutRejectsUnknownPaymentMethod(t *testing.T) {
	env := newTestEnv(t)

	called := false
	env.orderStore.createFromCart = func(userID string, customer orders.Customer) (orders.Order, error) {
		called = true
		return orders.Order{}, nil
	}

	token := env.tokenFor(t, "u-1", auth.RoleNormal)
	w := env.do(t, http.MethodPost, "/orders/checkout", token, map[string]any{
		"customer_name":  "Jane",
		"customer_email": "jane@example.com",
		"payment_method": "paypal",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusBadRequest)
	}
	if called {
		t.Error("order store was called for an invalid payment method")
	}
}

func TestCheckoutRequiresNameAndEmail(t *testing.T) {
	env := newTestEnv(t)

	called := false
	env.orderStore.createFromCart = func(userID string, customer orders.Customer) (orders.Order, error) {
		called = true
		return orders.Order{}, nil
	}

	token := env.tokenFor(t, "u-1", auth.RoleNormal)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"customer_email": "jane@example.com", "payment_method": "mpesa"}},
		{"missing email", map[string]any{"customer_name": "Jane", "payment_method": "mpesa"}},
		{"malformed email", map[string]any{"customer_name": "Jane", "customer_email": "not-an-email", "payment_method": "mpesa"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/orders/checkout", token, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("got status %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
	if called {
		t.Error("order store was called for an invalid checkout payload")
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	env := newTestEnv(t)

	env.orderStore.createFromCart = func(userID string, customer orders.Customer) (orders.Order, error) {
		return orders.Order{}, orders.ErrEmptyCart
	}

	token := env.tokenFor(t, "u-1", auth.RoleNormal)
	w := env.do(t, http.MethodPost, "/orders/checkout", token, map[string]any{
		"customer_name":  "Jane",
		"customer_email": "jane@example.com",
		"payment_method": "card",
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusBadRequest)
	}
	if !strings.Contains(w.Body.String(), "cart is empty") {
		t.Errorf("body %q does not mention the empty cart", w.Body.String())
	}
}

func TestCheckoutSuccess(t *testing.T) {
	env := newTestEnv(t)

	env.orderStore.createFromCart = func(userID string, customer orders.Customer) (orders.Order, error) {
		return orders.Order{
			ID:            "o-1",
			UserID:        userID,
			TotalAmount:   99.5,
			Status:        orders.StatusPending,
			CustomerName:  customer.Name,
			CustomerEmail: customer.Email,
			PaymentMethod: customer.PaymentMethod,
			Items:         []orders.OrderItem{{ID: "p-1", Name: "Candle", Price: 99.5, Quantity: 1}},
			CreatedAt:     time.Now().UTC(),
		}, nil
	}

	token := env.tokenFor(t, "u-7", auth.RoleNormal)
	w := env.do(t, http.MethodPost, "/orders/checkout", token, map[string]any{
		"customer_name":  "Jane",
		"customer_email": "jane@example.com",
		"payment_method": "bank",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	body := decodeBody(t, w)
	order, ok := body["order"].(map[string]any)
	if !ok {
		t.Fatalf("response has no order object: %v", body)
	}
	if order["status"] != orders.StatusPending {
		t.Errorf("got status %v, want %q", order["status"], orders.StatusPending)
	}
	if order["user_id"] != "u-7" {
		t.Errorf("got user_id %v, want %q", order["user_id"], "u-7")
	}
}

func TestUpdateOrderStatusRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	token := env.tokenFor(t, "u-1", auth.RoleNormal)
	w := env.do(t, http.MethodPatch, "/orders/status/o-1", token, map[string]any{"status": "completed"})

	if w.Code != http.StatusForbidden {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusForbidden)
	}
}

func TestUpdateOrderStatusSameStatusIsNoop(t *testing.T) {
	env := newTestEnv(t)

	env.orderStore.updateStatus = func(orderID string, next string) (bool, error) {
		return false, nil
	}

	token := env.tokenFor(t, "admin-1", auth.RoleAdmin)
	w := env.do(t, http.MethodPatch, "/orders/status/o-1", token, map[string]any{"status": "pending"})

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "already has this status") {
		t.Errorf("body %q does not report the no-op", w.Body.String())
	}
}

func TestUpdateOrderStatusTerminalIsConflict(t *testing.T) {
	env := newTestEnv(t)

	env.orderStore.updateStatus = func(orderID string, next string) (bool, error) {
		return false, fmt.Errorf("%w: order is already completed", orders.ErrInvalidTransition)
	}

	token := env.tokenFor(t, "admin-1", auth.RoleAdmin)
	w := env.do(t, http.MethodPatch, "/orders/status/o-1", token, map[string]any{"status": "canceled"})

	if w.Code != http.StatusConflict {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestUpdateOrderStatusUnknownOrder(t *testing.T) {
	env := newTestEnv(t)

	env.orderStore.updateStatus = func(orderID string, next string) (bool, error) {
		return false, orders.ErrOrderNotFound
	}

	token := env.tokenFor(t, "admin-1", auth.RoleAdmin)
	w := env.do(t, http.MethodPatch, "/orders/status/missing", token, map[string]any{"status": "completed"})

	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	env := newTestEnv(t)

	called := false
	env.orderStore.updateStatus = func(orderID string, next string) (bool, error) {
		called = true
		return true, nil
	}

	token := env.tokenFor(t, "admin-1", auth.RoleAdmin)
	w := env.do(t, http.MethodPatch, "/orders/status/o-1", token, map[string]any{"status": "shipped"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusBadRequest)
	}
	if called {
		t.Error("store was called for an unknown status")
	}
}

func TestListMyOrdersScopedToCaller(t *testing.T) {
	env := newTestEnv(t)

	var gotUserID string
	env.orderStore.listByUser = func(userID string) ([]orders.Order, error) {
		gotUserID = userID
		return []orders.Order{{ID: "o-1", UserID: userID}}, nil
	}

	token := env.tokenFor(t, "u-33", auth.RoleNormal)
	w := env.do(t, http.MethodGet, "/orders", token, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}
	if gotUserID != "u-33" {
		t.Errorf("listed orders for %q, want %q", gotUserID, "u-33")
	}
}

func TestListAllOrdersRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	token := env.tokenFor(t, "u-1", auth.RoleNormal)
	w := env.do(t, http.MethodGet, "/orders/all", token, nil)

	if w.Code != http.StatusForbidden {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusForbidden)
	}
}
