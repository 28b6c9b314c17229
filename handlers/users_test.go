package handlers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"bluepink-backend/internal/auth"
	"bluepink-backend/internal/users"
)

func TestSignupValidation(t *testing.T) {
	env := newTestEnv(t)

	called := false
	env.userStore.insertUser = func(nu users.NewUser) (users.User, error) {
		called = true
		return users.User{}, nil
	}

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing email", map[string]any{"password": "longenough"}},
		{"malformed email", map[string]any{"email": "nope", "password": "longenough"}},
		{"short password", map[string]any{"email": "jane@example.com", "password": "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/users/signup", "", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("got status %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
	if called {
		t.Error("store was called for an invalid signup payload")
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	env.userStore.insertUser = func(nu users.NewUser) (users.User, error) {
		return users.User{}, users.ErrEmailTaken
	}

	w := env.do(t, http.MethodPost, "/users/signup", "", map[string]any{
		"email":    "jane@example.com",
		"password": "longenough",
	})

	if w.Code != http.StatusConflict {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	env := newTestEnv(t)

	env.userStore.authenticate = func(email string, password string) (users.User, error) {
		return users.User{}, users.ErrInvalidCredentials
	}

	w := env.do(t, http.MethodPost, "/users/login", "", map[string]any{
		"email":    "jane@example.com",
		"password": "wrongpass",
	})

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestLoginDefaultsRoleWhenLookupFails(t *testing.T) {
	env := newTestEnv(t)

	env.userStore.authenticate = func(email string, password string) (users.User, error) {
		return users.User{ID: "u-1", Email: email, DisplayName: "jane"}, nil
	}
	env.userStore.fetchRole = func(userID string) (string, error) {
		return "", errors.New("connection refused")
	}

	w := env.do(t, http.MethodPost, "/users/login", "", map[string]any{
		"email":    "jane@example.com",
		"password": "longenough",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	body := decodeBody(t, w)
	user, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatalf("response has no user object: %v", body)
	}
	if user["role"] != auth.RoleNormal {
		t.Errorf("got role %v, want %q", user["role"], auth.RoleNormal)
	}

	// The token must carry the same downgraded role.
	claims, err := env.keys.ValidateToken(body["token"].(string))
	if err != nil {
		t.Fatalf("validating issued token: %v", err)
	}
	if claims.Role != auth.RoleNormal {
		t.Errorf("token role %q, want %q", claims.Role, auth.RoleNormal)
	}
}

func TestLoginCarriesAdminRole(t *testing.T) {
	env := newTestEnv(t)

	env.userStore.authenticate = func(email string, password string) (users.User, error) {
		return users.User{ID: "u-1", Email: email}, nil
	}
	env.userStore.fetchRole = func(userID string) (string, error) {
		return auth.RoleAdmin, nil
	}

	w := env.do(t, http.MethodPost, "/users/login", "", map[string]any{
		"email":    "admin@example.com",
		"password": "longenough",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}
	body := decodeBody(t, w)
	claims, err := env.keys.ValidateToken(body["token"].(string))
	if err != nil {
		t.Fatalf("validating issued token: %v", err)
	}
	if claims.Role != auth.RoleAdmin {
		t.Errorf("token role %q, want %q", claims.Role, auth.RoleAdmin)
	}
}

func TestRoleDefaultsToNormalWhenMissing(t *testing.T) {
	env := newTestEnv(t)

	// The default stub FetchRole reports no row.
	token := env.tokenFor(t, "u-1", auth.RoleNormal)
	w := env.do(t, http.MethodGet, "/users/role", token, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}
	body := decodeBody(t, w)
	if body["role"] != auth.RoleNormal {
		t.Errorf("got role %v, want %q", body["role"], auth.RoleNormal)
	}
}

func TestGetProfileMissingIsNull(t *testing.T) {
	env := newTestEnv(t)

	token := env.tokenFor(t, "u-1", auth.RoleNormal)
	w := env.do(t, http.MethodGet, "/users/profile", token, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}
	body := decodeBody(t, w)
	if profile, present := body["profile"]; !present || profile != nil {
		t.Errorf("got profile %v, want explicit null", body["profile"])
	}
}

func TestUpsertProfileForcesCallerID(t *testing.T) {
	env := newTestEnv(t)

	var gotUserID string
	env.userStore.upsert = func(p users.Profile) (users.Profile, error) {
		gotUserID = p.UserID
		return p, nil
	}

	token := env.tokenFor(t, "u-1", auth.RoleNormal)
	w := env.do(t, http.MethodPost, "/users/profile", token, map[string]any{
		"user_id":      "someone-else",
		"display_name": "Jane",
		"phone":        "0712345678",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}
	if gotUserID != "u-1" {
		t.Errorf("profile saved for %q, want the caller %q", gotUserID, "u-1")
	}
}

func TestMeRejectsExpiredToken(t *testing.T) {
	env := newTestEnv(t)

	token, err := env.keys.GenerateToken("u-1", auth.RoleNormal, -time.Minute)
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}

	w := env.do(t, http.MethodGet, "/users/me", token, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
