package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"
)

func testKeys(t *testing.T) *Keys {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating keypair: %v", err)
	}
	return NewKeysFromKeypair(privateKey)
}

func TestTokenRoundTrip(t *testing.T) {
	keys := testKeys(t)

	token, err := keys.GenerateToken("u-1", RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}

	claims, err := keys.ValidateToken(token)
	if err != nil {
		t.Fatalf("validating token: %v", err)
	}
	if claims.Subject != "u-1" {
		t.Errorf("got subject %q, want %q", claims.Subject, "u-1")
	}
	if claims.Role != RoleAdmin {
		t.Errorf("got role %q, want %q", claims.Role, RoleAdmin)
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	keys := testKeys(t)

	token, err := keys.GenerateToken("u-1", RoleNormal, -time.Minute)
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}

	if _, err := keys.ValidateToken(token); err == nil {
		t.Fatal("expired token validated")
	}
}

func TestValidateTokenRejectsForeignKey(t *testing.T) {
	signer := testKeys(t)
	verifier := testKeys(t)

	token, err := signer.GenerateToken("u-1", RoleNormal, time.Hour)
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}

	if _, err := verifier.ValidateToken(token); err == nil {
		t.Fatal("token signed by a different key validated")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	keys := testKeys(t)

	if _, err := keys.ValidateToken("not.a.token"); err == nil {
		t.Fatal("garbage token validated")
	}
}
