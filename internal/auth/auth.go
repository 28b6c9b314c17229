// Package auth issues and validates the RS256 session tokens and defines
// the role constants used for authorization.
package auth

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles recognised by the application. Every user without a user_roles row
// is a normal user.
const (
	RoleNormal = "normal"
	RoleAdmin  = "admin"
)

type ctxKey int

// ClaimsKey is the request-context key under which the authentication
// middleware stores the validated claims.
const ClaimsKey ctxKey = 1

// Claims carries the registered JWT claims plus the user's role so that
// authorization does not need a database round trip per request.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Keys holds the RSA keypair used to sign and verify tokens.
type Keys struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
}

// NewKeys parses the PEM-encoded private and public keys.
func NewKeys(privatePEM []byte, publicPEM []byte) (*Keys, error) {
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}
	return &Keys{privateKey: privateKey, publicKey: publicKey}, nil
}

// NewKeysFromKeypair builds Keys directly from an RSA private key.
// Used by tests that generate throwaway keypairs.
func NewKeysFromKeypair(privateKey *rsa.PrivateKey) *Keys {
	return &Keys{privateKey: privateKey, publicKey: &privateKey.PublicKey}
}

// GenerateToken signs a token for the given user id and role.
func (k *Keys) GenerateToken(userID string, role string, validFor time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "bluepink-backend",
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validFor)),
		},
		Role: role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(k.privateKey)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies the signature and expiry and returns the claims.
func (k *Keys) ValidateToken(tokenStr string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return k.publicKey, nil
	})
	if err != nil {
		return Claims{}, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return Claims{}, fmt.Errorf("invalid token")
	}
	return claims, nil
}
