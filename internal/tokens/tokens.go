// Package tokens issues and checks the signed anti-forgery tokens embedded in
// the board page.
package tokens

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNonceMismatch = errors.New("csrf token does not match cookie")

type csrfClaims struct {
	Nonce string `json:"nce"`
	jwt.RegisteredClaims
}

// CSRF signs HS256 tokens bound to a per-browser nonce (double submit: the
// nonce lives in a cookie, the token in the form).
type CSRF struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCSRF(secret string, ttl time.Duration) *CSRF {
	return &CSRF{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// NewNonce returns 32 random bytes, base64url encoded.
func NewNonce() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("csrf nonce: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Generate creates a signed token for nonce.
func (c *CSRF) Generate(nonce string) (string, error) {
	now := c.now()
	claims := csrfClaims{
		Nonce: nonce,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks signature, expiry and that the token was issued for nonce.
func (c *CSRF) Verify(token, nonce string) error {
	var claims csrfClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return fmt.Errorf("csrf token: %w", err)
	}
	if nonce == "" || claims.Nonce != nonce {
		return ErrNonceMismatch
	}
	return nil
}
