package tokens

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const secret = "test-secret-32-bytes-should-be-long-enough"

func TestGenerateAndVerify(t *testing.T) {
	c := NewCSRF(secret, time.Hour)
	nonce, err := NewNonce()
	if err != nil {
		t.Fatalf("NewNonce error: %v", err)
	}
	tok, err := c.Generate(nonce)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if err := c.Verify(tok, nonce); err != nil {
		t.Fatalf("token should verify: %v", err)
	}
}

func TestNoncesAreUnique(t *testing.T) {
	a, _ := NewNonce()
	b, _ := NewNonce()
	if a == b || len(a) < 40 {
		t.Fatalf("weak nonces: %q %q", a, b)
	}
}

func TestVerify_OtherNonceFails(t *testing.T) {
	c := NewCSRF(secret, time.Hour)
	tok, _ := c.Generate("nonce-a")
	if err := c.Verify(tok, "nonce-b"); err != ErrNonceMismatch {
		t.Fatalf("expected nonce mismatch, got %v", err)
	}
	if err := c.Verify(tok, ""); err != ErrNonceMismatch {
		t.Fatalf("expected nonce mismatch for empty cookie, got %v", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	c := NewCSRF(secret, time.Minute)
	c.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, _ := c.Generate("n")
	err := NewCSRF(secret, time.Minute).Verify(tok, "n")
	if err == nil || !strings.Contains(err.Error(), "expired") {
		t.Fatalf("expected expiry error, got %v", err)
	}
}

func TestVerify_WrongSecretFails(t *testing.T) {
	tok, _ := NewCSRF(secret, time.Hour).Generate("n")
	if err := NewCSRF("different-secret-xxxxxxxxxxxxxxxx", time.Hour).Verify(tok, "n"); err == nil {
		t.Fatalf("expected verification to fail with wrong secret")
	}
}

func TestVerify_Malformed(t *testing.T) {
	if err := NewCSRF(secret, time.Hour).Verify("not.a.jwt", "n"); err == nil {
		t.Fatalf("expected malformed token to fail")
	}
}

// Rejected when alg=none (unsigned token)
func TestVerify_AlgNoneRejected(t *testing.T) {
	enc := base64.RawURLEncoding.EncodeToString
	tok := enc([]byte(`{"alg":"none","typ":"JWT"}`)) + "." + enc([]byte(`{"nce":"n","exp":9999999999}`)) + "."
	if err := NewCSRF(secret, time.Hour).Verify(tok, "n"); err == nil {
		t.Fatalf("expected alg=none token to be rejected")
	}
}

func TestVerify_HS512Rejected(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"nce": "n"}).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	if err := NewCSRF(secret, time.Hour).Verify(tok, "n"); err == nil {
		t.Fatalf("expected only HS256 to be accepted")
	}
}

// Tampering with payload must fail signature verification
func TestVerify_TamperedPayload(t *testing.T) {
	tok, _ := NewCSRF(secret, time.Hour).Generate("victim")
	parts := strings.Split(tok, ".")
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatal(err)
	}
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(strings.Replace(string(payload), "victim", "attack", 1)))
	if err := NewCSRF(secret, time.Hour).Verify(strings.Join(parts, "."), "attack"); err == nil {
		t.Fatalf("expected signature verification to fail for tampered token")
	}
}
