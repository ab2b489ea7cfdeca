package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type jwksFixture struct {
	key    *rsa.PrivateKey
	kid    string
	server *httptest.Server
	hits   int
}

func newJWKSFixture(t *testing.T) *jwksFixture {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	f := &jwksFixture{key: key, kid: "test-key-1"}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/.well-known/jwks.json" {
			http.NotFound(w, r)
			return
		}
		f.hits++
		json.NewEncoder(w).Encode(map[string]any{
			"keys": []map[string]string{{
				"kid": f.kid,
				"kty": "RSA",
				"alg": "RS256",
				"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
			}},
		})
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *jwksFixture) verifier(audience string) *Verifier {
	return &Verifier{
		issuer:   f.server.URL,
		audience: audience,
		client:   f.server.Client(),
		keys:     map[string]*rsa.PublicKey{},
	}
}

func (f *jwksFixture) sign(t *testing.T, kid string, claims jwt.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(f.key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func baseClaims(issuer string) Claims {
	return Claims{
		Email: "reviewer@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{"client-123"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestVerify_ValidToken(t *testing.T) {
	f := newJWKSFixture(t)
	v := f.verifier("client-123")

	token := f.sign(t, f.kid, baseClaims(f.server.URL))

	claims, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Email != "reviewer@example.com" {
		t.Errorf("expected email claim, got %q", claims.Email)
	}
	if f.hits != 1 {
		t.Errorf("expected one jwks fetch, got %d", f.hits)
	}

	// A second verification reuses the cached key.
	if _, err := v.Verify(context.Background(), token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.hits != 1 {
		t.Errorf("expected the cached key to be reused, got %d fetches", f.hits)
	}
}

func TestVerify_ExpiredToken(t *testing.T) {
	f := newJWKSFixture(t)
	v := f.verifier("client-123")

	claims := baseClaims(f.server.URL)
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-2 * time.Hour))

	if _, err := v.Verify(context.Background(), f.sign(t, f.kid, claims)); err == nil {
		t.Error("expected an expired token to be rejected")
	}
}

func TestVerify_WrongAudience(t *testing.T) {
	f := newJWKSFixture(t)
	v := f.verifier("someone-else")

	if _, err := v.Verify(context.Background(), f.sign(t, f.kid, baseClaims(f.server.URL))); err == nil {
		t.Error("expected a token for another client to be rejected")
	}
}

func TestVerify_WrongIssuer(t *testing.T) {
	f := newJWKSFixture(t)
	v := f.verifier("client-123")

	claims := baseClaims("https://evil.example.com")
	if _, err := v.Verify(context.Background(), f.sign(t, f.kid, claims)); err == nil {
		t.Error("expected a token from another issuer to be rejected")
	}
}

func TestVerify_UnknownKid(t *testing.T) {
	f := newJWKSFixture(t)
	v := f.verifier("client-123")

	if _, err := v.Verify(context.Background(), f.sign(t, "rotated-away", baseClaims(f.server.URL))); err == nil {
		t.Error("expected a token signed with an unknown key to be rejected")
	}
}

func TestVerify_Garbage(t *testing.T) {
	f := newJWKSFixture(t)
	v := f.verifier("client-123")

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := v.Verify(context.Background(), token); err == nil {
			t.Errorf("expected %q to be rejected", token)
		}
	}
}
