package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/authkit/identity-api/internal/core/domain"
)

func TestNewIssuer_Misconfiguration(t *testing.T) {
	if _, err := NewIssuer("", time.Hour); err != ErrMissingSecret {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
	if _, err := NewIssuer("secret", 0); err != ErrInvalidTTL {
		t.Fatalf("expected ErrInvalidTTL, got %v", err)
	}
}

func TestIssuer_Issue(t *testing.T) {
	issuer, err := NewIssuer("secret", time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}

	signed, err := issuer.Issue("user_1", "alice@example.com", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(signed, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != "user_1" {
		t.Fatalf("unexpected sub: %v", claims["sub"])
	}
	if claims["email"] != "alice@example.com" {
		t.Fatalf("unexpected email: %v", claims["email"])
	}
	if claims["role"] != string(domain.RoleAdmin) {
		t.Fatalf("unexpected role: %v", claims["role"])
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		t.Fatalf("token has no expiry: %v", err)
	}
	if until := time.Until(exp.Time); until <= 0 || until > time.Hour {
		t.Fatalf("expiry outside expected window: %v", until)
	}
}

func TestIssuer_FreshTokenPerIssuance(t *testing.T) {
	issuer, err := NewIssuer("secret", time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}

	first, err := issuer.Issue("user_1", "alice@example.com", domain.RoleUser)
	if err != nil {
		t.Fatalf("first issue: %v", err)
	}
	second, err := issuer.Issue("user_1", "alice@example.com", domain.RoleUser)
	if err != nil {
		t.Fatalf("second issue: %v", err)
	}
	if first == second {
		t.Fatalf("two issuances produced the same token value")
	}
}
