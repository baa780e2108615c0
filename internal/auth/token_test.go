package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/signalpost/signalpost/internal/identity"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Minute)
	user := identity.User{ID: "3f2e7a10-54dc-4ab3-bb9e-3f0ab1c90a11", Phone: "+15551234567"}

	token, expiresIn, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if expiresIn != 60 {
		t.Fatalf("expected 60s lifetime, got %d", expiresIn)
	}

	subject, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if subject != user.ID {
		t.Fatalf("expected subject %s, got %s", user.ID, subject)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", time.Minute)
	verifier := NewTokenService("secret-b", time.Minute)

	token, _, err := issuer.Issue(identity.User{ID: "3f2e7a10-54dc-4ab3-bb9e-3f0ab1c90a11"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenExpired(t *testing.T) {
	svc := NewTokenService("test-secret", -time.Minute)

	token, _, err := svc.Issue(identity.User{ID: "3f2e7a10-54dc-4ab3-bb9e-3f0ab1c90a11"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestTokenGarbage(t *testing.T) {
	svc := NewTokenService("test-secret", time.Minute)
	if _, err := svc.Parse("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
