package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/paydash/paydash/internal/identity"
	"github.com/paydash/paydash/internal/logging"
)

func newTestIssuer(t *testing.T) (*Service, *TokenManager) {
	t.Helper()
	ids := identity.NewService(identity.NewMemoryRepository(), logging.Discard())
	if _, err := ids.Register(context.Background(), identity.RegisterInput{
		Username: "admin",
		Email:    "admin@example.com",
		Password: "admin123",
		Roles:    []string{identity.RoleAdmin},
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	tokens := NewTokenManager("test-secret", "paydash-test", time.Hour)
	return NewService(ids, tokens), tokens
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, tokens := newTestIssuer(t)

	session, err := svc.Login(context.Background(), "admin", "admin123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.TokenType != "Bearer" || session.Subject != "admin" {
		t.Fatalf("unexpected session: %+v", session)
	}
	if session.ExpiresIn <= 0 {
		t.Fatalf("expires_in not positive: %d", session.ExpiresIn)
	}

	claims, err := tokens.Verify(session.AccessToken)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if claims.Subject != "admin" || len(claims.Roles) != 1 || claims.Roles[0] != identity.RoleAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc, _ := newTestIssuer(t)
	ctx := context.Background()

	_, wrongPass := svc.Login(ctx, "admin", "wrong")
	_, noUser := svc.Login(ctx, "nouser", "x")

	if !errors.Is(wrongPass, identity.ErrInvalidCredentials) || !errors.Is(noUser, identity.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v and %v", wrongPass, noUser)
	}
	if wrongPass.Error() != noUser.Error() {
		t.Fatalf("error shapes differ: %q vs %q", wrongPass, noUser)
	}
}
