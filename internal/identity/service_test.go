package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/paydash/paydash/internal/logging"
)

func newTestService() *Service {
	return NewService(NewMemoryRepository(), logging.Discard())
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		Username: "viewer1",
		Email:    "viewer1@example.com",
		Password: "secret12",
		Roles:    []string{RoleViewer},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !user.HasRole(RoleViewer) {
		t.Fatalf("expected viewer role, got %v", user.Roles)
	}

	authed, err := svc.Authenticate(ctx, "viewer1", "secret12")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.ID != user.ID {
		t.Fatalf("authenticated wrong user: %s != %s", authed.ID, user.ID)
	}
}

func TestRegisterDefaultsToNoRoles(t *testing.T) {
	svc := newTestService()

	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "norole",
		Email:    "norole@example.com",
		Password: "secret12",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Roles == nil || len(user.Roles) != 0 {
		t.Fatalf("expected empty role set, got %v", user.Roles)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Username: "dup", Email: "a@example.com", Password: "secret12"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Username: "dup", Email: "b@example.com", Password: "secret12"}); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
}

// Unknown users and wrong passwords must be indistinguishable to callers.
func TestAuthenticateFailuresAreUniform(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Username: "admin", Email: "admin@example.com", Password: "admin123"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, wrongPass := svc.Authenticate(ctx, "admin", "wrong")
	_, noUser := svc.Authenticate(ctx, "nouser", "x")

	if !errors.Is(wrongPass, ErrInvalidCredentials) || !errors.Is(noUser, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v and %v", wrongPass, noUser)
	}
	if wrongPass.Error() != noUser.Error() {
		t.Fatalf("error shapes differ: %q vs %q", wrongPass, noUser)
	}
}

func TestEnsureDefaultAdminIsIdempotent(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if err := svc.EnsureDefaultAdmin(ctx, "admin", "admin@payment-dashboard.com", "admin123"); err != nil {
		t.Fatalf("first bootstrap: %v", err)
	}
	if err := svc.EnsureDefaultAdmin(ctx, "admin", "admin@payment-dashboard.com", "admin123"); err != nil {
		t.Fatalf("second bootstrap: %v", err)
	}

	users, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected a single admin user, got %d", len(users))
	}
	if !users[0].HasRole(RoleAdmin) {
		t.Fatalf("bootstrap admin missing admin role: %v", users[0].Roles)
	}
}
