package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor applied to every stored password hash.
const bcryptCost = 10

// ErrInvalidCredentials is returned for both an unknown username and a wrong
// password so that login responses cannot be used to enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service manages account lifecycle and credential verification.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new identity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// RegisterInput captures data for a new account. Roles default to empty
// unless explicitly assigned.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Roles    []string
}

// Register creates an account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, input RegisterInput) (User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return User{}, errors.New("username is required")
	}
	if len(input.Password) < 6 {
		return User{}, errors.New("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	roles := input.Roles
	if roles == nil {
		roles = []string{}
	}

	user := User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: string(hash),
		Roles:        roles,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Authenticate verifies a username/password pair. Unknown users and wrong
// passwords produce the identical error.
func (s *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// List returns every registered user.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// EnsureDefaultAdmin creates the bootstrap admin account when it does not
// exist yet. Safe to run on every startup.
func (s *Service) EnsureDefaultAdmin(ctx context.Context, username, email, password string) error {
	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	if _, err := s.Register(ctx, RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
		Roles:    []string{RoleAdmin},
	}); err != nil {
		if errors.Is(err, ErrExists) {
			return nil
		}
		return err
	}

	s.logger.Info("default admin user created", "username", username)
	return nil
}
