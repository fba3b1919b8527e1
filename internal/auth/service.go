package auth

import (
	"context"
	"time"

	"github.com/paydash/paydash/internal/identity"
)

// Service verifies credentials against the identity store and mints session
// tokens. No session state is persisted; the token is the session.
type Service struct {
	ids    *identity.Service
	tokens *TokenManager
}

// NewService constructs the session issuer.
func NewService(ids *identity.Service, tokens *TokenManager) *Service {
	return &Service{ids: ids, tokens: tokens}
}

// Session is the result of a successful login.
type Session struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int64    `json:"expires_in"`
	Subject     string   `json:"subject"`
	Roles       []string `json:"roles"`
}

// Login validates the username/password pair and issues a signed token.
// Credential failures surface identity.ErrInvalidCredentials regardless of
// whether the user exists.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	user, err := s.ids.Authenticate(ctx, username, password)
	if err != nil {
		return Session{}, err
	}

	token, exp, err := s.tokens.Issue(user)
	if err != nil {
		return Session{}, err
	}

	roles := user.Roles
	if roles == nil {
		roles = []string{}
	}

	return Session{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(exp).Seconds()),
		Subject:     user.Username,
		Roles:       roles,
	}, nil
}
