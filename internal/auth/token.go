package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/paydash/paydash/internal/identity"
)

// ErrInvalidToken covers missing, malformed, unverifiable, and expired tokens.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the identity bundle a verified token asserts.
type Claims struct {
	Subject string
	Roles   []string
}

// TokenManager mints and verifies HS256-signed session tokens. Verification
// is a pure computation against the signing secret and never touches a
// store, so role changes only take effect when a fresh token is issued.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenManager creates a manager with the provided secret, issuer, and
// token lifetime.
func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

// Issue signs a token embedding the user's identity and roles.
func (t *TokenManager) Issue(user identity.User) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(t.ttl)
	claims := jwt.MapClaims{
		"iss":   t.issuer,
		"sub":   user.Username,
		"roles": user.Roles,
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"exp":   exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify checks the signature and validity window and returns the embedded
// claims.
func (t *TokenManager) Verify(tokenStr string) (Claims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	sub, _ := mapClaims["sub"].(string)
	if sub == "" {
		return Claims{}, ErrInvalidToken
	}

	var roles []string
	if raw, ok := mapClaims["roles"].([]any); ok {
		for _, r := range raw {
			if role, ok := r.(string); ok {
				roles = append(roles, role)
			}
		}
	}

	return Claims{Subject: sub, Roles: roles}, nil
}
