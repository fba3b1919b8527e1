package identity

import (
	"slices"
	"time"
)

// Role names recognized by the authorization guard.
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// User represents a registered dashboard account. PasswordHash never leaves
// this package's boundary in API responses.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasRole reports whether the user carries the given role.
func (u User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}
