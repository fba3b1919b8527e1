package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/paydash/paydash/internal/auth"
)

// Locals keys under which the authentication middleware binds the verified
// caller identity.
const (
	SubjectKey = "subject"
	RolesKey   = "roles"
)

// Authenticate validates the bearer token and binds the resolved subject and
// roles to the request. It is a pure function of the token and the signing
// secret; no store is consulted.
func Authenticate(tokens *auth.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])

		claims, err := tokens.Verify(tokenStr)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, auth.ErrInvalidToken.Error())
		}

		c.Locals(SubjectKey, claims.Subject)
		c.Locals(RolesKey, claims.Roles)
		return c.Next()
	}
}

// RequireRoles passes when the bound roles intersect the required set. It
// must run after Authenticate; an unbound identity is treated as
// unauthenticated rather than forbidden.
func RequireRoles(required ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roles, ok := c.Locals(RolesKey).([]string)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		for _, have := range roles {
			for _, want := range required {
				if have == want {
					return c.Next()
				}
			}
		}
		return fiber.NewError(http.StatusForbidden, "insufficient role")
	}
}
