package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/paydash/paydash/internal/identity"
	"github.com/paydash/paydash/internal/middleware"
)

// RegisterUserRoutes wires admin-only user management endpoints.
func RegisterUserRoutes(r fiber.Router, h *identity.Handler) {
	adminOnly := middleware.RequireRoles(identity.RoleAdmin)

	group := r.Group("/users")
	group.Post("", adminOnly, h.Create)
	group.Get("", adminOnly, h.List)
}
