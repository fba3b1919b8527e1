package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/paydash/paydash/internal/identity"
	"github.com/paydash/paydash/internal/middleware"
	"github.com/paydash/paydash/internal/payments"
)

// RegisterPaymentRoutes wires payment endpoints behind role checks. Stats
// must be registered before the :id route so it is not captured as an id.
func RegisterPaymentRoutes(r fiber.Router, h *payments.Handler, idempotency fiber.Handler) {
	dashboard := middleware.RequireRoles(identity.RoleAdmin, identity.RoleViewer)
	adminOnly := middleware.RequireRoles(identity.RoleAdmin)

	group := r.Group("/payments")
	if idempotency != nil {
		group.Post("", dashboard, idempotency, h.Create)
	} else {
		group.Post("", dashboard, h.Create)
	}
	group.Get("", dashboard, h.List)
	group.Get("/stats", dashboard, h.Stats)
	group.Post("/seed", adminOnly, h.Seed)
	group.Get("/:id", dashboard, h.Get)
}
