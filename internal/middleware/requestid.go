package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequestIDKey is the header name and locals key carrying the request
// identifier. Handlers that echo the id must read it through this constant.
const RequestIDKey = "X-Request-ID"

// RequestID assigns each request a stable identifier, echoed in the response
// header and bound to locals for the request logger.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqID := c.Get(RequestIDKey)
		if reqID == "" {
			reqID = uuid.NewString()
			c.Set(RequestIDKey, reqID)
		}

		c.Locals(RequestIDKey, reqID)

		return c.Next()
	}
}
