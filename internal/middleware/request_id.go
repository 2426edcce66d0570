package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderRequestID carries the request ID in both directions.
const HeaderRequestID = "X-Request-ID"

const localsRequestID = "request_id"

// maxRequestIDLen bounds IDs accepted from callers.
const maxRequestIDLen = 64

// RequestID is a Fiber middleware that tags every request with an ID. A
// caller-supplied X-Request-ID is kept when it looks sane, otherwise a new
// UUID is generated. The ID is echoed in the response header.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderRequestID)
		if !validRequestID(id) {
			id = uuid.NewString()
		}

		// Store the ID in Fiber context for subsequent handlers
		c.Locals(localsRequestID, id)
		c.Set(HeaderRequestID, id)

		return c.Next()
	}
}

// RequestIDFrom returns the ID assigned by RequestID, or "" when the
// middleware did not run.
func RequestIDFrom(c *fiber.Ctx) string {
	id, _ := c.Locals(localsRequestID).(string)
	return id
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, r := range id {
		if r < '!' || r > '~' {
			return false
		}
	}
	return true
}
