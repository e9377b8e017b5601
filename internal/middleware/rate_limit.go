package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimit creates a per-caller rate limiter keyed on the authenticated
// user when known, falling back to the client IP.
func RateLimit(identifier string, max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Second
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			caller := CurrentIdentity(c)
			if caller.Authenticated {
				return fmt.Sprintf("%s:%d", identifier, caller.UserID)
			}
			return fmt.Sprintf("%s:%s", identifier, c.IP())
		},
	})
}
