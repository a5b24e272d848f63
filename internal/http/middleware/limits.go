package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimit limits each client IP to max requests per window. Counters are
// keyed by name and IP, so limiters sharing a store count independently.
// store may be nil for per-process counters.
func RateLimit(name string, max int, window time.Duration, store fiber.Storage, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		Storage:    store,
		KeyGenerator: func(c *fiber.Ctx) string {
			return name + ":" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return fiber.NewError(fiber.StatusTooManyRequests, message)
		},
	})
}

// JSONBodyLimit rejects JSON bodies larger than limit bytes with 413.
// Multipart uploads are bounded separately by the upload size check.
func JSONBodyLimit(limit int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ct := strings.ToLower(c.Get(fiber.HeaderContentType))
		if strings.HasPrefix(ct, fiber.MIMEApplicationJSON) && len(c.Body()) > limit {
			return fiber.NewError(fiber.StatusRequestEntityTooLarge, "request body too large")
		}
		return c.Next()
	}
}

// Timeout gives each request a context deadline. Handlers that fail because
// the deadline passed are reported as 408.
func Timeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()
		c.SetUserContext(ctx)

		err := c.Next()
		if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fiber.NewError(fiber.StatusRequestTimeout, "Request timeout")
		}
		return err
	}
}
