package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// ErrCORS is returned for requests whose Origin is not allow-listed.
var ErrCORS = fiber.NewError(fiber.StatusForbidden, "CORS policy violation")

// CORS allows credentialed requests from the listed origins only.
// Requests without an Origin header (curl, same-origin GET) pass through.
func CORS(origins []string) fiber.Handler {
	allowed := make(map[string]bool, len(origins))
	var list []string
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" && !allowed[o] {
			allowed[o] = true
			list = append(list, o)
		}
	}

	var next fiber.Handler
	if len(allowed) > 0 {
		next = cors.New(cors.Config{
			AllowOrigins:     strings.Join(list, ","),
			AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
			AllowHeaders:     "Origin, Content-Type, Accept, Authorization, " + RequestIDHeader,
			ExposeHeaders:    RequestIDHeader + ", Content-Disposition",
			AllowCredentials: true,
		})
	}

	return func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)
		if origin == "" {
			return c.Next()
		}
		if !allowed[origin] {
			return ErrCORS
		}
		return next(c)
	}
}
