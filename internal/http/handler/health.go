package handler

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"nutrilens/internal/database"
	"nutrilens/internal/storage"
)

// HealthCheck pings every dependency and reports 503 if any fails.
func HealthCheck(deps ...database.Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		for _, d := range deps {
			if err := d.PingContext(ctx); err != nil {
				return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200 while the process is serving.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// Banner answers GET /.
func Banner() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendString("NutriLens Backend is running")
	}
}

// ServeUpload streams a stored meal photo.
func ServeUpload(store storage.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := c.Params("name")
		if storage.ValidateKey(name) != nil {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
		}
		rc, info, err := store.Get(c.UserContext(), name)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
			}
			return writeServiceError(c, err)
		}
		if info.ContentType != "" {
			c.Set(fiber.HeaderContentType, info.ContentType)
		} else {
			c.Type(strings.TrimPrefix(path.Ext(name), "."))
		}
		c.Set(fiber.HeaderCacheControl, "private, max-age=86400")
		size := -1
		if info.Size > 0 {
			size = int(info.Size)
		}
		return c.SendStream(rc, size)
	}
}
