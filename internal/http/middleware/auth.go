package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"nutrilens/internal/model"
	"nutrilens/internal/service"
)

const (
	// SessionCookie carries the session token.
	SessionCookie = "token"
	// UserLocalKey holds the authenticated *model.User.
	UserLocalKey = "user"
)

// ErrUnauthorized is returned when no valid session is present.
var ErrUnauthorized = fiber.NewError(fiber.StatusUnauthorized, "Not authorized")

// Authenticator resolves a session token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// SessionToken reads the token cookie, falling back to a Bearer header.
func SessionToken(c *fiber.Ctx) string {
	if t := c.Cookies(SessionCookie); t != "" {
		return t
	}
	if h := c.Get(fiber.HeaderAuthorization); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// RequireAuth rejects requests without a valid session and stores the user
// under UserLocalKey.
func RequireAuth(a Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, err := a.Authenticate(c.UserContext(), SessionToken(c))
		if errors.Is(err, service.ErrUnauthorized) {
			return ErrUnauthorized
		}
		if err != nil {
			return err
		}
		c.Locals(UserLocalKey, u)
		return c.Next()
	}
}

// CurrentUser returns the user stored by RequireAuth, or nil.
func CurrentUser(c *fiber.Ctx) *model.User {
	u, _ := c.Locals(UserLocalKey).(*model.User)
	return u
}
