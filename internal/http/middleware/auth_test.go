package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"nutrilens/internal/model"
	"nutrilens/internal/service"
)

type fakeAuthenticator map[string]*model.User

func (f fakeAuthenticator) Authenticate(_ context.Context, token string) (*model.User, error) {
	if token == "db-down" {
		return nil, errors.New("db down")
	}
	if u, ok := f[token]; ok {
		return u, nil
	}
	return nil, service.ErrUnauthorized
}

func TestRequireAuth(t *testing.T) {
	app := fiber.New()
	app.Use(RequireAuth(fakeAuthenticator{"good": {ID: "u1"}}))
	app.Get("/me", func(c *fiber.Ctx) error {
		return c.SendString(CurrentUser(c).ID)
	})

	tests := []struct {
		name       string
		cookie     string
		bearer     string
		wantStatus int
	}{
		{name: "cookie", cookie: "good", wantStatus: fiber.StatusOK},
		{name: "bearer", bearer: "good", wantStatus: fiber.StatusOK},
		{name: "missing", wantStatus: fiber.StatusUnauthorized},
		{name: "invalid", cookie: "forged", wantStatus: fiber.StatusUnauthorized},
		{name: "store failure", cookie: "db-down", wantStatus: fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.cookie != "" {
				req.Header.Set("Cookie", SessionCookie+"="+tt.cookie)
			}
			if tt.bearer != "" {
				req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tt.bearer)
			}
			resp, _ := app.Test(req)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
