package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"nutrilens/internal/http/middleware"
	"nutrilens/internal/model"
	"nutrilens/internal/service"
)

// CookieOptions controls the session cookie.
type CookieOptions struct {
	Secure bool
}

type userResponse struct {
	Message string           `json:"message,omitempty"`
	User    model.PublicUser `json:"user"`
}

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleBody struct {
	Credential string `json:"credential"`
}

func setSessionCookie(c *fiber.Ctx, opts CookieOptions, sess *service.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.Expires,
		HTTPOnly: true,
		Secure:   opts.Secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

var errInvalidBody = errors.New("invalid JSON body")

// parseJSON decodes a JSON body into out. An empty body leaves out untouched.
func parseJSON(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return errInvalidBody
	}
	return nil
}

// Register godoc
// @Summary Create an account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.RegisterInput true "Account"
// @Success 201 {object} userResponse
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /api/auth/register [post]
func Register(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.RegisterInput
		if err := parseJSON(c, &in); err != nil {
			return writeServiceError(c, err)
		}
		u, err := svc.Register(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(userResponse{Message: "Registered successfully", User: u.Public()})
	}
}

// Login godoc
// @Summary Sign in with email and password
// @Description Sets the http-only "token" cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body loginBody true "Credentials"
// @Success 200 {object} userResponse
// @Failure 400 {object} errorPayload
// @Failure 401 {object} errorPayload
// @Router /api/auth/login [post]
func Login(svc service.AuthService, opts CookieOptions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body loginBody
		if err := parseJSON(c, &body); err != nil {
			return writeServiceError(c, err)
		}
		sess, err := svc.Login(c.UserContext(), body.Email, body.Password)
		if err != nil {
			return writeServiceError(c, err)
		}
		setSessionCookie(c, opts, sess)
		return c.JSON(userResponse{Message: "Login successful", User: sess.User.Public()})
	}
}

// GoogleLogin godoc
// @Summary Sign in with a Google ID token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body googleBody true "Google credential"
// @Success 200 {object} userResponse
// @Failure 400 {object} errorPayload
// @Failure 401 {object} errorPayload
// @Router /api/auth/google [post]
func GoogleLogin(svc service.AuthService, opts CookieOptions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body googleBody
		if err := parseJSON(c, &body); err != nil {
			return writeServiceError(c, err)
		}
		sess, err := svc.GoogleLogin(c.UserContext(), body.Credential)
		if err != nil {
			return writeServiceError(c, err)
		}
		setSessionCookie(c, opts, sess)
		return c.JSON(userResponse{Message: "Google authentication successful", User: sess.User.Public()})
	}
}

// Logout godoc
// @Summary Clear the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/auth/logout [post]
func Logout(opts CookieOptions) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Cookie(&fiber.Cookie{
			Name:     middleware.SessionCookie,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			HTTPOnly: true,
			Secure:   opts.Secure,
			SameSite: fiber.CookieSameSiteStrictMode,
		})
		return c.JSON(fiber.Map{"message": "Logout successful"})
	}
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} userResponse
// @Failure 401 {object} errorPayload
// @Router /api/auth/me [get]
func Me() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := middleware.CurrentUser(c)
		if u == nil {
			return writeServiceError(c, service.ErrUnauthorized)
		}
		return c.JSON(userResponse{User: u.Public()})
	}
}
