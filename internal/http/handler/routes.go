package handler

import (
	"github.com/gofiber/fiber/v2"

	"nutrilens/internal/database"
	"nutrilens/internal/http/middleware"
	"nutrilens/internal/service"
	"nutrilens/internal/storage"
)

// Deps are the services the HTTP layer is built on.
type Deps struct {
	Meals   service.MealService
	Auth    service.AuthService
	Chat    service.ChatService
	Uploads storage.Storage
	// Health lists dependencies pinged by GET /health.
	Health []database.Pinger
	Cookie CookieOptions
	// OpenAccess serves the meal and chat routes without a session (DEV_MOCK).
	OpenAccess bool
	// UploadLimit is an extra limiter for POST /api/analyze. Optional.
	UploadLimit fiber.Handler
}

func passThrough(c *fiber.Ctx) error { return c.Next() }

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/", Banner())
	app.Get("/health", HealthCheck(d.Health...))
	app.Get("/healthz", LivenessProbe())
	app.Get("/uploads/:name", ServeUpload(d.Uploads))

	requireAuth := middleware.RequireAuth(d.Auth)
	protected := requireAuth
	if d.OpenAccess {
		protected = passThrough
	}
	uploadLimit := d.UploadLimit
	if uploadLimit == nil {
		uploadLimit = passThrough
	}

	authGroup := app.Group("/api/auth")
	authGroup.Post("/register", Register(d.Auth))
	authGroup.Post("/login", Login(d.Auth, d.Cookie))
	authGroup.Post("/logout", Logout(d.Cookie))
	authGroup.Post("/google", GoogleLogin(d.Auth, d.Cookie))
	authGroup.Get("/me", requireAuth, Me())

	api := app.Group("/api")
	api.Post("/analyze", uploadLimit, protected, AnalyzeMeal(d.Meals))
	api.Get("/history", protected, ListHistory(d.Meals))
	api.Delete("/history", protected, ClearHistory(d.Meals))
	api.Get("/history/:id", protected, GetMeal(d.Meals))
	api.Get("/history/:id/export", protected, ExportMeal(d.Meals))
	api.Patch("/history/:id/portion", protected, AdjustPortion(d.Meals))
	api.Post("/chat", protected, Chat(d.Chat))
}
