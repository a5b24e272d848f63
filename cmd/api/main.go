package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nutrilens/docs"
	"nutrilens/internal/analyzer"
	"nutrilens/internal/applog"
	"nutrilens/internal/auth"
	"nutrilens/internal/cache"
	"nutrilens/internal/config"
	handlers "nutrilens/internal/http/handler"
	"nutrilens/internal/http/middleware"
	"nutrilens/internal/otel"
	"nutrilens/internal/service"
	"nutrilens/internal/sweeper"
)

const (
	shutdownTimeout = 10 * time.Second
	devJWTSecret    = "nutrilens-dev-secret"
)

// @title NutriLens API
// @version 1.0
// @description Food photo nutrition analysis, meal history and nutrition chat.
// @BasePath /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if id := os.Getenv("AWS_SECRET_ID"); id != "" {
		if err := loadSecrets(ctx, id); err != nil {
			applog.Default().Error("main", "secrets_failed", err, map[string]any{"secret_id": id})
			os.Exit(1)
		}
	}

	cfg := config.Load()
	logger := applog.New(os.Stdout, cfg.Location())
	applog.SetDefault(logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("main", "fatal", err, nil)
		os.Exit(1)
	}
}

func loadSecrets(ctx context.Context, secretID string) error {
	client, err := config.NewSecretsClient(ctx)
	if err != nil {
		return err
	}
	applied, err := config.ApplySecrets(ctx, client, secretID)
	if err != nil {
		return err
	}
	applog.Default().Info("main", "secrets_loaded", map[string]any{"keys": len(applied)})
	return nil
}

func run(ctx context.Context, cfg *config.AppConfig, logger *applog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Error("main", "tracing_shutdown_failed", err, nil)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	mealMetrics, err := service.NewMetrics(reg)
	if err != nil {
		return err
	}
	prom, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		st.close(cctx, logger)
	}()

	// Rate-limit counters live in Redis when configured so they hold across replicas.
	var limiterStore fiber.Storage
	if cfg.RedisURL != "" {
		rs, err := cache.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		st.closers = append(st.closers, func(context.Context) error { return rs.Close() })
		st.health = append(st.health, rs)
		limiterStore = rs
	}

	var an analyzer.Analyzer
	if cfg.DevMock {
		an = analyzer.Mock{}
		if cfg.Auth.JWTSecret == "" {
			cfg.Auth.JWTSecret = devJWTSecret
		}
		logger.Warn("main", "dev_mock_enabled", nil, map[string]any{"analyzer": "mock", "store": "memory"})
	} else {
		an = analyzer.NewGemini(cfg.Gemini, nil)
	}

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTExpire)
	google := auth.NewIDTokenVerifier(cfg.Auth.GoogleClientID)

	meals := service.NewMealService(st.uploads, st.meals, an, mealMetrics, logger, service.MealServiceConfig{
		MaxUploadBytes:  cfg.Upload.MaxBytes,
		HistoryMaxLimit: cfg.HistoryMaxLimit,
	})
	authSvc := service.NewAuthService(st.users, tokens, google, logger)
	chat := service.NewChatService(an)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// Multipart uploads are size-checked by the meal service; JSON bodies by JSONBodyLimit.
		BodyLimit: int(2 * cfg.Upload.MaxBytes),
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.LoggerWithWriter(os.Stdout, cfg.Location()))
	app.Use(otelfiber.Middleware())
	app.Use(prom.Handler())
	app.Use(helmet.New(helmet.Config{CrossOriginResourcePolicy: "cross-origin"}))
	app.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	app.Use(middleware.RateLimit("general", cfg.RateLimit.GeneralMax, cfg.RateLimit.Window, limiterStore,
		"Too many requests from this IP, please try again later."))
	app.Use(middleware.JSONBodyLimit(cfg.JSONBodyLimit))
	app.Use(middleware.Timeout(cfg.RequestTimeout))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, handlers.Deps{
		Meals:      meals,
		Auth:       authSvc,
		Chat:       chat,
		Uploads:    st.uploads,
		Health:     st.health,
		Cookie:     handlers.CookieOptions{Secure: cfg.IsProduction()},
		OpenAccess: cfg.DevMock,
		UploadLimit: middleware.RateLimit("upload", cfg.RateLimit.UploadMax, cfg.RateLimit.Window, limiterStore,
			"Upload rate limit exceeded, please try again later."),
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go sweeper.New(st.uploads, cfg.Upload.SweepInterval, cfg.Upload.MaxAge, logger).Run(ctx)

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("main", "server_started", map[string]any{
			"port":     cfg.Port,
			"env":      cfg.Env,
			"dev_mock": cfg.DevMock,
		})
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("main", "server_stopping", nil)
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		logger.Error("main", "shutdown_failed", err, nil)
	}
	return nil
}
