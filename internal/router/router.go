package router

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"skatepark/internal/auth"
	"skatepark/internal/config"
	"skatepark/internal/handlers"
	"skatepark/internal/middleware"
	"skatepark/internal/platform/ratelimit"
	"skatepark/internal/platform/skater"
	"skatepark/internal/views"
)

type Dependencies struct {
	Config  *config.Config
	Skaters *skater.Service
	Tokens  *auth.Issuer
	Log     zerolog.Logger

	// LimiterStorage holds login attempt counters. Nil keeps them in memory.
	LimiterStorage fiber.Storage
	// Ready backs the readiness probe. Nil always reports ready.
	Ready func(ctx context.Context) bool
}

func New(deps Dependencies) *fiber.App {
	cfg := deps.Config

	app := fiber.New(fiber.Config{
		AppName:               "skatepark",
		Views:                 views.New(),
		ViewsLayout:           views.Layout,
		BodyLimit:             cfg.BodyLimit(),
		ErrorHandler:          handlers.NewErrorHandler(cfg.MaxUploadSize),
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(deps.Log))
	app.Use(helmet.New())
	app.Use(compress.New())
	app.Use(healthcheck.New(healthcheck.Config{
		ReadinessProbe: func(c *fiber.Ctx) bool {
			if deps.Ready == nil {
				return true
			}
			return deps.Ready(c.UserContext())
		},
	}))
	app.Use(middleware.RobotsMiddleware(cfg.PublicDir))

	app.Use(func(c *fiber.Ctx) error {
		c.Locals("config", cfg)
		c.Locals("skaters", deps.Skaters)
		c.Locals("tokens", deps.Tokens)
		return c.Next()
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/", handlers.Home)
	app.Get("/home", handlers.Home)
	app.Get("/registro", handlers.RegistroPage)
	app.Get("/login", handlers.LoginPage)
	app.Get("/perfil", middleware.AuthMiddleware, handlers.Perfil)
	app.Get("/admin", middleware.AuthMiddleware, middleware.AdminMiddleware, handlers.Admin)
	app.Get("/img/:key", handlers.GetPhoto)

	api := app.Group("/api/v1")
	api.Post("/registro", handlers.Register)
	api.Post("/login", loginLimiter(cfg, deps.LimiterStorage), handlers.Login)
	api.Get("/skaters", handlers.ListSkaters)
	api.Put("/skaters", middleware.AuthMiddleware, handlers.UpdateSkater)
	api.Delete("/skaters", middleware.AuthMiddleware, handlers.DeleteSkater)
	api.Put("/skaters/estado", middleware.AuthMiddleware, middleware.AdminMiddleware, handlers.ChangeStatus)

	app.Static("/", cfg.PublicDir)

	app.Use(handlers.NotFound)

	return app
}

// loginLimiter caps login attempts per client IP and minute.
func loginLimiter(cfg *config.Config, storage fiber.Storage) fiber.Handler {
	if cfg.LoginRateLimit <= 0 {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	return limiter.New(limiter.Config{
		Max:          cfg.LoginRateLimit,
		Expiration:   time.Minute,
		KeyGenerator: ratelimit.ClientKey,
		Storage:      storage,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": handlers.MsgTooManyAttempts,
			})
		},
	})
}
