// Package server assembles the fiber app: middleware, views and routes.
package server

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"

	"perfumeria/internal/config"
	"perfumeria/internal/http/handlers"
	applog "perfumeria/internal/log"
	"perfumeria/internal/metrics"
	"perfumeria/internal/services"
	"perfumeria/internal/storage"
)

// Options are the collaborators the app is built from.
type Options struct {
	Config config.Config
	DB     *sqlx.DB
	Auth   *services.AuthService
	Disk   storage.Disk
	// Storage backs the limiter and csrf middleware; nil keeps them in memory.
	Storage fiber.Storage
	// LoginMax is the number of login attempts per IP in ten minutes.
	LoginMax int
}

func New(o Options) *fiber.App {
	cfg := o.Config
	if o.LoginMax <= 0 {
		o.LoginMax = 5
	}

	engine := html.New(cfg.TemplatesDir, ".html")

	app := fiber.New(fiber.Config{
		Views:     engine,
		BodyLimit: 1 << 20, // 1 MiB, room for a 500 KB image plus fields
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				code = fe.Code
			}
			if code == fiber.StatusNotFound {
				return c.Status(code).Render("notfound", fiber.Map{"Message": "Página no encontrada"})
			}
			applog.Error(c, "server.error", err, nil)
			// never echo err to the client
			if rerr := c.Status(code).Render("notfound", fiber.Map{
				"Message": "Algo salió mal. Por favor, intenta de nuevo.",
			}); rerr != nil {
				return c.Status(code).SendString("Algo salió mal. Por favor, intenta de nuevo.")
			}
			return nil
		},
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New(helmet.Config{
		// product images may come from the bucket's public URL
		CrossOriginEmbedderPolicy: "unsafe-none",
	}))
	app.Use(metrics.Middleware())
	app.Use(handlers.LoadUser(o.Auth))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Storage:    o.Storage,
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/media/") || p == "/healthz"
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   cfg.CookieSecure,
		Storage:        o.Storage,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"reason": err.Error()})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "La verificación de seguridad falló. Recarga la página e intenta de nuevo."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	// ---------- Static assets ----------
	app.Static("/static", cfg.StaticDir)

	deps := handlers.NewDeps(o.DB, cfg, o.Auth, o.Disk)
	if deps.MediaHandler != nil {
		app.Get(strings.TrimRight(deps.MediaHandler.Disk.BaseURL, "/")+"/*", deps.MediaHandler.Serve)
	}

	// ---------- Storefront ----------
	app.Get("/", deps.CatalogHandler.List)
	app.Get("/perfume/:id", deps.CatalogHandler.Detail)

	api := app.Group("/api/v1")
	api.Get("/perfumes", deps.APIHandler.List)
	api.Get("/perfumes/:id", deps.APIHandler.Get)

	// ---------- Auth (login throttled) ----------
	app.Get("/login", deps.AuthHandler.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        o.LoginMax,
		Expiration: 10 * time.Minute,
		Storage:    o.Storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|login"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Demasiados intentos. Intenta más tarde."})
		},
	}), deps.AuthHandler.Login)
	app.Post("/logout", deps.AuthHandler.Logout)

	// ---------- Admin ----------
	admin := app.Group("/admin", handlers.RequireAdmin(o.Auth))
	admin.Get("/", deps.AdminHandler.Dashboard)
	admin.Post("/perfumes", deps.AdminHandler.Create)
	admin.Post("/perfumes/:id", deps.AdminHandler.Update)
	admin.Post("/perfumes/:id/delete", deps.AdminHandler.Delete)

	// ---------- Ops & 404 ----------
	app.Get("/healthz", func(c *fiber.Ctx) error {
		if err := o.DB.PingContext(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false})
		}
		return c.JSON(fiber.Map{"ok": true})
	})
	if cfg.MetricsToken != "" {
		app.Get("/metrics", requireBearer(cfg.MetricsToken), metrics.Handler())
	}
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Página no encontrada"})
	})

	return app
}

// requireBearer admits scrapers presenting "Authorization: Bearer <token>".
func requireBearer(token string) fiber.Handler {
	want := []byte("Bearer " + token)
	return func(c *fiber.Ctx) error {
		got := []byte(c.Get(fiber.HeaderAuthorization))
		if subtle.ConstantTimeCompare(got, want) != 1 {
			applog.Security(c, "metrics.denied", nil)
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.Next()
	}
}
