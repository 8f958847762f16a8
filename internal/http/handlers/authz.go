package handlers

import (
	applog "perfumeria/internal/log"
	"perfumeria/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie holds the signed session token.
const SessionCookie = "sid"

// LoadUser attaches the signed-in user, if any, to the request.
func LoadUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tok := c.Cookies(SessionCookie); tok != "" {
			if u, err := auth.CurrentUser(c.UserContext(), tok); err == nil {
				c.Locals("user", u)
				c.Locals("isAdmin", auth.IsAdmin(u))
			}
		}
		return c.Next()
	}
}

// RequireAdmin lets through only the configured administrator. Anonymous
// visitors go to the login page, everyone else back to the catalog.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := c.Cookies(SessionCookie)
		if tok == "" {
			return c.Redirect("/login")
		}
		u, err := auth.CurrentUser(c.UserContext(), tok)
		if err != nil {
			return c.Redirect("/login")
		}
		if !auth.IsAdmin(u) {
			applog.Security(c, "access.denied.admin", map[string]any{"email": u.Email})
			return c.Redirect("/")
		}
		c.Locals("user", u)
		c.Locals("isAdmin", true)
		return c.Next()
	}
}
