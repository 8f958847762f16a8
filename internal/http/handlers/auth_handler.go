package handlers

import (
	"errors"
	"strings"
	"time"

	"perfumeria/internal/log"
	"perfumeria/internal/services"
	"perfumeria/internal/validate"

	"github.com/gofiber/fiber/v2"
)

const loginErr = "Correo o contraseña incorrectos"

type AuthHandler struct {
	Auth         *services.AuthService
	CookieSecure bool
}

func (h *AuthHandler) setSession(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.CookieSecure,
		Expires:  expires,
	})
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	if admin, _ := c.Locals("isAdmin").(bool); admin {
		return c.Redirect("/admin")
	}
	return render(c, "login", fiber.Map{"Err": "", "Email": ""})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	email := c.FormValue("email")
	pass := c.FormValue("password")
	fail := func(fields map[string]any) error {
		log.Security(c, "auth.login.fail", fields)
		c.Status(fiber.StatusUnauthorized)
		return render(c, "login", fiber.Map{"Err": loginErr, "Email": strings.TrimSpace(email)})
	}

	if _, ok := validate.Email(email); !ok {
		return fail(map[string]any{"email": email, "reason": "bad_format"})
	}
	if pass == "" || len(pass) > 72 {
		return fail(map[string]any{"email": email, "reason": "bad_password_format"})
	}

	tok, u, err := h.Auth.Login(c.UserContext(), email, pass)
	if err != nil {
		if !errors.Is(err, services.ErrBadCreds) {
			log.Error(c, "auth.login.error", err, map[string]any{"email": email})
		}
		return fail(map[string]any{"email": email})
	}

	h.setSession(c, tok, time.Now().Add(h.Auth.TTL))
	c.Locals("user", u)
	log.Audit(c, "auth.login.success", map[string]any{"email": u.Email})
	return c.Redirect("/admin")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.setSession(c, "", time.Now().Add(-1*time.Hour))
	log.Audit(c, "auth.logout", nil)
	return c.Redirect("/")
}
