package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/silver1953366/gravure-frontend/internal/domain"
	applog "github.com/silver1953366/gravure-frontend/internal/log"
)

const loginPath = "/auth/login"

func wantsJSON(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/api/")
}

// RequireAuth sends anonymous visitors to the login page.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !sessionOf(c).LoggedIn() {
			if wantsJSON(c) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentication required"})
			}
			return c.Redirect(loginPath)
		}
		return c.Next()
	}
}

// RequireGuest sends signed-in users to their dashboard.
func RequireGuest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sess := sessionOf(c); sess.LoggedIn() {
			return c.Redirect(sess.Role.DashboardPath())
		}
		return c.Next()
	}
}

// RequireRole lets only the given roles through. Anyone else lands on their own dashboard.
func RequireRole(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := sessionOf(c)
		if !sess.LoggedIn() {
			return c.Redirect(loginPath)
		}
		if !sess.Role.In(roles...) {
			applog.Security(c, "access.denied.role", map[string]any{"role": string(sess.Role)})
			return c.Redirect(sess.Role.DashboardPath())
		}
		return c.Next()
	}
}
