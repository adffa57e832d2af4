package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	applog "github.com/silver1953366/gravure-frontend/internal/log"
	"github.com/silver1953366/gravure-frontend/internal/services"
)

const sessionCookie = "sid"

func ensureSID(c *fiber.Ctx, secure bool) string {
	sid := c.Cookies(sessionCookie)
	if _, err := uuid.Parse(sid); err == nil {
		return sid
	}
	sid = uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    sid,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   secure,
	})
	return sid
}

// LoadSession reads the visitor's session once per request and exposes it to handlers,
// templates and access logs.
func LoadSession(sessions *services.Sessions, secureCookie bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := ensureSID(c, secureCookie)
		sess, err := sessions.Load(c.UserContext(), sid)
		if err != nil {
			return err
		}
		c.Locals("session", sess)
		if sess.LoggedIn() {
			c.Locals("user_id", sess.User.ID)
			l := applog.FromContext(c.UserContext()).With("user_id", sess.User.ID, "role", string(sess.Role))
			c.SetUserContext(applog.IntoContext(c.UserContext(), l))
		}
		return c.Next()
	}
}

func sessionOf(c *fiber.Ctx) *services.Session {
	if s, ok := c.Locals("session").(*services.Session); ok && s != nil {
		return s
	}
	return &services.Session{}
}
