package handlers

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
)

const flashCookie = "flash"

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	sess := sessionOf(c)
	if sess.LoggedIn() {
		data["User"] = sess.User
		data["Role"] = string(sess.Role)
		data["Dashboard"] = sess.Role.DashboardPath()
		if _, set := data["Area"]; !set && sess.Role.Staff() {
			data["Area"] = area(c)
		}
	}
	// Pick up the token the CSRF middleware put into Locals
	tok, _ := c.Locals("csrf").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	data["CSRFToken"] = tok
	if raw := c.Cookies(flashCookie); raw != "" {
		if msg, err := url.QueryUnescape(raw); err == nil {
			if _, set := data["Flash"]; !set {
				data["Flash"] = msg
			}
		}
		c.ClearCookie(flashCookie)
	}
	return c.Render(tmpl, data)
}

// flash keeps a one-shot message for the next rendered page.
func flash(c *fiber.Ctx, msg string) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(time.Minute),
	})
}

// back redirects to the referring page, or to fallback.
func back(c *fiber.Ctx, fallback string) error {
	return c.RedirectBack(fallback)
}
