package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/silver1953366/gravure-frontend/internal/apiclient"
	"github.com/silver1953366/gravure-frontend/internal/log"
	"github.com/silver1953366/gravure-frontend/internal/services"
)

type AuthHandler struct {
	guard
	Auth         *services.AuthService
	CookieSecure bool
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "auth/login", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	email := c.FormValue("email")
	sess := sessionOf(c)
	if err := h.Auth.Login(c.UserContext(), sess, email, c.FormValue("password")); err != nil {
		if errors.Is(err, services.ErrBadCreds) {
			log.Security(c, "auth.login.fail", map[string]any{"email": email})
			return render(c.Status(fiber.StatusUnauthorized), "auth/login", fiber.Map{"Err": message(err), "Email": email})
		}
		log.Error(c, "auth.login.error", err, nil)
		return render(c.Status(fiber.StatusBadGateway), "auth/login", fiber.Map{"Err": message(err), "Email": email})
	}
	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.Redirect(sess.Role.DashboardPath())
}

func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	return render(c, "auth/register", fiber.Map{})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	in := apiclient.RegisterInput{
		Name:                 c.FormValue("name"),
		Email:                c.FormValue("email"),
		Password:             c.FormValue("password"),
		PasswordConfirmation: c.FormValue("password_confirmation"),
	}
	sess := sessionOf(c)
	if err := h.Auth.Register(c.UserContext(), sess, in); err != nil {
		status := fiber.StatusUnprocessableEntity
		if !local(err) {
			status = fiber.StatusBadGateway
			log.Error(c, "auth.register.error", err, nil)
		}
		return render(c.Status(status), "auth/register", fiber.Map{
			"Err":    message(err),
			"Fields": fieldErrors(err),
			"Name":   in.Name,
			"Email":  in.Email,
		})
	}
	log.Audit(c, "auth.register.success", map[string]any{"email": in.Email})
	return c.Redirect(sess.Role.DashboardPath())
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.Auth.Logout(c.UserContext(), sessionOf(c)); err != nil {
		log.Error(c, "auth.logout.error", err, nil)
	}
	// Expire cookie
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.CookieSecure,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	return c.Redirect("/")
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	u, err := h.Auth.Refresh(c.UserContext(), sessionOf(c))
	msg, ok := h.banner(c, err)
	if !ok {
		return h.page(c, err)
	}
	if err != nil {
		u = *sessionOf(c).User
	}
	return render(c, "profile", fiber.Map{"Profile": u, "Error": msg})
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	in := apiclient.ProfileInput{
		Name:    c.FormValue("name"),
		Email:   c.FormValue("email"),
		Phone:   c.FormValue("phone"),
		Address: c.FormValue("address"),
	}
	u, err := h.Auth.UpdateProfile(c.UserContext(), sessionOf(c), in)
	if err != nil {
		if apiclient.IsAuthError(err) {
			return h.page(c, err)
		}
		return render(c.Status(fiber.StatusUnprocessableEntity), "profile", fiber.Map{
			"Profile": in, "Err": message(err), "Fields": fieldErrors(err),
		})
	}
	log.Audit(c, "profile.updated", nil)
	return render(c, "profile", fiber.Map{"Profile": u, "Flash": "Profil mis à jour."})
}
