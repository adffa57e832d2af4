package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/silver1953366/gravure-frontend/internal/services"
	"github.com/silver1953366/gravure-frontend/internal/validate"
)

const notificationsPath = "/notifications"

type NotificationHandler struct {
	guard
	Notifications *services.NotificationService
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	sess := sessionOf(c)
	p, err := h.Notifications.Page(c.UserContext(), sess, page)
	msg, ok := h.banner(c, err)
	if !ok {
		return h.page(c, err)
	}
	return render(c, "notifications", fiber.Map{"Page": p, "Error": msg})
}

// Open marks the notification read and follows it.
func (h *NotificationHandler) Open(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return NotFound(c)
	}
	sess := sessionOf(c)
	if err := h.Notifications.MarkRead(c.UserContext(), sess, id); err != nil {
		return h.action(c, err, notificationsPath)
	}
	if to := c.FormValue("target"); to != "" && to[0] == '/' && (len(to) == 1 || to[1] != '/') {
		return c.Redirect(to)
	}
	return c.Redirect(notificationsPath)
}

func (h *NotificationHandler) MarkAll(c *fiber.Ctx) error {
	if err := h.Notifications.MarkAllRead(c.UserContext(), sessionOf(c)); err != nil {
		return h.action(c, err, notificationsPath)
	}
	return c.Redirect(notificationsPath)
}

func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return NotFound(c)
	}
	if err := h.Notifications.Delete(c.UserContext(), sessionOf(c), id); err != nil {
		return h.action(c, err, notificationsPath)
	}
	return c.Redirect(notificationsPath)
}
