package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/silver1953366/gravure-frontend/internal/apiclient"
	"github.com/silver1953366/gravure-frontend/internal/domain"
	applog "github.com/silver1953366/gravure-frontend/internal/log"
	"github.com/silver1953366/gravure-frontend/internal/services"
)

var domainMessages = []struct {
	err error
	msg string
}{
	{domain.ErrInvalidTransition, "Ce changement de statut n'est pas autorisé."},
	{domain.ErrQuoteNotCalculated, "Le devis doit être calculé avant de passer commande."},
	{domain.ErrQuoteNotPriced, "Le devis n'a pas encore de prix final."},
	{domain.ErrQuoteLocked, "Ce devis ne peut plus être modifié."},
	{domain.ErrInvalidPrice, "Le prix final doit être supérieur à zéro."},
	{domain.ErrInvalidQuantity, "La quantité doit être au moins 1."},
	{domain.ErrInvalidAddress, "Rue, ville et code postal sont obligatoires."},
	{domain.ErrMissingClientDetail, "Le nom et l'email du client sont obligatoires."},
	{services.ErrBadCreds, "Email ou mot de passe invalide."},
	{services.ErrEngravingTooLong, "Le texte de gravure est limité à 120 caractères."},
	{services.ErrStaffOnly, "Accès refusé."},
	{services.ErrAdminOnly, "Accès réservé aux administrateurs."},
}

// message is the text shown to the user for err.
func message(err error) string {
	for _, m := range services.Fields(err) {
		return m
	}
	for _, dm := range domainMessages {
		if errors.Is(err, dm.err) {
			return dm.msg
		}
	}
	return apiclient.UserMessage(err)
}

// fieldErrors merges local and backend per-field messages.
func fieldErrors(err error) map[string]string {
	if fe := services.Fields(err); fe != nil {
		return fe
	}
	return apiclient.FieldErrors(err)
}

func forbidden(err error) bool {
	return errors.Is(err, apiclient.ErrForbidden) || errors.Is(err, services.ErrStaffOnly) || errors.Is(err, services.ErrAdminOnly)
}

func local(err error) bool {
	if services.Fields(err) != nil || errors.Is(err, apiclient.ErrValidation) {
		return true
	}
	for _, dm := range domainMessages {
		if errors.Is(err, dm.err) {
			return true
		}
	}
	return false
}

// guard turns backend failures into responses. A rejected token logs the visitor out.
type guard struct {
	auth *services.AuthService
}

func (g guard) expire(c *fiber.Ctx) {
	if err := g.auth.Expire(c.UserContext(), sessionOf(c)); err != nil {
		applog.Error(c, "session.expire_failed", err, nil)
	}
}

// page handles an error that leaves nothing to show.
func (g guard) page(c *fiber.Ctx, err error) error {
	switch {
	case apiclient.IsAuthError(err):
		g.expire(c)
		flash(c, apiclient.UserMessage(err))
		return c.Redirect(loginPath)
	case errors.Is(err, apiclient.ErrNotFound):
		return render(c.Status(fiber.StatusNotFound), "notfound", fiber.Map{"Message": "Élément introuvable."})
	case forbidden(err):
		applog.Security(c, "access.denied", map[string]any{"err": err.Error()})
		return render(c.Status(fiber.StatusForbidden), "notfound", fiber.Map{"Message": "Accès refusé."})
	}
	applog.Error(c, "backend.error", err, nil)
	return render(c.Status(fiber.StatusBadGateway), "notfound", fiber.Map{"Message": message(err)})
}

// action handles a failed form post by flashing the message and going back to fallback.
func (g guard) action(c *fiber.Ctx, err error, fallback string) error {
	if apiclient.IsAuthError(err) {
		return g.page(c, err)
	}
	if !local(err) {
		applog.Error(c, "action.failed", err, nil)
	}
	flash(c, message(err))
	return back(c, fallback)
}

// banner handles a failed read that still lets the page render with empty data.
func (g guard) banner(c *fiber.Ctx, err error) (string, bool) {
	if err == nil {
		return "", true
	}
	if apiclient.IsAuthError(err) {
		return "", false
	}
	applog.Error(c, "backend.degraded", err, nil)
	return message(err), true
}

// json writes err as an API error body.
func (g guard) json(c *fiber.Ctx, err error) error {
	status := fiber.StatusBadGateway
	switch {
	case apiclient.IsAuthError(err):
		g.expire(c)
		status = fiber.StatusUnauthorized
	case forbidden(err):
		status = fiber.StatusForbidden
	case errors.Is(err, apiclient.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, apiclient.ErrConflict):
		status = fiber.StatusConflict
	case local(err):
		status = fiber.StatusUnprocessableEntity
	default:
		applog.Error(c, "api.backend_error", err, nil)
	}
	body := fiber.Map{"error": message(err)}
	if fe := fieldErrors(err); fe != nil {
		body["errors"] = fe
	}
	return c.Status(status).JSON(body)
}
