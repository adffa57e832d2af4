package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/silver1953366/gravure-frontend/internal/domain"
	applog "github.com/silver1953366/gravure-frontend/internal/log"
	"github.com/silver1953366/gravure-frontend/internal/services"
	"github.com/silver1953366/gravure-frontend/internal/validate"
)

type CartHandler struct {
	guard
	Carts *services.CartService
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	cart, err := h.Carts.Load(c.UserContext(), sessionOf(c))
	msg, ok := h.banner(c, err)
	if !ok {
		return h.page(c, err)
	}
	return render(c, "cart", fiber.Map{"Cart": cart, "Error": msg})
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	dimID, ok := validate.ID(c.FormValue("material_dimension_id"))
	if !ok {
		flash(c, "Choisissez une dimension.")
		return back(c, "/catalog")
	}
	qty, ok := validate.Qty(c.FormValue("quantity"))
	if !ok {
		flash(c, message(domain.ErrInvalidQuantity))
		return back(c, "/catalog")
	}
	in := domain.CartItemInput{MaterialDimensionID: dimID, Quantity: qty}
	if text := c.FormValue("engraving_text"); text != "" {
		in.EngravingText = &text
	}
	if opt := c.FormValue("mounting_option"); opt != "" {
		in.MountingOption = &opt
	}
	if _, err := h.Carts.Add(c.UserContext(), sessionOf(c), in); err != nil {
		return h.action(c, err, "/catalog")
	}
	applog.Info(c, "cart.add", map[string]any{"dimension_id": dimID, "qty": qty})
	return c.Redirect("/cart")
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return NotFound(c)
	}
	qty, ok := validate.Qty(c.FormValue("quantity"))
	if !ok {
		flash(c, message(domain.ErrInvalidQuantity))
		return c.Redirect("/cart")
	}
	if _, err := h.Carts.UpdateQuantity(c.UserContext(), sessionOf(c), id, qty); err != nil {
		return h.action(c, err, "/cart")
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return NotFound(c)
	}
	if _, err := h.Carts.Remove(c.UserContext(), sessionOf(c), id); err != nil {
		return h.action(c, err, "/cart")
	}
	return c.Redirect("/cart")
}

// Convert turns the cart into a quote and opens it.
func (h *CartHandler) Convert(c *fiber.Ctx) error {
	q, err := h.Carts.ConvertToQuote(c.UserContext(), sessionOf(c))
	if err != nil {
		return h.action(c, err, "/cart")
	}
	applog.Audit(c, "cart.converted", map[string]any{"quote_id": q.ID})
	flash(c, "Votre panier a été transformé en devis.")
	if q.ID == 0 {
		return c.Redirect("/client/quotes")
	}
	return c.Redirect(domain.Ref{Kind: domain.ResourceQuote, ID: q.ID}.Path(domain.RoleClient))
}
