package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/silver1953366/gravure-frontend/internal/domain"
	applog "github.com/silver1953366/gravure-frontend/internal/log"
	"github.com/silver1953366/gravure-frontend/internal/services"
	"github.com/silver1953366/gravure-frontend/internal/validate"
)

// StaffHandler serves the pages controllers and admins share. The same handlers are
// mounted under /controller and /admin; links stay inside the caller's area.
type StaffHandler struct {
	guard
	Quotes     *services.QuoteService
	Orders     *services.OrderService
	Inventory  *services.InventoryService
	Admin      *services.AdminService
	Dashboards *services.Dashboards
}

func area(c *fiber.Ctx) string {
	if sessionOf(c).Role == domain.RoleAdmin {
		return "/admin"
	}
	return "/controller"
}

func quotePath(c *fiber.Ctx, id int64) string {
	return domain.Ref{Kind: domain.ResourceQuote, ID: id}.Path(sessionOf(c).Role)
}

func orderPath(c *fiber.Ctx, id int64) string {
	return domain.Ref{Kind: domain.ResourceOrder, ID: id}.Path(sessionOf(c).Role)
}

func (h *StaffHandler) Dashboard(c *fiber.Ctx) error {
	d, err := h.Dashboards.Controller(c.UserContext(), sessionOf(c))
	msg, ok := h.banner(c, err)
	if !ok {
		return h.page(c, err)
	}
	return render(c, "staff/dashboard", fiber.Map{"Stats": d, "Area": area(c), "Error": msg})
}

func (h *StaffHandler) QuoteList(c *fiber.Ctx) error {
	qs, err := h.Quotes.StaffList(c.UserContext(), sessionOf(c))
	msg, ok := h.banner(c, err)
	if !ok {
		return h.page(c, err)
	}
	if status := domain.QuoteStatus(c.Query("status")); status.Valid() {
		kept := qs[:0]
		for _, q := range qs {
			if q.Status == status {
				kept = append(kept, q)
			}
		}
		qs = kept
	}
	return render(c, "staff/quotes", fiber.Map{"Quotes": qs, "Area": area(c), "Status": c.Query("status"), "Error": msg})
}

func (h *StaffHandler) Quote(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return NotFound(c)
	}
	q, err := h.Quotes.Get(c.UserContext(), sessionOf(c), id)
	if err != nil {
		return h.page(c, err)
	}
	history, _ := h.Quotes.Audit.History(c.UserContext(), domain.Ref{Kind: domain.ResourceQuote, ID: id})
	return render(c, "staff/quote", fiber.Map{
		"Quote":     q,
		"Area":      area(c),
		"Priceable": q.Status.CanTransition(domain.QuoteCalculated),
		"Closable":  q.Status.CanTransition(domain.QuoteArchived),
		"History":   history,
	})
}

func (h *StaffHandler) PriceQuote(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return NotFound(c)
	}
	final, err := decimal.NewFromString(strings.TrimSpace(c.FormValue("final_price_fcfa")))
	if err != nil {
		final = decimal.Zero
	}
	if _, err := h.Quotes.Price(c.UserContext(), sessionOf(c), id, final, c.FormValue("admin_note")); err != nil {
		return h.action(c, err, quotePath(c, id))
	}
	applog.Audit(c, "quote.priced", map[string]any{"quote_id": id, "final_price": final.String()})
	flash(c, "Devis calculé.")
	return c.Redirect(quotePath(c, id))
}

func (h *StaffHandler) RejectQuote(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return NotFound(c)
	}
	if _, err := h.Quotes.Reject(c.UserContext(), sessionOf(c), id, c.FormValue("admin_note")); err != nil {
		return h.action(c, err, quotePath(c, id))
	}
	applog.Audit(c, "quote.rejected", map[string]any{"quote_id": id})
	return c.Redirect(quotePath(c, id))
}

func (h *StaffHandler) ArchiveQuote(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return NotFound(c)
	}
	if _, err := h.Quotes.Archive(c.UserContext(), sessionOf(c), id); err != nil {
		return h.action(c, err, quotePath(c, id))
	}
	applog.Audit(c, "quote.archived", map[string]any{"quote_id": id})
	return c.Redirect(quotePath(c, id))
}

func (h *StaffHandler) OrderList(c *fiber.Ctx) error {
	orders, err := h.Orders.StaffList(c.UserContext(), sessionOf(c))
	msg, ok := h.banner(c, err)
	if !ok {
		return h.page(c, err)
	}
	return render(c, "staff/orders", fiber.Map{"Orders": orders, "Area": area(c), "Error": msg})
}

func (h *StaffHandler) Order(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return NotFound(c)
	}
	o, err := h.Orders.StaffGet(c.UserContext(), sessionOf(c), id)
	if err != nil {
		return h.page(c, err)
	}
	history, err := h.Orders.History(c.UserContext(), id)
	if err != nil {
		applog.Error(c, "order.history_failed", err, map[string]any{"order_id": id})
	}
	return render(c, "staff/order", fiber.Map{
		"Order":   o,
		"Area":    area(c),
		"Next":    o.Status.NextStatuses(),
		"History": history,
	})
}

// SetOrderStatus moves an order one step along its lifecycle or cancels it.
func (h *StaffHandler) SetOrderStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return NotFound(c)
	}
	next := domain.OrderStatus(c.FormValue("status"))
	if !next.Valid() {
		flash(c, message(domain.ErrInvalidTransition))
		return c.Redirect(orderPath(c, id))
	}
	_, change, err := h.Orders.Transition(c.UserContext(), sessionOf(c), id, next)
	if err != nil {
		return h.action(c, err, orderPath(c, id))
	}
	applog.Audit(c, "order.status", map[string]any{
		"order_id": id, "before": string(change.Before), "after": string(change.After),
	})
	flash(c, "Statut de la commande mis à jour.")
	return c.Redirect(orderPath(c, id))
}

func (h *StaffHandler) InventoryList(c *fiber.Ctx) error {
	lines, err := h.Inventory.List(c.UserContext(), sessionOf(c))
	msg, ok := h.banner(c, err)
	if !ok {
		return h.page(c, err)
	}
	return render(c, "staff/inventory", fiber.Map{"Lines": lines, "Area": area(c), "Error": msg})
}

func (h *StaffHandler) InventoryItem(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return NotFound(c)
	}
	line, err := h.Inventory.Get(c.UserContext(), sessionOf(c), id)
	if err != nil {
		return h.page(c, err)
	}
	return render(c, "staff/inventory_item", fiber.Map{"Line": line, "Area": area(c)})
}

func (h *StaffHandler) Clients(c *fiber.Ctx) error {
	users, err := h.Admin.Clients(c.UserContext(), sessionOf(c))
	msg, ok := h.banner(c, err)
	if !ok {
		return h.page(c, err)
	}
	return render(c, "staff/clients", fiber.Map{"Clients": users, "Area": area(c), "Error": msg})
}
