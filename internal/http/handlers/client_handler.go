package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/silver1953366/gravure-frontend/internal/apiclient"
	"github.com/silver1953366/gravure-frontend/internal/domain"
	applog "github.com/silver1953366/gravure-frontend/internal/log"
	"github.com/silver1953366/gravure-frontend/internal/services"
	"github.com/silver1953366/gravure-frontend/internal/validate"
)

// ClientHandler serves the /client area.
type ClientHandler struct {
	guard
	Quotes      *services.QuoteService
	Orders      *services.OrderService
	Favorites   *services.FavoriteService
	Attachments *services.AttachmentService
	Catalog     *services.CatalogService
	Dashboards  *services.Dashboards
}

func (h *ClientHandler) Dashboard(c *fiber.Ctx) error {
	d, err := h.Dashboards.Client(c.UserContext(), sessionOf(c))
	msg, ok := h.banner(c, err)
	if !ok {
		return h.page(c, err)
	}
	return render(c, "client/dashboard", fiber.Map{"Stats": d, "Error": msg})
}

func (h *ClientHandler) QuoteList(c *fiber.Ctx) error {
	sort := domain.QuoteSort(c.Query("sort_by"))
	if sort != domain.SortOldest {
		sort = domain.SortNewest
	}
	qs, err := h.Quotes.List(c.UserContext(), sessionOf(c), sort)
	msg, ok := h.banner(c, err)
	if !ok {
		return h.page(c, err)
	}
	return render(c, "client/quotes", fiber.Map{"Quotes": qs, "Sort": string(sort), "Error": msg})
}

func (h *ClientHandler) Quote(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return NotFound(c)
	}
	q, err := h.Quotes.Get(c.UserContext(), sessionOf(c), id)
	if err != nil {
		return h.page(c, err)
	}
	return render(c, "client/quote", fiber.Map{
		"Quote":       q,
		"Convertible": domain.CheckConvertible(q) == nil,
		"Editable":    q.Editable(),
	})
}

// quoteForm renders the quote editor. A zero id means a new quote.
func (h *ClientHandler) quoteForm(c *fiber.Ctx, id int64, in domain.QuoteInput, err error) error {
	ctx := c.UserContext()
	data := fiber.Map{"QuoteID": id, "Input": in}
	if err != nil {
		data["Err"] = message(err)
		data["Fields"] = fieldErrors(err)
		c.Status(fiber.StatusUnprocessableEntity)
	}
	mats, merr := h.Catalog.Materials(ctx)
	shapes, serr := h.Catalog.Shapes(ctx)
	if merr != nil || serr != nil {
		data["Error"], _ = h.banner(c, firstErr(merr, serr))
	}
	data["Materials"], data["Shapes"] = mats, shapes
	if in.MaterialID > 0 {
		dims, derr := h.Catalog.Dimensions(ctx, in.MaterialID, in.ShapeID)
		if derr == nil {
			data["Dimensions"] = dims
		}
	}
	return render(c, "client/quote_form", data)
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (h *ClientHandler) NewQuote(c *fiber.Ctx) error {
	return h.quoteForm(c, 0, h.Quotes.Prefill(c.UserContext(), sessionOf(c)), nil)
}

func quoteInput(c *fiber.Ctx) domain.QuoteInput {
	in := domain.QuoteInput{
		ClientDetails: domain.ClientDetails{
			Name:     strings.TrimSpace(c.FormValue("client_name")),
			Email:    strings.TrimSpace(c.FormValue("client_email")),
			Phone:    strings.TrimSpace(c.FormValue("client_phone")),
			Address:  strings.TrimSpace(c.FormValue("client_address")),
			WorkName: strings.TrimSpace(c.FormValue("work_name")),
		},
		Status: domain.QuoteSent,
	}
	in.MaterialID, _ = validate.ID(c.FormValue("material_id"))
	in.ShapeID, _ = validate.ID(c.FormValue("shape_id"))
	in.MaterialDimensionID, _ = validate.ID(c.FormValue("material_dimension_id"))
	in.Quantity, _ = validate.Qty(c.FormValue("quantity"))
	if c.FormValue("draft") != "" {
		in.Status = domain.QuoteDraft
	}
	if text := c.FormValue("engraving_text"); text != "" {
		in.CustomizationDetails = map[string]any{"engraving_text": text}
	}
	if notes := strings.TrimSpace(c.FormValue("notes")); notes != "" {
		if in.CustomizationDetails == nil {
			in.CustomizationDetails = map[string]any{}
		}
		in.CustomizationDetails["notes"] = notes
	}
	for _, raw := range strings.Split(c.FormValue("file_ids"), ",") {
		if id, ok := validate.ID(strings.TrimSpace(raw)); ok {
			in.FileIDs = append(in.FileIDs, id)
		}
	}
	return in
}

func (h *ClientHandler) CreateQuote(c *fiber.Ctx) error {
	in := quoteInput(c)
	q, err := h.Quotes.Create(c.UserContext(), sessionOf(c), in)
	if err != nil {
		if apiclient.IsAuthError(err) {
			return h.page(c, err)
		}
		return h.quoteForm(c, 0, in, err)
	}
	applog.Audit(c, "quote.created", map[string]any{"quote_id": q.ID})
	flash(c, "Votre demande de devis a été envoyée.")
	return c.Redirect(domain.Ref{Kind: domain.ResourceQuote, ID: q.ID}.Path(domain.RoleClient))
}

func (h *ClientHandler) EditQuote(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return NotFound(c)
	}
	q, err := h.Quotes.Get(c.UserContext(), sessionOf(c), id)
	if err != nil {
		return h.page(c, err)
	}
	if !q.Editable() {
		flash(c, message(domain.ErrQuoteLocked))
		return c.Redirect(domain.Ref{Kind: domain.ResourceQuote, ID: id}.Path(domain.RoleClient))
	}
	in := domain.QuoteInput{
		MaterialID:           q.MaterialID,
		ShapeID:              q.ShapeID,
		Quantity:             q.Quantity,
		ClientDetails:        q.ClientDetails,
		CustomizationDetails: q.DetailsSnapshot.Customization,
		Status:               q.Status,
	}
	if q.MaterialDimensionID != nil {
		in.MaterialDimensionID = *q.MaterialDimensionID
	}
	return h.quoteForm(c, id, in, nil)
}

func (h *ClientHandler) UpdateQuote(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return NotFound(c)
	}
	in := quoteInput(c)
	if _, err := h.Quotes.Update(c.UserContext(), sessionOf(c), id, in); err != nil {
		if apiclient.IsAuthError(err) {
			return h.page(c, err)
		}
		return h.quoteForm(c, id, in, err)
	}
	flash(c, "Devis mis à jour.")
	return c.Redirect(domain.Ref{Kind: domain.ResourceQuote, ID: id}.Path(domain.RoleClient))
}

func (h *ClientHandler) DeleteQuote(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return NotFound(c)
	}
	if err := h.Quotes.Delete(c.UserContext(), sessionOf(c), id); err != nil {
		return h.action(c, err, "/client/quotes")
	}
	applog.Audit(c, "quote.deleted", map[string]any{"quote_id": id})
	return c.Redirect("/client/quotes")
}

// ConvertQuote orders a calculated quote with the posted shipping address.
func (h *ClientHandler) ConvertQuote(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return NotFound(c)
	}
	addr := domain.Address{
		Street:     strings.TrimSpace(c.FormValue("street")),
		City:       strings.TrimSpace(c.FormValue("city")),
		PostalCode: strings.TrimSpace(c.FormValue("postal_code")),
		Country:    strings.TrimSpace(c.FormValue("country")),
	}
	quotePath := domain.Ref{Kind: domain.ResourceQuote, ID: id}.Path(domain.RoleClient)
	o, err := h.Quotes.ConvertToOrder(c.UserContext(), sessionOf(c), id, addr)
	if err != nil {
		return h.action(c, err, quotePath)
	}
	applog.Audit(c, "quote.converted", map[string]any{"quote_id": id, "order_id": o.ID})
	flash(c, "Commande créée.")
	return c.Redirect(domain.Ref{Kind: domain.ResourceOrder, ID: o.ID}.Path(domain.RoleClient))
}

func (h *ClientHandler) OrderList(c *fiber.Ctx) error {
	orders, err := h.Orders.List(c.UserContext(), sessionOf(c))
	msg, ok := h.banner(c, err)
	if !ok {
		return h.page(c, err)
	}
	return render(c, "client/orders", fiber.Map{"Orders": orders, "Error": msg})
}

func (h *ClientHandler) Order(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return NotFound(c)
	}
	o, err := h.Orders.Get(c.UserContext(), sessionOf(c), id)
	if err != nil {
		return h.page(c, err)
	}
	return render(c, "client/order", fiber.Map{"Order": o})
}

func (h *ClientHandler) FavoriteList(c *fiber.Ctx) error {
	favs, err := h.Favorites.List(c.UserContext(), sessionOf(c))
	msg, ok := h.banner(c, err)
	if !ok {
		return h.page(c, err)
	}
	return render(c, "client/favorites", fiber.Map{"Favorites": favs, "Error": msg})
}

func (h *ClientHandler) AddFavorite(c *fiber.Ctx) error {
	quoteID, ok := validate.ID(c.FormValue("quote_id"))
	if !ok {
		return c.Redirect("/client/favorites")
	}
	if _, err := h.Favorites.Add(c.UserContext(), sessionOf(c), quoteID); err != nil {
		return h.action(c, err, "/client/favorites")
	}
	return back(c, "/client/favorites")
}

func (h *ClientHandler) RemoveFavorite(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return NotFound(c)
	}
	if err := h.Favorites.Remove(c.UserContext(), sessionOf(c), id); err != nil {
		return h.action(c, err, "/client/favorites")
	}
	return c.Redirect("/client/favorites")
}

// UploadAttachment forwards one file to the backend. The size and type are checked
// before anything is sent.
func (h *ClientHandler) UploadAttachment(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		flash(c, "Aucun fichier reçu.")
		return back(c, "/client/quotes")
	}
	f, err := fh.Open()
	if err != nil {
		return h.action(c, err, "/client/quotes")
	}
	defer f.Close()

	up := apiclient.AttachmentUpload{
		TempQuoteID: c.FormValue("temp_quote_id"),
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Content:     f,
	}
	up.QuoteID, _ = validate.ID(c.FormValue("quote_id"))
	a, err := h.Attachments.Upload(c.UserContext(), sessionOf(c), up, fh.Size)
	if err != nil {
		return h.action(c, err, "/client/quotes")
	}
	applog.Info(c, "attachment.uploaded", map[string]any{"attachment_id": a.ID, "size": a.Size})
	if up.QuoteID > 0 {
		return c.Redirect(domain.Ref{Kind: domain.ResourceQuote, ID: up.QuoteID}.Path(domain.RoleClient))
	}
	return back(c, "/client/quotes/new")
}

func (h *ClientHandler) DeleteAttachment(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return NotFound(c)
	}
	if err := h.Attachments.Delete(c.UserContext(), sessionOf(c), id); err != nil {
		return h.action(c, err, "/client/quotes")
	}
	return back(c, "/client/quotes")
}
