package apitest

import (
	"slices"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/silver1953366/gravure-frontend/internal/domain"
)

func (b *Backend) ownQuote(c *fiber.Ctx) (*domain.Quote, error) {
	q, ok := b.quotes[paramID(c)]
	if !ok {
		return nil, fail(c, fiber.StatusNotFound, "Devis introuvable.")
	}
	u := me(c)
	if !u.Role.Staff() && (q.UserID == nil || *q.UserID != u.ID) {
		return nil, fail(c, fiber.StatusForbidden, "Accès refusé.")
	}
	return q, nil
}

func (b *Backend) activeDiscount(code string) *domain.Discount {
	if code == "" {
		return nil
	}
	for _, d := range b.discounts {
		if d.Code == code {
			cp := *d
			return &cp
		}
	}
	return nil
}

func (b *Backend) estimate(c *fiber.Ctx) error {
	var in domain.EstimateInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Requête invalide.")
	}
	dim, ok := b.dimension(in.MaterialDimensionID)
	if !ok {
		return invalid(c, "material_dimension_id", "Dimension inconnue.")
	}
	if in.Quantity < 1 {
		return invalid(c, "quantity", "La quantité doit être au moins 1.")
	}
	return c.JSON(domain.Estimate(dim, in.Quantity, in.EngravingText, b.activeDiscount(in.DiscountCode), b.Now()))
}

func (b *Backend) listQuotes(c *fiber.Ctx) error {
	u := me(c)
	out := []domain.Quote{}
	for _, q := range values(b.quotes) {
		if q.UserID != nil && *q.UserID == u.ID {
			out = append(out, q)
		}
	}
	if c.Query("sort_by") != string(domain.SortOldest) {
		slices.Reverse(out)
	}
	return c.JSON(out)
}

func (b *Backend) showQuote(c *fiber.Ctx) error {
	q, err := b.ownQuote(c)
	if q == nil {
		return err
	}
	return c.JSON(fiber.Map{"data": q})
}

func (b *Backend) fillQuote(q *domain.Quote, in domain.QuoteInput) error {
	dim, ok := b.dimension(in.MaterialDimensionID)
	if !ok {
		return errUnknownDimension
	}
	engraving, _ := in.CustomizationDetails["engraving_text"].(string)
	var d *domain.Discount
	if in.DiscountID != nil {
		if found, ok := b.discounts[*in.DiscountID]; ok {
			cp := *found
			d = &cp
		}
	}
	est := domain.Estimate(dim, in.Quantity, engraving, d, b.Now())
	q.MaterialID, q.ShapeID = in.MaterialID, in.ShapeID
	q.MaterialDimensionID = &dim.ID
	q.Quantity = in.Quantity
	q.ClientDetails = in.ClientDetails
	q.DimensionLabel = dim.DimensionLabel
	q.PriceSource = est.PriceSource
	q.UnitPriceFCFA = est.UnitPriceFCFA
	q.BasePriceFCFA = est.CostDetails.BasePriceFCFA
	q.DiscountAmountFCFA = est.CostDetails.DiscountAmountFCFA
	q.FinalPriceFCFA = est.CostDetails.FinalPriceFCFA
	q.DiscountID = est.CostDetails.DetailsSnapshot.DiscountID
	q.DetailsSnapshot = domain.QuoteDetails{Customization: in.CustomizationDetails, FullEstimate: &est}
	q.UpdatedAt = domain.Timestamp{Time: b.Now()}
	return nil
}

type backendError string

func (e backendError) Error() string { return string(e) }

const errUnknownDimension = backendError("unknown dimension")

func (b *Backend) createQuote(c *fiber.Ctx) error {
	var in domain.QuoteInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Requête invalide.")
	}
	if err := in.Validate(); err != nil {
		return invalid(c, "quote", err.Error())
	}
	u := me(c)
	uid := u.ID
	q := domain.Quote{ID: b.id(), UserID: &uid, Status: in.Status, CreatedAt: domain.Timestamp{Time: b.Now()}}
	if q.Status == "" {
		q.Status = domain.QuoteSent
	}
	q.Reference = "DEV-" + strconv.FormatInt(q.ID, 10)
	if err := b.fillQuote(&q, in); err != nil {
		return invalid(c, "material_dimension_id", "Dimension inconnue.")
	}
	for _, fid := range in.FileIDs {
		if a, ok := b.attachments[fid]; ok {
			a.AttachableType, a.AttachableID = domain.ResourceQuote, q.ID
			q.Attachments = append(q.Attachments, *a)
		}
	}
	b.quotes[q.ID] = &q
	b.log(u, "quote_created", domain.ResourceQuote.ModelClass(), q.ID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Devis enregistré.", "quote": q})
}

func (b *Backend) updateQuote(c *fiber.Ctx) error {
	q, err := b.ownQuote(c)
	if q == nil {
		return err
	}
	if !q.Editable() {
		return fail(c, fiber.StatusForbidden, "Ce devis ne peut plus être modifié.")
	}
	var in domain.QuoteInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Requête invalide.")
	}
	if err := in.Validate(); err != nil {
		return invalid(c, "quote", err.Error())
	}
	if err := b.fillQuote(q, in); err != nil {
		return invalid(c, "material_dimension_id", "Dimension inconnue.")
	}
	if in.Status != "" {
		q.Status = in.Status
	}
	return c.JSON(fiber.Map{"message": "Devis mis à jour.", "quote": q})
}

func (b *Backend) deleteQuote(c *fiber.Ctx) error {
	q, err := b.ownQuote(c)
	if q == nil {
		return err
	}
	if q.Status == domain.QuoteOrdered {
		return fail(c, fiber.StatusConflict, "Ce devis est lié à une commande.")
	}
	delete(b.quotes, q.ID)
	return c.JSON(fiber.Map{"message": "Devis supprimé."})
}

func (b *Backend) convertQuote(c *fiber.Ctx) error {
	q, err := b.ownQuote(c)
	if q == nil {
		return err
	}
	if err := domain.CheckConvertible(*q); err != nil {
		return fail(c, fiber.StatusUnprocessableEntity, "Le devis doit être calculé avant la commande.")
	}
	var in domain.ConvertInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Requête invalide.")
	}
	if err := in.ShippingAddress.Validate(); err != nil {
		return invalid(c, "shipping_address", "Adresse de livraison incomplète.")
	}
	cd := q.ClientDetails
	o := domain.Order{
		ID:                  b.id(),
		QuoteID:             q.ID,
		FinalPriceFCFA:      q.FinalPriceFCFA,
		Quantity:            q.Quantity,
		MaterialID:          q.MaterialID,
		ShapeID:             q.ShapeID,
		MaterialDimensionID: q.MaterialDimensionID,
		ClientDetails:       &cd,
		ShippingAddress:     in.ShippingAddress,
		Status:              domain.OrderPendingPayment,
		CreatedAt:           domain.Timestamp{Time: b.Now()},
	}
	if q.UserID != nil {
		o.UserID = *q.UserID
	}
	o.Reference = "CMD-" + strconv.FormatInt(o.ID, 10)
	b.orders[o.ID] = &o
	q.Status = domain.QuoteOrdered
	q.OrderID = &o.ID
	b.log(me(c), "order_created", domain.ResourceOrder.ModelClass(), o.ID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Commande créée.", "order": o})
}

func (b *Backend) listOrders(c *fiber.Ctx) error {
	u := me(c)
	out := []domain.Order{}
	for _, o := range values(b.orders) {
		if o.UserID == u.ID {
			out = append(out, o)
		}
	}
	slices.Reverse(out)
	return c.JSON(out)
}

func (b *Backend) showOrder(c *fiber.Ctx) error {
	o, ok := b.orders[paramID(c)]
	if !ok {
		return fail(c, fiber.StatusNotFound, "Commande introuvable.")
	}
	u := me(c)
	if !u.Role.Staff() && o.UserID != u.ID {
		return fail(c, fiber.StatusForbidden, "Accès refusé.")
	}
	return c.JSON(fiber.Map{"data": o})
}

// Staff quotes and orders.

func (b *Backend) adminQuotes(c *fiber.Ctx) error {
	out := values(b.quotes)
	slices.Reverse(out)
	return c.JSON(fiber.Map{"data": out})
}

func (b *Backend) priceQuote(c *fiber.Ctx) error {
	q, ok := b.quotes[paramID(c)]
	if !ok {
		return fail(c, fiber.StatusNotFound, "Devis introuvable.")
	}
	var in domain.QuotePricing
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Requête invalide.")
	}
	if err := domain.CheckQuoteTransition(q.Status, in.Status); err != nil {
		return invalid(c, "status", "Transition de statut non autorisée.")
	}
	if in.Status == domain.QuoteCalculated {
		if in.FinalPriceFCFA == nil || !in.FinalPriceFCFA.IsPositive() {
			return invalid(c, "final_price_fcfa", "Le prix final doit être supérieur à zéro.")
		}
		q.FinalPriceFCFA = *in.FinalPriceFCFA
	}
	q.Status = in.Status
	q.AdminNote = in.AdminNote
	q.UpdatedAt = domain.Timestamp{Time: b.Now()}
	b.log(me(c), "quote_"+string(in.Status), domain.ResourceQuote.ModelClass(), q.ID)
	if q.UserID != nil {
		b.notify(*q.UserID, "Devis "+q.Reference, "Votre devis est "+string(q.Status)+".", domain.ResourceQuote, q.ID)
	}
	return c.JSON(fiber.Map{"message": "Devis mis à jour.", "quote": q})
}

func (b *Backend) adminDeleteQuote(c *fiber.Ctx) error {
	if _, ok := b.quotes[paramID(c)]; !ok {
		return fail(c, fiber.StatusNotFound, "Devis introuvable.")
	}
	delete(b.quotes, paramID(c))
	return c.JSON(fiber.Map{"message": "Devis supprimé."})
}

func (b *Backend) adminOrders(c *fiber.Ctx) error {
	out := values(b.orders)
	slices.Reverse(out)
	return c.JSON(out)
}

func (b *Backend) adminOrder(c *fiber.Ctx) error {
	o, ok := b.orders[paramID(c)]
	if !ok {
		return fail(c, fiber.StatusNotFound, "Commande introuvable.")
	}
	return c.JSON(o)
}

func (b *Backend) setOrderStatus(c *fiber.Ctx) error {
	o, ok := b.orders[paramID(c)]
	if !ok {
		return fail(c, fiber.StatusNotFound, "Commande introuvable.")
	}
	var in struct {
		Status domain.OrderStatus `json:"status"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Requête invalide.")
	}
	if err := domain.CheckOrderTransition(o.Status, in.Status); err != nil {
		return invalid(c, "status", "Transition de statut non autorisée.")
	}
	o.Status = in.Status
	now := domain.Timestamp{Time: b.Now()}
	o.UpdatedAt = now
	if in.Status == domain.OrderCompleted {
		o.CompletedAt = &now
	}
	b.log(me(c), "order_"+string(in.Status), domain.ResourceOrder.ModelClass(), o.ID)
	b.notify(o.UserID, "Commande "+o.Reference, "Votre commande est "+string(o.Status)+".", domain.ResourceOrder, o.ID)
	return c.JSON(fiber.Map{"message": "Statut mis à jour.", "order": o})
}

func (b *Backend) adminDeleteOrder(c *fiber.Ctx) error {
	if _, ok := b.orders[paramID(c)]; !ok {
		return fail(c, fiber.StatusNotFound, "Commande introuvable.")
	}
	delete(b.orders, paramID(c))
	return c.JSON(fiber.Map{"message": "Commande supprimée."})
}

func (b *Backend) notify(userID int64, title, msg string, kind domain.ResourceKind, id int64) {
	rid := id
	n := domain.Notification{
		ID:           b.id(),
		UserID:       userID,
		Type:         domain.NotifyInfo,
		Title:        title,
		Message:      msg,
		ResourceID:   &rid,
		ResourceType: kind,
		CreatedAt:    domain.Timestamp{Time: b.Now()},
	}
	b.notifications[n.ID] = &n
}

// Attachments and favorites.

func (b *Backend) uploadAttachment(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return invalid(c, "file", "Le fichier est obligatoire.")
	}
	a := domain.Attachment{
		ID:           b.id(),
		OriginalName: fh.Filename,
		Size:         fh.Size,
		MimeType:     fh.Header.Get("Content-Type"),
		CreatedAt:    domain.Timestamp{Time: b.Now()},
	}
	a.StoredPath = "attachments/" + strconv.FormatInt(a.ID, 10) + "-" + fh.Filename
	if qid, err := strconv.ParseInt(c.FormValue("quote_id"), 10, 64); err == nil && qid > 0 {
		q, ok := b.quotes[qid]
		if !ok {
			return invalid(c, "quote_id", "Devis inconnu.")
		}
		a.AttachableType, a.AttachableID = domain.ResourceQuote, qid
		q.Attachments = append(q.Attachments, a)
	}
	b.attachments[a.ID] = &a
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Fichier envoyé.", "attachment": a})
}

func (b *Backend) deleteAttachment(c *fiber.Ctx) error {
	if _, ok := b.attachments[paramID(c)]; !ok {
		return fail(c, fiber.StatusNotFound, "Fichier introuvable.")
	}
	delete(b.attachments, paramID(c))
	return c.JSON(fiber.Map{"message": "Fichier supprimé."})
}

func (b *Backend) listFavorites(c *fiber.Ctx) error {
	u := me(c)
	out := []domain.Favorite{}
	for _, f := range values(b.favorites) {
		if f.UserID == u.ID {
			out = append(out, f)
		}
	}
	return c.JSON(out)
}

func (b *Backend) addFavorite(c *fiber.Ctx) error {
	var in struct {
		QuoteID int64 `json:"quote_id"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Requête invalide.")
	}
	q, ok := b.quotes[in.QuoteID]
	if !ok {
		return invalid(c, "quote_id", "Devis inconnu.")
	}
	u := me(c)
	for _, f := range b.favorites {
		if f.UserID == u.ID && f.QuoteID == in.QuoteID {
			return fail(c, fiber.StatusConflict, "Déjà dans vos favoris.")
		}
	}
	f := domain.Favorite{ID: b.id(), UserID: u.ID, QuoteID: q.ID, Quote: domain.FavoriteQuote{
		ID: q.ID, Reference: q.Reference, Name: q.DimensionLabel,
	}}
	if q.Material != nil {
		f.Quote.Material = q.Material.Name
	}
	b.favorites[f.ID] = &f
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Ajouté aux favoris.", "favorite": f})
}

func (b *Backend) removeFavorite(c *fiber.Ctx) error {
	f, ok := b.favorites[paramID(c)]
	if !ok || f.UserID != me(c).ID {
		return fail(c, fiber.StatusNotFound, "Favori introuvable.")
	}
	delete(b.favorites, f.ID)
	return c.JSON(fiber.Map{"message": "Retiré des favoris."})
}
