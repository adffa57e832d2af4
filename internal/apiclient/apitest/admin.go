package apitest

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/silver1953366/gravure-frontend/internal/domain"
)

const perPage = 10

// Notifications.

func (b *Backend) listNotifications(c *fiber.Ctx) error {
	u := me(c)
	mine := []domain.Notification{}
	all := values(b.notifications)
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].UserID == u.ID {
			mine = append(mine, all[i])
		}
	}
	return c.JSON(paginate(mine, c.QueryInt("page", 1), perPage))
}

func (b *Backend) unreadCount(c *fiber.Ctx) error {
	u := me(c)
	n := 0
	for _, x := range b.notifications {
		if x.UserID == u.ID && !x.IsRead {
			n++
		}
	}
	return c.JSON(fiber.Map{"unread_count": n})
}

func (b *Backend) markRead(c *fiber.Ctx) error {
	n, ok := b.notifications[paramID(c)]
	if !ok || n.UserID != me(c).ID {
		return fail(c, fiber.StatusNotFound, "Notification introuvable.")
	}
	n.IsRead = true
	return c.JSON(fiber.Map{"message": "Notification lue."})
}

func (b *Backend) markAllRead(c *fiber.Ctx) error {
	u := me(c)
	for _, n := range b.notifications {
		if n.UserID == u.ID {
			n.IsRead = true
		}
	}
	return c.JSON(fiber.Map{"message": "Toutes les notifications sont lues."})
}

func (b *Backend) deleteNotification(c *fiber.Ctx) error {
	n, ok := b.notifications[paramID(c)]
	if !ok || n.UserID != me(c).ID {
		return fail(c, fiber.StatusNotFound, "Notification introuvable.")
	}
	delete(b.notifications, n.ID)
	return c.JSON(fiber.Map{"message": "Notification supprimée."})
}

func (b *Backend) allNotifications(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": values(b.notifications)})
}

func (b *Backend) sendNotification(c *fiber.Ctx) error {
	var in domain.ManualNotification
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Requête invalide.")
	}
	if err := in.Validate(); err != nil {
		return invalid(c, "user_ids", err.Error())
	}
	for _, uid := range in.UserIDs {
		if _, ok := b.users[uid]; !ok {
			return invalid(c, "user_ids", "Destinataire inconnu.")
		}
	}
	for _, uid := range in.UserIDs {
		n := domain.Notification{
			ID: b.id(), UserID: uid, Type: in.Type, Title: in.Title, Message: in.Message,
			Link: in.Link, ResourceID: in.ResourceID, ResourceType: in.ResourceType,
			CreatedAt: domain.Timestamp{Time: b.Now()},
		}
		b.notifications[n.ID] = &n
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Notification envoyée."})
}

func (b *Backend) adminDeleteNotification(c *fiber.Ctx) error {
	if _, ok := b.notifications[paramID(c)]; !ok {
		return fail(c, fiber.StatusNotFound, "Notification introuvable.")
	}
	delete(b.notifications, paramID(c))
	return c.JSON(fiber.Map{"message": "Notification supprimée."})
}

// Users.

func (b *Backend) allUsers(c *fiber.Ctx) error {
	out := []domain.User{}
	for _, acc := range values(b.users) {
		out = append(out, acc.user)
	}
	return c.JSON(fiber.Map{"data": out})
}

func (b *Backend) listClients(c *fiber.Ctx) error {
	out := []domain.User{}
	for _, acc := range values(b.users) {
		if acc.user.Role == domain.RoleClient {
			out = append(out, acc.user)
		}
	}
	return c.JSON(out)
}

// Carousel.

func (b *Backend) saveSlide(c *fiber.Ctx) error {
	id := paramID(c)
	if id > 0 && c.FormValue("_method") != fiber.MethodPut {
		return fail(c, fiber.StatusMethodNotAllowed, "Method not allowed.")
	}
	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return invalid(c, "title", "Le titre est obligatoire.")
	}
	s := domain.CarouselSlide{ID: id}
	idx := -1
	if id > 0 {
		for i := range b.Slides {
			if b.Slides[i].ID == id {
				s, idx = b.Slides[i], i
			}
		}
		if idx < 0 {
			return fail(c, fiber.StatusNotFound, "Diapositive introuvable.")
		}
	} else {
		s.ID = b.id()
	}
	s.Title = title
	s.Subtitle = c.FormValue("subtitle")
	s.Link = c.FormValue("link")
	s.Order, _ = strconv.Atoi(c.FormValue("order"))
	s.Height, _ = strconv.Atoi(c.FormValue("height"))
	s.CategoryName = c.FormValue("category_name")
	s.IsActive = c.FormValue("is_active") == "1"
	if fh, err := c.FormFile("image"); err == nil {
		s.ImageURL = "carousel/" + fh.Filename
		s.FullImageURL = "/storage/" + s.ImageURL
	}
	if idx >= 0 {
		b.Slides[idx] = s
		return c.JSON(fiber.Map{"message": "Diapositive mise à jour.", "slide": s})
	}
	b.Slides = append(b.Slides, s)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Diapositive créée.", "slide": s})
}

func (b *Backend) deleteSlide(c *fiber.Ctx) error {
	id := paramID(c)
	for i, s := range b.Slides {
		if s.ID == id {
			b.Slides = append(b.Slides[:i], b.Slides[i+1:]...)
			return c.JSON(fiber.Map{"message": "Diapositive supprimée."})
		}
	}
	return fail(c, fiber.StatusNotFound, "Diapositive introuvable.")
}

// Discounts.

func (b *Backend) listDiscounts(c *fiber.Ctx) error {
	return c.JSON(values(b.discounts))
}

func (b *Backend) saveDiscount(c *fiber.Ctx) error {
	var in domain.Discount
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Requête invalide.")
	}
	if !in.Type.Valid() {
		return invalid(c, "type", "Type de remise invalide.")
	}
	if in.Type == domain.DiscountPercentage && in.Value.GreaterThan(decimal.NewFromInt(100)) {
		return invalid(c, "value", "Le pourcentage ne peut dépasser 100.")
	}
	for _, d := range b.discounts {
		if d.Code == in.Code && d.ID != paramID(c) {
			return invalid(c, "code", "Ce code existe déjà.")
		}
	}
	if id := paramID(c); id > 0 {
		if _, ok := b.discounts[id]; !ok {
			return fail(c, fiber.StatusNotFound, "Remise introuvable.")
		}
		in.ID = id
		b.discounts[id] = &in
		return c.JSON(fiber.Map{"message": "Remise mise à jour.", "discount": in})
	}
	in.ID = b.id()
	b.discounts[in.ID] = &in
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Remise créée.", "discount": in})
}

func (b *Backend) deleteDiscount(c *fiber.Ctx) error {
	if _, ok := b.discounts[paramID(c)]; !ok {
		return fail(c, fiber.StatusNotFound, "Remise introuvable.")
	}
	delete(b.discounts, paramID(c))
	return c.JSON(fiber.Map{"message": "Remise supprimée."})
}

// Inventory.

func (b *Backend) listInventory(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": values(b.inventory)})
}

func (b *Backend) showInventory(c *fiber.Ctx) error {
	it, ok := b.inventory[paramID(c)]
	if !ok {
		return fail(c, fiber.StatusNotFound, "Stock introuvable.")
	}
	return c.JSON(it)
}

func (b *Backend) saveInventory(c *fiber.Ctx) error {
	var in domain.InventoryInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Requête invalide.")
	}
	if err := in.Validate(); err != nil {
		return invalid(c, "stock_quantity", err.Error())
	}
	it := domain.InventoryItem{
		ID:                  paramID(c),
		MaterialDimensionID: in.MaterialDimensionID,
		StockQuantity:       in.StockQuantity,
		ReservedQuantity:    in.ReservedQuantity,
		MinimumThreshold:    in.MinimumThreshold,
		PricePerUnit:        in.PricePerUnit,
	}
	status := fiber.StatusOK
	if it.ID == 0 {
		it.ID = b.id()
		status = fiber.StatusCreated
	} else if _, ok := b.inventory[it.ID]; !ok {
		return fail(c, fiber.StatusNotFound, "Stock introuvable.")
	}
	b.inventory[it.ID] = &it
	b.log(me(c), "inventory_saved", `App\Models\Inventory`, it.ID)
	return c.Status(status).JSON(fiber.Map{"message": "Stock enregistré.", "inventory": it})
}

func (b *Backend) deleteInventory(c *fiber.Ctx) error {
	if _, ok := b.inventory[paramID(c)]; !ok {
		return fail(c, fiber.StatusNotFound, "Stock introuvable.")
	}
	delete(b.inventory, paramID(c))
	return c.JSON(fiber.Map{"message": "Stock supprimé."})
}

// Activities and reports.

func (b *Backend) listActivities(c *fiber.Ctx) error {
	uid := int64(c.QueryInt("user_id"))
	action := c.Query("action")
	out := []domain.Activity{}
	for i := len(b.activities) - 1; i >= 0; i-- {
		a := b.activities[i]
		if (uid == 0 || a.UserID == uid) && (action == "" || a.Action == action) {
			out = append(out, a)
		}
	}
	return c.JSON(paginate(out, c.QueryInt("page", 1), perPage))
}

func (b *Backend) showActivity(c *fiber.Ctx) error {
	id := paramID(c)
	for _, a := range b.activities {
		if a.ID == id {
			return c.JSON(a)
		}
	}
	return fail(c, fiber.StatusNotFound, "Activité introuvable.")
}

func (b *Backend) revenue(c *fiber.Ctx) error {
	from, _ := domain.ParseTimestamp(c.Query("start_date"))
	to, _ := domain.ParseTimestamp(c.Query("end_date"))
	var r domain.RevenueReport
	r.Summary.TotalRevenueFCFA = decimal.Zero
	r.Summary.AverageOrderValueFCFA = decimal.Zero
	r.MonthlyBreakdown = []domain.MonthlyRevenue{}
	months := map[string]int{}
	for _, o := range values(b.orders) {
		if o.Status != domain.OrderCompleted {
			continue
		}
		at := o.CreatedAt.Time
		if (!from.IsZero() && at.Before(from.Time)) || (!to.IsZero() && at.After(to.AddDate(0, 0, 1))) {
			continue
		}
		r.Summary.TotalRevenueFCFA = r.Summary.TotalRevenueFCFA.Add(o.FinalPriceFCFA)
		r.Summary.TotalCompletedOrders++
		m := at.Format("2006-01")
		i, ok := months[m]
		if !ok {
			i = len(r.MonthlyBreakdown)
			months[m] = i
			r.MonthlyBreakdown = append(r.MonthlyBreakdown, domain.MonthlyRevenue{Month: m, Revenue: decimal.Zero})
		}
		r.MonthlyBreakdown[i].Revenue = r.MonthlyBreakdown[i].Revenue.Add(o.FinalPriceFCFA)
	}
	if n := r.Summary.TotalCompletedOrders; n > 0 {
		r.Summary.AverageOrderValueFCFA = r.Summary.TotalRevenueFCFA.Div(decimal.NewFromInt(int64(n))).Round(0)
	}
	return c.JSON(r)
}

func (b *Backend) export(c *fiber.Ctx) error {
	switch c.Query("format") {
	case "csv":
		var sb strings.Builder
		sb.WriteString("reference,status,final_price_fcfa\n")
		for _, o := range values(b.orders) {
			sb.WriteString(o.Reference + "," + string(o.Status) + "," + o.FinalPriceFCFA.String() + "\n")
		}
		c.Set(fiber.HeaderContentType, "text/csv")
		return c.SendString(sb.String())
	case "pdf":
		c.Set(fiber.HeaderContentType, "application/pdf")
		return c.Send([]byte("%PDF-1.4\n% rapport\n"))
	}
	return invalid(c, "format", "Format inconnu.")
}

func (b *Backend) dashboardStats(c *fiber.Ctx) error {
	var s domain.DashboardStats
	s.TotalRevenue = decimal.Zero
	for _, q := range b.quotes {
		if q.Status == domain.QuoteSent || q.Status == domain.QuoteCalculated {
			s.ActiveQuotes++
		}
	}
	for _, o := range b.orders {
		switch o.Status {
		case domain.OrderPendingPayment, domain.OrderPaid, domain.OrderProcessing:
			s.PendingOrders++
		case domain.OrderCompleted:
			s.TotalRevenue = s.TotalRevenue.Add(o.FinalPriceFCFA)
		}
	}
	s.InventoryAlerts = domain.LowStockCount(values(b.inventory))
	return c.JSON(s)
}

// Catalog administration.

func (b *Backend) saveMaterial(c *fiber.Ctx) error {
	id := paramID(c)
	if id > 0 && c.FormValue("_method") != fiber.MethodPut {
		return fail(c, fiber.StatusMethodNotAllowed, "Method not allowed.")
	}
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return invalid(c, "name", "Le nom est obligatoire.")
	}
	m := domain.Material{ID: id, Name: name, Slug: strings.ToLower(name), Description: c.FormValue("description"),
		Color: c.FormValue("color"), IsActive: c.FormValue("is_active") == "1"}
	if cid, err := strconv.ParseInt(c.FormValue("category_id"), 10, 64); err == nil {
		m.CategoryID = &cid
	}
	if fh, err := c.FormFile("image"); err == nil {
		m.ImageURL = "materials/" + fh.Filename
	}
	if id == 0 {
		m.ID = b.id()
		b.Materials = append(b.Materials, m)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Matériau créé.", "material": m})
	}
	for i := range b.Materials {
		if b.Materials[i].ID == id {
			b.Materials[i] = m
			return c.JSON(fiber.Map{"message": "Matériau mis à jour.", "material": m})
		}
	}
	return fail(c, fiber.StatusNotFound, "Matériau introuvable.")
}

func (b *Backend) deleteMaterial(c *fiber.Ctx) error {
	id := paramID(c)
	for _, d := range b.Dimensions {
		if d.MaterialID == id {
			return fail(c, fiber.StatusConflict, "Ce matériau est utilisé par des dimensions.")
		}
	}
	for i, m := range b.Materials {
		if m.ID == id {
			b.Materials = append(b.Materials[:i], b.Materials[i+1:]...)
			return c.JSON(fiber.Map{"message": "Matériau supprimé."})
		}
	}
	return fail(c, fiber.StatusNotFound, "Matériau introuvable.")
}

func (b *Backend) saveShape(c *fiber.Ctx) error {
	id := paramID(c)
	if id > 0 && c.FormValue("_method") != fiber.MethodPut {
		return fail(c, fiber.StatusMethodNotAllowed, "Method not allowed.")
	}
	name := strings.TrimSpace(c.FormValue("name"))
	if name == "" {
		return invalid(c, "name", "Le nom est obligatoire.")
	}
	s := domain.Shape{ID: id, Name: name, Slug: strings.ToLower(name), Description: c.FormValue("description"),
		IsActive: c.FormValue("is_active") == "1"}
	if id == 0 {
		s.ID = b.id()
		b.Shapes = append(b.Shapes, s)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Forme créée.", "shape": s})
	}
	for i := range b.Shapes {
		if b.Shapes[i].ID == id {
			b.Shapes[i] = s
			return c.JSON(fiber.Map{"message": "Forme mise à jour.", "shape": s})
		}
	}
	return fail(c, fiber.StatusNotFound, "Forme introuvable.")
}

func (b *Backend) deleteShape(c *fiber.Ctx) error {
	id := paramID(c)
	for _, d := range b.Dimensions {
		if d.ShapeID == id {
			return fail(c, fiber.StatusConflict, "Cette forme est utilisée par des dimensions.")
		}
	}
	for i, s := range b.Shapes {
		if s.ID == id {
			b.Shapes = append(b.Shapes[:i], b.Shapes[i+1:]...)
			return c.JSON(fiber.Map{"message": "Forme supprimée."})
		}
	}
	return fail(c, fiber.StatusNotFound, "Forme introuvable.")
}

func (b *Backend) saveCategory(c *fiber.Ctx) error {
	var in domain.Category
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Requête invalide.")
	}
	if strings.TrimSpace(in.Name) == "" {
		return invalid(c, "name", "Le nom est obligatoire.")
	}
	id := paramID(c)
	if id == 0 {
		in.ID = b.id()
		b.Categories = append(b.Categories, in)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Catégorie créée.", "category": in})
	}
	for i := range b.Categories {
		if b.Categories[i].ID == id {
			in.ID = id
			b.Categories[i] = in
			return c.JSON(fiber.Map{"message": "Catégorie mise à jour.", "category": in})
		}
	}
	return fail(c, fiber.StatusNotFound, "Catégorie introuvable.")
}

func (b *Backend) deleteCategory(c *fiber.Ctx) error {
	id := paramID(c)
	for i, cat := range b.Categories {
		if cat.ID == id {
			b.Categories = append(b.Categories[:i], b.Categories[i+1:]...)
			return c.JSON(fiber.Map{"message": "Catégorie supprimée."})
		}
	}
	return fail(c, fiber.StatusNotFound, "Catégorie introuvable.")
}

func (b *Backend) saveDimension(c *fiber.Ctx) error {
	var in domain.MaterialDimension
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Requête invalide.")
	}
	if !in.UnitPriceFCFA.IsPositive() {
		return invalid(c, "unit_price_fcfa", "Le prix unitaire doit être positif.")
	}
	id := paramID(c)
	if id == 0 {
		in.ID = b.id()
		b.Dimensions = append(b.Dimensions, in)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Dimension créée.", "material_dimension": in})
	}
	for i := range b.Dimensions {
		if b.Dimensions[i].ID == id {
			in.ID = id
			b.Dimensions[i] = in
			return c.JSON(fiber.Map{"message": "Dimension mise à jour.", "material_dimension": in})
		}
	}
	return fail(c, fiber.StatusNotFound, "Dimension introuvable.")
}

func (b *Backend) deleteDimension(c *fiber.Ctx) error {
	id := paramID(c)
	for i, d := range b.Dimensions {
		if d.ID == id {
			b.Dimensions = append(b.Dimensions[:i], b.Dimensions[i+1:]...)
			return c.JSON(fiber.Map{"message": "Dimension supprimée."})
		}
	}
	return fail(c, fiber.StatusNotFound, "Dimension introuvable.")
}
