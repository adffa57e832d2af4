package handlers

import (
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/silver1953366/gravure-frontend/internal/apiclient"
	"github.com/silver1953366/gravure-frontend/internal/domain"
	applog "github.com/silver1953366/gravure-frontend/internal/log"
	"github.com/silver1953366/gravure-frontend/internal/services"
	"github.com/silver1953366/gravure-frontend/internal/validate"
)

// AdminHandler serves the admin-only pages. Shared staff pages live in StaffHandler.
type AdminHandler struct {
	guard
	Admin         *services.AdminService
	Quotes        *services.QuoteService
	Orders        *services.OrderService
	Inventory     *services.InventoryService
	Notifications *services.NotificationService
	Catalog       *services.CatalogService
	Dashboards    *services.Dashboards
}

func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	d, err := h.Dashboards.Admin(c.UserContext(), sessionOf(c))
	msg, ok := h.banner(c, err)
	if !ok {
		return h.page(c, err)
	}
	return render(c, "admin/dashboard", fiber.Map{"Stats": d.Stats, "Recent": d.Recent, "Error": msg})
}

func (h *AdminHandler) DeleteQuote(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return NotFound(c)
	}
	if err := h.Quotes.StaffDelete(c.UserContext(), sessionOf(c), id); err != nil {
		return h.action(c, err, "/admin/quotes")
	}
	applog.Audit(c, "admin.quote.deleted", map[string]any{"quote_id": id})
	return c.Redirect("/admin/quotes")
}

func (h *AdminHandler) DeleteOrder(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return NotFound(c)
	}
	if err := h.Orders.StaffDelete(c.UserContext(), sessionOf(c), id); err != nil {
		return h.action(c, err, "/admin/orders")
	}
	applog.Audit(c, "admin.order.deleted", map[string]any{"order_id": id})
	return c.Redirect("/admin/orders")
}

// SaveInventory creates a line when no id is in the path.
func (h *AdminHandler) SaveInventory(c *fiber.Ctx) error {
	id, _ := validate.ID(c.Params("id"))
	f := readForm(c)
	in := domain.InventoryInput{
		StockQuantity:    f.Int("stock_quantity"),
		ReservedQuantity: f.Int("reserved_quantity"),
		MinimumThreshold: f.Int("minimum_threshold"),
		PricePerUnit:     f.Decimal("price_per_unit"),
	}
	if err := f.Err(); err != nil {
		return h.action(c, err, "/admin/inventory")
	}
	in.MaterialDimensionID, _ = validate.ID(c.FormValue("material_dimension_id"))
	it, err := h.Inventory.Save(c.UserContext(), sessionOf(c), id, in)
	if err != nil {
		return h.action(c, err, "/admin/inventory")
	}
	applog.Audit(c, "admin.inventory.saved", map[string]any{"inventory_id": it.ID, "stock": it.StockQuantity})
	flash(c, "Stock enregistré.")
	return c.Redirect("/admin/inventory")
}

func (h *AdminHandler) DeleteInventory(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return NotFound(c)
	}
	if err := h.Inventory.Delete(c.UserContext(), sessionOf(c), id); err != nil {
		return h.action(c, err, "/admin/inventory")
	}
	applog.Audit(c, "admin.inventory.deleted", map[string]any{"inventory_id": id})
	return c.Redirect("/admin/inventory")
}

// Discounts.

func (h *AdminHandler) Discounts(c *fiber.Ctx) error {
	ds, err := h.Admin.Discounts(c.UserContext(), sessionOf(c))
	msg, ok := h.banner(c, err)
	if !ok {
		return h.page(c, err)
	}
	return render(c, "admin/discounts", fiber.Map{"Discounts": ds, "Error": msg})
}

func (h *AdminHandler) SaveDiscount(c *fiber.Ctx) error {
	f := readForm(c)
	d := domain.Discount{
		Name:           strings.TrimSpace(c.FormValue("name")),
		Code:           c.FormValue("code"),
		Type:           domain.DiscountType(c.FormValue("type")),
		Value:          f.Decimal("value"),
		MinOrderAmount: f.OptDecimal("min_order_amount"),
		ExpiresAt:      f.OptDate("expires_at"),
		IsActive:       formBool(c, "is_active"),
	}
	if err := f.Err(); err != nil {
		return h.action(c, err, "/admin/discounts")
	}
	d.ID, _ = validate.ID(c.Params("id"))
	if _, err := h.Admin.SaveDiscount(c.UserContext(), sessionOf(c), d); err != nil {
		return h.action(c, err, "/admin/discounts")
	}
	flash(c, "Remise enregistrée.")
	return c.Redirect("/admin/discounts")
}

func (h *AdminHandler) DeleteDiscount(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return NotFound(c)
	}
	if err := h.Admin.DeleteDiscount(c.UserContext(), sessionOf(c), id); err != nil {
		return h.action(c, err, "/admin/discounts")
	}
	return c.Redirect("/admin/discounts")
}

// Activities and reports.

func (h *AdminHandler) Activities(c *fiber.Ctx) error {
	f := apiclient.ActivityFilter{Page: max(formIntQuery(c, "page"), 1), Action: c.Query("action")}
	f.UserID, _ = validate.ID(c.Query("user_id"))
	p, err := h.Admin.Activities(c.UserContext(), sessionOf(c), f)
	msg, ok := h.banner(c, err)
	if !ok {
		return h.page(c, err)
	}
	return render(c, "admin/activities", fiber.Map{"Page": p, "Filter": f, "Error": msg})
}

func formIntQuery(c *fiber.Ctx, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}

func (h *AdminHandler) Activity(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return NotFound(c)
	}
	a, err := h.Admin.Activity(c.UserContext(), sessionOf(c), id)
	if err != nil {
		return h.page(c, err)
	}
	return render(c, "admin/activity", fiber.Map{"Activity": a, "Snapshot": string(a.DataSnapshot)})
}

func (h *AdminHandler) Reports(c *fiber.Ctx) error {
	start, end := c.Query("start_date"), c.Query("end_date")
	r, err := h.Admin.Revenue(c.UserContext(), sessionOf(c), start, end)
	data := fiber.Map{"Report": r, "Start": start, "End": end}
	if err != nil {
		if !local(err) {
			msg, ok := h.banner(c, err)
			if !ok {
				return h.page(c, err)
			}
			data["Error"] = msg
		} else {
			data["Err"], data["Fields"] = message(err), fieldErrors(err)
		}
	}
	return render(c, "admin/reports", data)
}

// Export streams the backend's report file back to the browser.
func (h *AdminHandler) Export(c *fiber.Ctx) error {
	format := apiclient.ExportFormat(c.Query("format", string(apiclient.ExportCSV)))
	exp, err := h.Admin.Export(c.UserContext(), sessionOf(c), format)
	if err != nil {
		return h.action(c, err, "/admin/reports")
	}
	applog.Audit(c, "admin.report.exported", map[string]any{"format": string(format), "bytes": len(exp.Body)})
	c.Set(fiber.HeaderContentType, exp.ContentType)
	c.Attachment(exp.Filename)
	return c.Send(exp.Body)
}

// Notifications.

func (h *AdminHandler) NotificationList(c *fiber.Ctx) error {
	ctx, sess := c.UserContext(), sessionOf(c)
	ns, err := h.Notifications.All(ctx, sess)
	msg, ok := h.banner(c, err)
	if !ok {
		return h.page(c, err)
	}
	users, uerr := h.Admin.Users(ctx, sess)
	if uerr != nil && msg == "" {
		msg, _ = h.banner(c, uerr)
	}
	return render(c, "admin/notifications", fiber.Map{"Notifications": ns, "Users": users, "Error": msg})
}

func (h *AdminHandler) SendNotification(c *fiber.Ctx) error {
	n := domain.ManualNotification{
		Type:    domain.NotificationType(c.FormValue("type", string(domain.NotifyInfo))),
		Title:   strings.TrimSpace(c.FormValue("title")),
		Message: strings.TrimSpace(c.FormValue("message")),
		Link:    strings.TrimSpace(c.FormValue("link")),
	}
	for _, raw := range strings.Split(c.FormValue("user_ids"), ",") {
		if id, ok := validate.ID(strings.TrimSpace(raw)); ok {
			n.UserIDs = append(n.UserIDs, id)
		}
	}
	if kind, err := domain.ParseResourceKind(c.FormValue("resource_type")); err == nil && kind != domain.ResourceNone {
		if id, ok := validate.ID(c.FormValue("resource_id")); ok {
			n.ResourceType, n.ResourceID = kind, &id
		}
	}
	if err := h.Notifications.Send(c.UserContext(), sessionOf(c), n); err != nil {
		return h.action(c, err, "/admin/notifications")
	}
	applog.Audit(c, "admin.notification.sent", map[string]any{"recipients": len(n.UserIDs)})
	flash(c, "Notification envoyée.")
	return c.Redirect("/admin/notifications")
}

func (h *AdminHandler) DeleteNotification(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return NotFound(c)
	}
	if err := h.Notifications.AdminDelete(c.UserContext(), sessionOf(c), id); err != nil {
		return h.action(c, err, "/admin/notifications")
	}
	return c.Redirect("/admin/notifications")
}

// Carousel.

// uploadedImage returns the optional "image" file. The caller closes the returned closer.
func uploadedImage(c *fiber.Ctx) (*apiclient.File, io.Closer, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, io.NopCloser(nil), nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, io.NopCloser(nil), err
	}
	return &apiclient.File{
		Field:       "image",
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Content:     f,
	}, f, nil
}

func (h *AdminHandler) Carousel(c *fiber.Ctx) error {
	slides, err := h.Admin.Slides(c.UserContext(), sessionOf(c))
	msg, ok := h.banner(c, err)
	if !ok {
		return h.page(c, err)
	}
	return render(c, "admin/carousel", fiber.Map{"Slides": slides, "Error": msg})
}

func (h *AdminHandler) SaveSlide(c *fiber.Ctx) error {
	id, _ := validate.ID(c.Params("id"))
	img, closer, err := uploadedImage(c)
	if err != nil {
		return h.action(c, err, "/admin/carousel")
	}
	defer closer.Close()
	f := readForm(c)
	in := apiclient.SlideInput{
		Title:        strings.TrimSpace(c.FormValue("title")),
		Subtitle:     strings.TrimSpace(c.FormValue("subtitle")),
		Link:         strings.TrimSpace(c.FormValue("link")),
		Order:        f.Int("order"),
		Height:       f.Int("height"),
		CategoryName: strings.TrimSpace(c.FormValue("category_name")),
		IsActive:     formBool(c, "is_active"),
		Image:        img,
	}
	if err := f.Err(); err != nil {
		return h.action(c, err, "/admin/carousel")
	}
	if _, err := h.Admin.SaveSlide(c.UserContext(), sessionOf(c), id, in); err != nil {
		return h.action(c, err, "/admin/carousel")
	}
	flash(c, "Diapositive enregistrée.")
	return c.Redirect("/admin/carousel")
}

func (h *AdminHandler) DeleteSlide(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return NotFound(c)
	}
	if err := h.Admin.DeleteSlide(c.UserContext(), sessionOf(c), id); err != nil {
		return h.action(c, err, "/admin/carousel")
	}
	return c.Redirect("/admin/carousel")
}

func (h *AdminHandler) Users(c *fiber.Ctx) error {
	users, err := h.Admin.Users(c.UserContext(), sessionOf(c))
	msg, ok := h.banner(c, err)
	if !ok {
		return h.page(c, err)
	}
	return render(c, "admin/users", fiber.Map{"Users": users, "Error": msg})
}

// Catalog.

const catalogAdminPath = "/admin/catalog"

func (h *AdminHandler) CatalogPage(c *fiber.Ctx) error {
	ctx, sess := c.UserContext(), sessionOf(c)
	dims, err := h.Admin.Dimensions(ctx, sess)
	msg, ok := h.banner(c, err)
	if !ok {
		return h.page(c, err)
	}
	cats, cerr := h.Catalog.Categories(ctx)
	mats, merr := h.Catalog.Materials(ctx)
	shapes, serr := h.Catalog.Shapes(ctx)
	if e := firstErr(cerr, merr, serr); e != nil && msg == "" {
		msg, _ = h.banner(c, e)
	}
	return render(c, "admin/catalog", fiber.Map{
		"Categories": cats,
		"Materials":  mats,
		"Shapes":     shapes,
		"Dimensions": dims,
		"Error":      msg,
	})
}

func catalogItem(c *fiber.Ctx, img *apiclient.File) apiclient.CatalogItemInput {
	in := apiclient.CatalogItemInput{
		Name:        strings.TrimSpace(c.FormValue("name")),
		Description: strings.TrimSpace(c.FormValue("description")),
		Color:       strings.TrimSpace(c.FormValue("color")),
		IsActive:    formBool(c, "is_active"),
		Image:       img,
	}
	in.CategoryID, _ = validate.ID(c.FormValue("category_id"))
	return in
}

func (h *AdminHandler) SaveMaterial(c *fiber.Ctx) error {
	id, _ := validate.ID(c.Params("id"))
	img, closer, err := uploadedImage(c)
	if err != nil {
		return h.action(c, err, catalogAdminPath)
	}
	defer closer.Close()
	if _, err := h.Admin.SaveMaterial(c.UserContext(), sessionOf(c), id, catalogItem(c, img)); err != nil {
		return h.action(c, err, catalogAdminPath)
	}
	flash(c, "Matériau enregistré.")
	return c.Redirect(catalogAdminPath)
}

func (h *AdminHandler) DeleteMaterial(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return NotFound(c)
	}
	if err := h.Admin.DeleteMaterial(c.UserContext(), sessionOf(c), id); err != nil {
		return h.action(c, err, catalogAdminPath)
	}
	return c.Redirect(catalogAdminPath)
}

func (h *AdminHandler) SaveShape(c *fiber.Ctx) error {
	id, _ := validate.ID(c.Params("id"))
	img, closer, err := uploadedImage(c)
	if err != nil {
		return h.action(c, err, catalogAdminPath)
	}
	defer closer.Close()
	if _, err := h.Admin.SaveShape(c.UserContext(), sessionOf(c), id, catalogItem(c, img)); err != nil {
		return h.action(c, err, catalogAdminPath)
	}
	flash(c, "Forme enregistrée.")
	return c.Redirect(catalogAdminPath)
}

func (h *AdminHandler) DeleteShape(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return NotFound(c)
	}
	if err := h.Admin.DeleteShape(c.UserContext(), sessionOf(c), id); err != nil {
		return h.action(c, err, catalogAdminPath)
	}
	return c.Redirect(catalogAdminPath)
}

func (h *AdminHandler) SaveCategory(c *fiber.Ctx) error {
	cat := domain.Category{
		Name:        c.FormValue("name"),
		Slug:        strings.TrimSpace(c.FormValue("slug")),
		Description: strings.TrimSpace(c.FormValue("description")),
	}
	cat.ID, _ = validate.ID(c.Params("id"))
	if _, err := h.Admin.SaveCategory(c.UserContext(), sessionOf(c), cat); err != nil {
		return h.action(c, err, catalogAdminPath)
	}
	flash(c, "Catégorie enregistrée.")
	return c.Redirect(catalogAdminPath)
}

func (h *AdminHandler) DeleteCategory(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return NotFound(c)
	}
	if err := h.Admin.DeleteCategory(c.UserContext(), sessionOf(c), id); err != nil {
		return h.action(c, err, catalogAdminPath)
	}
	return c.Redirect(catalogAdminPath)
}

func dimensionForm(c *fiber.Ctx) (domain.MaterialDimension, error) {
	f := readForm(c)
	d := domain.MaterialDimension{
		DimensionLabel: strings.TrimSpace(c.FormValue("dimension_label")),
		UnitPriceFCFA:  f.Decimal("unit_price_fcfa"),
		IsActive:       formBool(c, "is_active"),
	}
	d.ID, _ = validate.ID(c.Params("id"))
	d.MaterialID, _ = validate.ID(c.FormValue("material_id"))
	d.ShapeID, _ = validate.ID(c.FormValue("shape_id"))
	d.CategoryID, _ = validate.ID(c.FormValue("category_id"))
	return d, f.Err()
}

func (h *AdminHandler) SaveDimension(c *fiber.Ctx) error {
	d, err := dimensionForm(c)
	if err != nil {
		return h.action(c, err, catalogAdminPath)
	}
	if _, err := h.Admin.SaveDimension(c.UserContext(), sessionOf(c), d); err != nil {
		return h.action(c, err, catalogAdminPath)
	}
	flash(c, "Dimension enregistrée.")
	return c.Redirect(catalogAdminPath)
}

// DeleteDimension expects material_id and shape_id as hidden fields so the cached
// dimension list for that pair is dropped.
func (h *AdminHandler) DeleteDimension(c *fiber.Ctx) error {
	d, _ := dimensionForm(c)
	if d.ID == 0 {
		return NotFound(c)
	}
	if err := h.Admin.DeleteDimension(c.UserContext(), sessionOf(c), d); err != nil {
		return h.action(c, err, catalogAdminPath)
	}
	return c.Redirect(catalogAdminPath)
}
