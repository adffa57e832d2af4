package apitest

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/silver1953366/gravure-frontend/internal/apiclient"
	"github.com/silver1953366/gravure-frontend/internal/domain"
)

func (b *Backend) routes(app *fiber.App) {
	app.Use(b.record)

	app.Post("/login", b.login)
	app.Post("/register", b.register)
	app.Post("/logout", b.requireAuth, b.logout)
	app.Get("/user", b.requireAuth, b.me)
	app.Put("/profile", b.requireAuth, b.updateProfile)

	app.Get("/catalog/categories", func(c *fiber.Ctx) error { return c.JSON(b.Categories) })
	app.Get("/catalog/materials", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"data": b.Materials}) })
	app.Get("/catalog/shapes", func(c *fiber.Ctx) error { return c.JSON(b.Shapes) })
	app.Get("/catalog/dimensions", b.dimensions)
	app.Post("/catalog/quotes/estimate", b.estimate)
	app.Get("/carousel", b.carousel)

	app.Get("/cart", b.getCart)
	app.Post("/cart", b.addToCart)
	app.Put("/cart/item/:id", b.updateCartItem)
	app.Delete("/cart/item/:id", b.removeCartItem)
	app.Post("/cart/convert-to-quote", b.requireAuth, b.convertCart)

	app.Get("/quotes", b.requireAuth, b.listQuotes)
	app.Post("/quotes", b.requireAuth, b.createQuote)
	app.Get("/quotes/:id", b.requireAuth, b.showQuote)
	app.Put("/quotes/:id", b.requireAuth, b.updateQuote)
	app.Delete("/quotes/:id", b.requireAuth, b.deleteQuote)

	app.Post("/orders/convert/:id", b.requireAuth, b.convertQuote)
	app.Get("/orders", b.requireAuth, b.listOrders)
	app.Get("/orders/:id", b.requireAuth, b.showOrder)

	app.Post("/attachments", b.requireAuth, b.uploadAttachment)
	app.Delete("/attachments/:id", b.requireAuth, b.deleteAttachment)

	app.Get("/favorites", b.requireAuth, b.listFavorites)
	app.Post("/favorites", b.requireAuth, b.addFavorite)
	app.Delete("/favorites/:id", b.requireAuth, b.removeFavorite)

	app.Get("/notifications", b.requireAuth, b.listNotifications)
	app.Get("/notifications/unread-count", b.requireAuth, b.unreadCount)
	app.Patch("/notifications/:id/read", b.requireAuth, b.markRead)
	app.Post("/notifications/read-all", b.requireAuth, b.markAllRead)
	app.Delete("/notifications/:id", b.requireAuth, b.deleteNotification)

	app.Get("/inventory", b.requireAuth, b.listInventory)
	app.Get("/inventory/:id", b.requireAuth, b.showInventory)
	app.Get("/users", b.requireAuth, b.requireStaff, b.listClients)

	staff := app.Group("/admin", b.requireAuth, b.requireStaff)
	staff.Get("/quotes", b.adminQuotes)
	staff.Put("/quotes/:id", b.priceQuote)
	staff.Delete("/quotes/:id", b.requireAdmin, b.adminDeleteQuote)
	staff.Get("/admin-orders", b.adminOrders)
	staff.Get("/admin-orders/:id", b.adminOrder)
	staff.Put("/admin-orders/:id", b.setOrderStatus)
	staff.Delete("/admin-orders/:id", b.requireAdmin, b.adminDeleteOrder)
	staff.Get("/notifications/all", b.allNotifications)
	staff.Post("/notifications/send-manual", b.sendNotification)
	staff.Delete("/notifications/:id", b.adminDeleteNotification)
	staff.Get("/dashboard/stats", b.dashboardStats)

	admin := app.Group("/admin", b.requireAdmin)
	admin.Get("/users/all", b.allUsers)
	admin.Get("/carousel/all", func(c *fiber.Ctx) error { return c.JSON(b.Slides) })
	admin.Post("/carousel", b.saveSlide)
	admin.Post("/carousel/:id", b.saveSlide)
	admin.Delete("/carousel/:id", b.deleteSlide)
	admin.Get("/discounts", b.listDiscounts)
	admin.Post("/discounts", b.saveDiscount)
	admin.Patch("/discounts/:id", b.saveDiscount)
	admin.Delete("/discounts/:id", b.deleteDiscount)
	admin.Post("/inventory", b.saveInventory)
	admin.Put("/inventory/:id", b.saveInventory)
	admin.Delete("/inventory/:id", b.deleteInventory)
	admin.Get("/activities", b.listActivities)
	admin.Get("/activities/:id", b.showActivity)
	admin.Get("/reports/revenue", b.revenue)
	admin.Get("/reports/export", b.export)
	admin.Post("/materials", b.saveMaterial)
	admin.Post("/materials/:id", b.saveMaterial)
	admin.Delete("/materials/:id", b.deleteMaterial)
	admin.Post("/shapes", b.saveShape)
	admin.Post("/shapes/:id", b.saveShape)
	admin.Delete("/shapes/:id", b.deleteShape)
	admin.Post("/categories", b.saveCategory)
	admin.Put("/categories/:id", b.saveCategory)
	admin.Delete("/categories/:id", b.deleteCategory)
	admin.Get("/material-dimensions", func(c *fiber.Ctx) error { return c.JSON(b.Dimensions) })
	admin.Post("/material-dimensions", b.saveDimension)
	admin.Patch("/material-dimensions/:id", b.saveDimension)
	admin.Delete("/material-dimensions/:id", b.deleteDimension)
}

// record counts the request, applies forced failures and the catalog delay, then runs
// the handler chain with the backend lock held.
func (b *Backend) record(c *fiber.Ctx) error {
	key := c.Method() + " " + c.Path()
	b.mu.Lock()
	b.hits[key]++
	b.headers[key] = append(b.headers[key], SeenHeaders{
		Authorization: c.Get(fiber.HeaderAuthorization),
		SessionToken:  c.Get(apiclient.HeaderSessionToken),
	})
	status, failing := b.failures[key]
	delay := b.Delay
	b.mu.Unlock()

	if delay > 0 && strings.HasPrefix(c.Path(), "/catalog/") {
		time.Sleep(delay)
	}
	if failing {
		return fail(c, status, "forced failure")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return c.Next()
}

func (b *Backend) requireAuth(c *fiber.Ctx) error {
	u, ok := b.caller(c)
	if !ok {
		return fail(c, fiber.StatusUnauthorized, "Unauthenticated.")
	}
	c.Locals("user", u)
	return c.Next()
}

func (b *Backend) requireStaff(c *fiber.Ctx) error {
	if !me(c).Role.Staff() {
		return fail(c, fiber.StatusForbidden, "Accès refusé.")
	}
	return c.Next()
}

func (b *Backend) requireAdmin(c *fiber.Ctx) error {
	if me(c).ID == 0 {
		u, ok := b.caller(c)
		if !ok {
			return fail(c, fiber.StatusUnauthorized, "Unauthenticated.")
		}
		c.Locals("user", u)
	}
	if me(c).Role != domain.RoleAdmin {
		return fail(c, fiber.StatusForbidden, "Accès réservé aux administrateurs.")
	}
	return c.Next()
}

func me(c *fiber.Ctx) domain.User {
	u, _ := c.Locals("user").(domain.User)
	return u
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

func invalid(c *fiber.Ctx, field, msg string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"message": msg,
		"errors":  fiber.Map{field: []string{msg}},
	})
}

func paramID(c *fiber.Ctx) int64 {
	id, _ := c.ParamsInt("id")
	return int64(id)
}

// values returns the map's entries ordered by id.
func values[T any](m map[int64]*T) []T {
	out := make([]T, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		out = append(out, *m[k])
	}
	return out
}

func paginate[T any](items []T, page, per int) domain.Page[T] {
	if page < 1 {
		page = 1
	}
	last := max(1, (len(items)+per-1)/per)
	from := min((page-1)*per, len(items))
	to := min(from+per, len(items))
	p := domain.Page[T]{
		CurrentPage: page,
		Data:        append([]T{}, items[from:to]...),
		LastPage:    last,
		PerPage:     per,
		Total:       len(items),
	}
	if to > from {
		p.From, p.To = from+1, to
	}
	return p
}

// Auth.

type credentials struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

func (b *Backend) authResponse(c *fiber.Ctx, u domain.User, status int) error {
	var merge *string
	if tok := c.Get(apiclient.HeaderSessionToken); tok != "" {
		if _, ok := b.anonCarts[tok]; ok {
			merge = &tok
		}
	}
	return c.Status(status).JSON(fiber.Map{
		"user":          u,
		"access_token":  b.issue(u.ID),
		"session_token": merge,
	})
}

func (b *Backend) login(c *fiber.Ctx) error {
	var in credentials
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Requête invalide.")
	}
	for _, acc := range b.users {
		if strings.EqualFold(acc.user.Email, in.Email) && acc.password == in.Password {
			return b.authResponse(c, acc.user, fiber.StatusOK)
		}
	}
	return fail(c, fiber.StatusUnauthorized, "Identifiants invalides.")
}

func (b *Backend) register(c *fiber.Ctx) error {
	var in credentials
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Requête invalide.")
	}
	switch {
	case strings.TrimSpace(in.Name) == "":
		return invalid(c, "name", "Le nom est obligatoire.")
	case !strings.Contains(in.Email, "@"):
		return invalid(c, "email", "L'adresse email est invalide.")
	case len(in.Password) < 8:
		return invalid(c, "password", "Le mot de passe doit contenir au moins 8 caractères.")
	case in.Password != in.PasswordConfirmation:
		return invalid(c, "password", "La confirmation ne correspond pas.")
	}
	for _, acc := range b.users {
		if strings.EqualFold(acc.user.Email, in.Email) {
			return invalid(c, "email", "L'adresse email est déjà utilisée.")
		}
	}
	u := domain.User{ID: b.id(), Name: in.Name, Email: in.Email, Role: domain.RoleClient}
	b.users[u.ID] = &account{user: u, password: in.Password}
	return b.authResponse(c, u, fiber.StatusCreated)
}

func (b *Backend) logout(c *fiber.Ctx) error {
	if b.LogoutFails {
		return fail(c, fiber.StatusInternalServerError, "Server Error")
	}
	tok, _ := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	delete(b.tokens, tok)
	return c.JSON(fiber.Map{"message": "Déconnexion réussie."})
}

func (b *Backend) me(c *fiber.Ctx) error {
	return c.JSON(me(c))
}

func (b *Backend) updateProfile(c *fiber.Ctx) error {
	var in apiclient.ProfileInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Requête invalide.")
	}
	if strings.TrimSpace(in.Name) == "" {
		return invalid(c, "name", "Le nom est obligatoire.")
	}
	acc := b.users[me(c).ID]
	acc.user.Name, acc.user.Email, acc.user.Phone, acc.user.Address = in.Name, in.Email, in.Phone, in.Address
	return c.JSON(fiber.Map{"message": "Profil mis à jour.", "user": acc.user})
}

// Catalog.

func (b *Backend) dimensions(c *fiber.Ctx) error {
	mid, sid := int64(c.QueryInt("material_id")), int64(c.QueryInt("shape_id"))
	out := []domain.MaterialDimension{}
	for _, d := range b.Dimensions {
		if (mid == 0 || d.MaterialID == mid) && (sid == 0 || d.ShapeID == sid) {
			out = append(out, d)
		}
	}
	return c.JSON(out)
}

func (b *Backend) carousel(c *fiber.Ctx) error {
	out := []domain.CarouselSlide{}
	for _, s := range b.Slides {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return c.JSON(out)
}

// Cart.

func (b *Backend) userCart(uid int64) *domain.Cart {
	cart, ok := b.userCarts[uid]
	if !ok {
		cart = b.newCart(&uid, nil)
		b.userCarts[uid] = cart
	}
	return cart
}

// currentCart finds the caller's cart, creating an anonymous one when create is set.
func (b *Backend) currentCart(c *fiber.Ctx, create bool) *domain.Cart {
	if u, ok := b.caller(c); ok {
		return b.userCart(u.ID)
	}
	tok := c.Get(apiclient.HeaderSessionToken)
	if cart, ok := b.anonCarts[tok]; tok != "" && ok {
		return cart
	}
	if !create {
		return nil
	}
	tok = "sess-" + uuid.NewString()
	cart := b.newCart(nil, &tok)
	b.anonCarts[tok] = cart
	return cart
}

func (b *Backend) getCart(c *fiber.Ctx) error {
	if u, ok := b.caller(c); ok {
		cart := b.userCart(u.ID)
		tok := c.Get(apiclient.HeaderSessionToken)
		if anon, ok := b.anonCarts[tok]; tok != "" && ok {
			for _, it := range anon.Items {
				it.CartID = cart.ID
				cart.Items = append(cart.Items, it)
			}
			delete(b.anonCarts, tok)
			b.recompute(cart)
		}
		return c.JSON(cart)
	}
	cart := b.currentCart(c, false)
	if cart == nil {
		return c.JSON(domain.EmptyCart())
	}
	return c.JSON(cart)
}

func (b *Backend) addToCart(c *fiber.Ctx) error {
	var in domain.CartItemInput
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Requête invalide.")
	}
	if in.Quantity < 1 {
		return invalid(c, "quantity", "La quantité doit être au moins 1.")
	}
	dim, ok := b.dimension(in.MaterialDimensionID)
	if !ok || !dim.IsActive {
		return invalid(c, "material_dimension_id", "Dimension indisponible.")
	}
	cart := b.currentCart(c, true)
	b.addLine(cart, dim, in)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Article ajouté au panier.", "cart": cart})
}

func (b *Backend) updateCartItem(c *fiber.Ctx) error {
	var in struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&in); err != nil {
		return fail(c, fiber.StatusBadRequest, "Requête invalide.")
	}
	cart := b.currentCart(c, false)
	if cart == nil {
		return fail(c, fiber.StatusNotFound, "Panier introuvable.")
	}
	id := paramID(c)
	for i, it := range cart.Items {
		if it.ID != id {
			continue
		}
		next, err := it.WithQuantity(in.Quantity)
		if err != nil {
			return invalid(c, "quantity", "La quantité doit être au moins 1.")
		}
		cart.Items[i] = next
		b.recompute(cart)
		return c.JSON(fiber.Map{"message": "Quantité mise à jour.", "cart": cart})
	}
	return fail(c, fiber.StatusNotFound, "Article introuvable.")
}

func (b *Backend) removeCartItem(c *fiber.Ctx) error {
	cart := b.currentCart(c, false)
	if cart == nil {
		return fail(c, fiber.StatusNotFound, "Panier introuvable.")
	}
	id := paramID(c)
	n := len(cart.Items)
	cart.Items = slices.DeleteFunc(cart.Items, func(it domain.CartItem) bool { return it.ID == id })
	if len(cart.Items) == n {
		return fail(c, fiber.StatusNotFound, "Article introuvable.")
	}
	b.recompute(cart)
	return c.JSON(fiber.Map{"message": "Article retiré."})
}

func (b *Backend) convertCart(c *fiber.Ctx) error {
	u := me(c)
	cart := b.userCart(u.ID)
	if cart.Empty() {
		return fail(c, fiber.StatusUnprocessableEntity, "Le panier est vide.")
	}
	first := cart.Items[0]
	dim, _ := b.dimension(first.MaterialDimensionID)
	uid := u.ID
	q := domain.Quote{
		ID:                  b.id(),
		UserID:              &uid,
		ClientDetails:       u.Contact(),
		Status:              domain.QuoteSent,
		MaterialID:          dim.MaterialID,
		ShapeID:             dim.ShapeID,
		MaterialDimensionID: &dim.ID,
		Quantity:            cart.ItemCount(),
		DimensionLabel:      dim.DimensionLabel,
		PriceSource:         "cart",
		UnitPriceFCFA:       first.FixedUnitPriceFCFA,
		BasePriceFCFA:       cart.Total(),
		FinalPriceFCFA:      cart.Total(),
		CreatedAt:           domain.Timestamp{Time: b.Now()},
	}
	q.Reference = "DEV-" + uuid.NewString()[:8]
	b.quotes[q.ID] = &q
	delete(b.userCarts, u.ID)
	b.log(u, "cart_converted", `App\Models\Quote`, q.ID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Devis créé à partir du panier.", "quote": q})
}
