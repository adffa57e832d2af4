package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/silver1953366/gravure-frontend/internal/domain"
	applog "github.com/silver1953366/gravure-frontend/internal/log"
)

const csrfCookie = "csrf_"

// Options tune the app. Zero limits disable the matching limiter.
type Options struct {
	Views        fiber.Views
	StaticDir    string
	CookieSecure bool
	BodyLimit    int
	// Requests per minute per IP across the site.
	RateLimit int
	// Login and register attempts per IP every 10 minutes.
	LoginLimit int
	// Estimate calls per IP every 30 seconds.
	EstimateLimit int
	AccessLog     bool
}

// DefaultOptions are the production settings.
func DefaultOptions(views fiber.Views) Options {
	return Options{
		Views:         views,
		StaticDir:     "./web/static",
		BodyLimit:     12 << 20,
		RateLimit:     120,
		LoginLimit:    5,
		EstimateLimit: 15,
		AccessLog:     true,
	}
}

// ErrorHandler logs and shows a friendly page without leaking internals.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := "Une erreur est survenue. Veuillez réessayer."
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		switch status {
		case fiber.StatusNotFound:
			msg = "Page introuvable."
		case fiber.StatusRequestEntityTooLarge:
			msg = "Le fichier envoyé est trop volumineux."
		}
	}
	if status >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
	}
	if wantsJSON(c) {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
	if rerr := c.Status(status).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(status).SendString(msg)
	}
	return nil
}

func limited(n int, window time.Duration, key string, reached fiber.Handler) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        n,
		Expiration: window,
		Next: func(c *fiber.Ctx) bool {
			return n <= 0 || isStatic(c.Path())
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|" + key
		},
		LimitReached: reached,
	})
}

// NewApp builds the server with its middleware stack and routes.
func NewApp(d *Deps, o Options) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:        o.Views,
		BodyLimit:    o.BodyLimit,
		ErrorHandler: ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	if o.AccessLog {
		app.Use(logger.New())
	}
	app.Use(helmet.New())
	app.Use(applog.Middleware())
	app.Use(limited(o.RateLimit, time.Minute, "site", func(c *fiber.Ctx) error {
		applog.Security(c, "rate.site.hit", nil)
		return c.SendStatus(fiber.StatusTooManyRequests)
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	if o.StaticDir != "" {
		app.Static("/static", o.StaticDir)
	}

	app.Use(LoadSession(d.Sessions, o.CookieSecure))
	app.Use(csrf.New(csrf.Config{
		CookieName:     csrfCookie,
		CookieSameSite: "Lax",
		CookieSecure:   o.CookieSecure,
		ContextKey:     "csrf",
		Extractor: func(c *fiber.Ctx) (string, error) {
			if tok := c.Get("X-CSRF-Token"); tok != "" {
				return tok, nil
			}
			return csrf.CsrfFromForm("csrf")(c)
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"err": err.Error()})
			if wantsJSON(c) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "invalid csrf token"})
			}
			return render(c.Status(fiber.StatusForbidden), "notfound", fiber.Map{
				"Message": "Contrôle de sécurité échoué. Rechargez la page et réessayez.",
			})
		},
	}))

	routes(app, d, o)

	app.Use(NotFound)
	return app
}

func routes(app *fiber.App, d *Deps, o Options) {
	pub, cart, auth := d.Public, d.Cart, d.AuthH

	app.Get("/", pub.Home)
	app.Get("/catalog", pub.Browse)
	app.Get("/configurator/:materialId?", pub.Configurator)

	app.Get("/cart", cart.View)
	app.Post("/cart", cart.Add)
	app.Post("/cart/items/:id", cart.Update)
	app.Post("/cart/items/:id/delete", cart.Remove)
	app.Post("/cart/convert", RequireAuth(), cart.Convert)

	loginLimit := limited(o.LoginLimit, 10*time.Minute, "login", func(c *fiber.Ctx) error {
		applog.Security(c, "rate.login.hit", nil)
		return render(c.Status(fiber.StatusTooManyRequests), "auth/login", fiber.Map{
			"Err": "Trop de tentatives. Réessayez plus tard.",
		})
	})
	guest := app.Group("/auth")
	guest.Get("/login", RequireGuest(), auth.LoginForm)
	guest.Post("/login", RequireGuest(), loginLimit, auth.Login)
	guest.Get("/register", RequireGuest(), auth.RegisterForm)
	guest.Post("/register", RequireGuest(), loginLimit, auth.Register)
	guest.Post("/logout", RequireAuth(), auth.Logout)

	app.Get("/profile", RequireAuth(), auth.Profile)
	app.Post("/profile", RequireAuth(), auth.UpdateProfile)

	notif := app.Group(notificationsPath, RequireAuth())
	notif.Get("/", d.Notifications.List)
	notif.Post("/read-all", d.Notifications.MarkAll)
	notif.Post("/:id/read", d.Notifications.Open)
	notif.Post("/:id/delete", d.Notifications.Delete)

	cl := d.Client
	client := app.Group("/client", RequireRole(domain.RoleClient))
	client.Get("/dashboard", cl.Dashboard)
	client.Get("/quotes", cl.QuoteList)
	client.Get("/quotes/new", cl.NewQuote)
	client.Post("/quotes", cl.CreateQuote)
	client.Get("/quotes/:id", cl.Quote)
	client.Get("/quotes/:id/edit", cl.EditQuote)
	client.Post("/quotes/:id", cl.UpdateQuote)
	client.Post("/quotes/:id/delete", cl.DeleteQuote)
	client.Post("/quotes/:id/convert", cl.ConvertQuote)
	client.Get("/orders", cl.OrderList)
	client.Get("/orders/:id", cl.Order)
	client.Get("/favorites", cl.FavoriteList)
	client.Post("/favorites", cl.AddFavorite)
	client.Post("/favorites/:id/delete", cl.RemoveFavorite)
	client.Get("/notifications", d.Notifications.List)
	client.Post("/attachments", cl.UploadAttachment)
	client.Post("/attachments/:id/delete", cl.DeleteAttachment)

	controller := app.Group("/controller", RequireRole(domain.RoleController, domain.RoleAdmin))
	controller.Get("/dashboard", d.Staff.Dashboard)
	staffRoutes(controller, d.Staff)

	ad := d.Admin
	admin := app.Group("/admin", RequireRole(domain.RoleAdmin))
	admin.Get("/dashboard", ad.Dashboard)
	staffRoutes(admin, d.Staff)
	admin.Post("/quotes/:id/delete", ad.DeleteQuote)
	admin.Post("/orders/:id/delete", ad.DeleteOrder)
	admin.Post("/inventory", ad.SaveInventory)
	admin.Post("/inventory/:id", ad.SaveInventory)
	admin.Post("/inventory/:id/delete", ad.DeleteInventory)
	admin.Get("/discounts", ad.Discounts)
	admin.Post("/discounts", ad.SaveDiscount)
	admin.Post("/discounts/:id", ad.SaveDiscount)
	admin.Post("/discounts/:id/delete", ad.DeleteDiscount)
	admin.Get("/activities", ad.Activities)
	admin.Get("/activities/:id", ad.Activity)
	admin.Get("/reports", ad.Reports)
	admin.Get("/reports/export", ad.Export)
	admin.Get("/notifications", ad.NotificationList)
	admin.Post("/notifications", ad.SendNotification)
	admin.Post("/notifications/:id/delete", ad.DeleteNotification)
	admin.Get("/carousel", ad.Carousel)
	admin.Post("/carousel", ad.SaveSlide)
	admin.Post("/carousel/:id", ad.SaveSlide)
	admin.Post("/carousel/:id/delete", ad.DeleteSlide)
	admin.Get("/users", ad.Users)
	admin.Get("/catalog", ad.CatalogPage)
	admin.Post("/materials", ad.SaveMaterial)
	admin.Post("/materials/:id", ad.SaveMaterial)
	admin.Post("/materials/:id/delete", ad.DeleteMaterial)
	admin.Post("/shapes", ad.SaveShape)
	admin.Post("/shapes/:id", ad.SaveShape)
	admin.Post("/shapes/:id/delete", ad.DeleteShape)
	admin.Post("/categories", ad.SaveCategory)
	admin.Post("/categories/:id", ad.SaveCategory)
	admin.Post("/categories/:id/delete", ad.DeleteCategory)
	admin.Post("/dimensions", ad.SaveDimension)
	admin.Post("/dimensions/:id", ad.SaveDimension)
	admin.Post("/dimensions/:id/delete", ad.DeleteDimension)

	api := app.Group("/api/v1")
	estimateLimit := limited(o.EstimateLimit, 30*time.Second, "estimate", func(c *fiber.Ctx) error {
		applog.Security(c, "rate.estimate.hit", nil)
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
	})
	api.Get("/catalog", d.API.Listing)
	api.Get("/dimensions", d.API.Dimensions)
	api.Post("/estimate", estimateLimit, d.API.Estimate)
	api.Get("/cart", d.API.Cart)
	api.Post("/cart", d.API.AddToCart)
	api.Patch("/cart/items/:id", d.API.UpdateCartItem)
	api.Delete("/cart/items/:id", d.API.RemoveCartItem)
	api.Get("/notifications/unread", RequireAuth(), d.API.Unread)
}

// staffRoutes mounts the pages controllers and admins share.
func staffRoutes(r fiber.Router, s *StaffHandler) {
	r.Get("/quotes", s.QuoteList)
	r.Get("/quotes/:id", s.Quote)
	r.Post("/quotes/:id/price", s.PriceQuote)
	r.Post("/quotes/:id/reject", s.RejectQuote)
	r.Post("/quotes/:id/archive", s.ArchiveQuote)
	r.Get("/orders", s.OrderList)
	r.Get("/orders/:id", s.Order)
	r.Post("/orders/:id/status", s.SetOrderStatus)
	r.Get("/inventory", s.InventoryList)
	r.Get("/inventory/:id", s.InventoryItem)
	r.Get("/clients", s.Clients)
}

func isStatic(path string) bool { return strings.HasPrefix(path, "/static/") }
