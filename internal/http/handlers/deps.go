package handlers

import (
	"time"

	"github.com/silver1953366/gravure-frontend/internal/apiclient"
	"github.com/silver1953366/gravure-frontend/internal/cache"
	"github.com/silver1953366/gravure-frontend/internal/events"
	"github.com/silver1953366/gravure-frontend/internal/secure"
	"github.com/silver1953366/gravure-frontend/internal/services"
)

// Infra is what the process wires once at startup.
type Infra struct {
	API        *apiclient.Client
	Sessions   services.SessionStore
	Sealer     *secure.Sealer
	Cache      cache.Cache
	Journal    services.JournalStore
	Events     events.Publisher
	CatalogTTL time.Duration
}

// Deps holds the services and the handlers built on them.
type Deps struct {
	Sessions *services.Sessions
	Auth     *services.AuthService

	Public        *PublicHandler
	AuthH         *AuthHandler
	Cart          *CartHandler
	Client        *ClientHandler
	Staff         *StaffHandler
	Admin         *AdminHandler
	Notifications *NotificationHandler
	API           *APIHandler
}

func NewDeps(in Infra, cookieSecure bool) *Deps {
	if in.Cache == nil {
		in.Cache = cache.Nop{}
	}
	sessions := services.NewSessions(in.Sessions, in.Sealer)
	carts := services.NewCartService(in.API, sessions)
	auth := services.NewAuthService(in.API, sessions, carts)
	audit := services.NewAuditor(in.Journal, in.Events)
	catalog := services.NewCatalogService(in.API, in.Cache, in.CatalogTTL)
	quotes := services.NewQuoteService(in.API, carts, audit)
	orders := services.NewOrderService(in.API, audit)
	favorites := services.NewFavoriteService(in.API)
	notifications := services.NewNotificationService(in.API)
	inventory := services.NewInventoryService(in.API)
	attachments := services.NewAttachmentService(in.API)
	admin := services.NewAdminService(in.API, catalog)
	dashboards := &services.Dashboards{
		Quotes:        quotes,
		Orders:        orders,
		Favorites:     favorites,
		Notifications: notifications,
		Inventory:     inventory,
		Audit:         audit,
	}

	g := guard{auth: auth}
	return &Deps{
		Sessions: sessions,
		Auth:     auth,
		Public:   &PublicHandler{guard: g, Catalog: catalog},
		AuthH:    &AuthHandler{guard: g, Auth: auth, CookieSecure: cookieSecure},
		Cart:     &CartHandler{guard: g, Carts: carts},
		Client: &ClientHandler{
			guard:       g,
			Quotes:      quotes,
			Orders:      orders,
			Favorites:   favorites,
			Attachments: attachments,
			Catalog:     catalog,
			Dashboards:  dashboards,
		},
		Staff: &StaffHandler{
			guard:      g,
			Quotes:     quotes,
			Orders:     orders,
			Inventory:  inventory,
			Admin:      admin,
			Dashboards: dashboards,
		},
		Admin: &AdminHandler{
			guard:         g,
			Admin:         admin,
			Quotes:        quotes,
			Orders:        orders,
			Inventory:     inventory,
			Notifications: notifications,
			Catalog:       catalog,
			Dashboards:    dashboards,
		},
		Notifications: &NotificationHandler{guard: g, Notifications: notifications},
		API:           &APIHandler{guard: g, Catalog: catalog, Carts: carts, Notifications: notifications},
	}
}
