package handlers

import (
	"github.com/gofiber/fiber/v2"
	html "github.com/gofiber/template/html/v2"
	"github.com/shopspring/decimal"

	"github.com/silver1953366/gravure-frontend/internal/domain"
	"github.com/silver1953366/gravure-frontend/internal/services"
)

// NewViews loads the html templates under dir with the helpers they use.
func NewViews(dir string, reload bool) fiber.Views {
	engine := html.New(dir, ".html")
	engine.Reload(reload)
	engine.AddFunc("fcfa", domain.FormatFCFA)
	engine.AddFunc("target", func(n domain.Notification, role string) string {
		r, _ := domain.ParseRole(role)
		return services.Target(n, r)
	})
	engine.AddFunc("lineTotal", func(it domain.CartItem) decimal.Decimal { return it.LineTotal() })
	engine.AddFunc("detail", func(m map[string]any, key string) string {
		if v, ok := m[key].(string); ok {
			return v
		}
		return ""
	})
	engine.AddFunc("add", func(a, b int) int { return a + b })
	engine.AddFunc("date", func(t domain.Timestamp) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02/01/2006")
	})
	return engine
}
