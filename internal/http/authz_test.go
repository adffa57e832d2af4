package handlers_test

import (
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silver1953366/gravure-frontend/internal/domain"
	"github.com/silver1953366/gravure-frontend/internal/events"
)

func TestGuestsAreSentToLogin(t *testing.T) {
	h := newHarness(t, nil)
	b := h.browser(t)
	for _, path := range []string{"/client/dashboard", "/client/quotes", "/controller/quotes", "/admin/dashboard", "/profile", "/notifications"} {
		resp := b.get(path)
		if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/auth/login" {
			t.Fatalf("%s: want redirect to login, got %d %q", path, resp.StatusCode, resp.Header.Get("Location"))
		}
	}
}

func TestRoleGuards(t *testing.T) {
	h := newHarness(t, nil)

	client := h.browser(t)
	client.login("awa@example.com")
	var resp *http.Response
	logs := captureLogs(t, func() { resp = client.get("/admin/dashboard") })
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/client/dashboard", resp.Header.Get("Location"))
	denied, ok := findLog(logs, "access.denied.role")
	require.True(t, ok)
	assert.Equal(t, "client", denied.Fields["role"])
	assert.Equal(t, int64(3), denied.UserID)
	assert.NotContains(t, denied.Raw, `"status"`, "the redirect status is not known when the line is written")

	resp = client.get("/controller/quotes")
	assert.Equal(t, "/client/dashboard", resp.Header.Get("Location"))

	ctrl := h.browser(t)
	ctrl.login("ctrl@example.com")
	resp = ctrl.get("/admin/discounts")
	assert.Equal(t, "/controller/dashboard", resp.Header.Get("Location"))
	resp = ctrl.get("/client/quotes")
	assert.Equal(t, "/controller/dashboard", resp.Header.Get("Location"))

	admin := h.browser(t)
	admin.login("admin@example.com")
	resp = admin.get("/controller/dashboard")
	assert.Equal(t, http.StatusOK, resp.StatusCode, "admins share the controller pages")
	resp = admin.get("/admin/discounts")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestClientPostToAdminNeverReachesBackend(t *testing.T) {
	h := newHarness(t, nil)
	b := h.browser(t)
	b.login("awa@example.com")

	resp := b.post("/admin/inventory", url.Values{"material_dimension_id": {"7"}, "stock_quantity": {"3"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/client/dashboard", resp.Header.Get("Location"))
	assert.Equal(t, 0, h.backend.Hits("POST /admin/inventory"))
}

func TestOtherClientsQuoteIsHidden(t *testing.T) {
	h := newHarness(t, nil)
	owner := int64(99)
	q := h.backend.PutQuote(domain.Quote{UserID: &owner, Status: domain.QuoteSent, Quantity: 1})

	b := h.browser(t)
	b.login("awa@example.com")
	var resp *http.Response
	logs := captureLogs(t, func() { resp = b.get("/client/quotes/" + strconv.FormatInt(q.ID, 10)) })
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_, ok := findLog(logs, "access.denied")
	assert.True(t, ok)
}

func TestControllerPricesQuote(t *testing.T) {
	h := newHarness(t, nil)
	owner := int64(3)
	dim := int64(7)
	q := h.backend.PutQuote(domain.Quote{
		UserID:              &owner,
		Status:              domain.QuoteSent,
		MaterialID:          1,
		ShapeID:             1,
		MaterialDimensionID: &dim,
		Quantity:            2,
	})
	path := "/controller/quotes/" + strconv.FormatInt(q.ID, 10)

	b := h.browser(t)
	b.login("ctrl@example.com")
	var resp *http.Response
	logs := captureLogs(t, func() {
		resp = b.post(path+"/price", url.Values{"final_price_fcfa": {"12500"}, "admin_note": {"Gravure recto"}})
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, path, resp.Header.Get("Location"))

	audit, ok := findLog(logs, "quote.priced")
	require.True(t, ok)
	assert.Equal(t, "audit", audit.Level)
	assert.Equal(t, "12500", audit.Fields["final_price"])

	got, _ := h.backend.Quote(q.ID)
	assert.Equal(t, domain.QuoteCalculated, got.Status)
	assert.True(t, got.FinalPriceFCFA.Equal(decimal.NewFromInt(12500)))

	var types []string
	for _, e := range h.events.Events() {
		types = append(types, e.Type)
	}
	assert.Contains(t, types, events.QuotePriced)

	// the page shows the flash once, then it is gone
	body := readBody(t, b.get(path))
	assert.Contains(t, body, "Devis calculé.")
	assert.NotContains(t, readBody(t, b.get(path)), "Devis calculé.")
}

func TestOrderStatusTransitions(t *testing.T) {
	h := newHarness(t, nil)
	o := h.backend.PutOrder(domain.Order{UserID: 3, Status: domain.OrderPendingPayment, Quantity: 1})
	path := "/admin/orders/" + strconv.FormatInt(o.ID, 10)

	b := h.browser(t)
	b.login("admin@example.com")

	// skipping a step is refused before the backend is asked
	resp := b.post(path+"/status", url.Values{"status": {"shipped"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, 0, h.backend.Hits("PUT /admin/admin-orders/"+strconv.FormatInt(o.ID, 10)))

	var logs []logEntry
	logs = captureLogs(t, func() { resp = b.post(path+"/status", url.Values{"status": {"paid"}}) })
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, path, resp.Header.Get("Location"))
	entry, ok := findLog(logs, "order.status")
	require.True(t, ok)
	assert.Equal(t, "pending_payment", entry.Fields["before"])
	assert.Equal(t, "paid", entry.Fields["after"])

	got, _ := h.backend.Order(o.ID)
	assert.Equal(t, domain.OrderPaid, got.Status)

	evs := h.events.Events()
	require.NotEmpty(t, evs)
	last := evs[len(evs)-1]
	assert.Equal(t, events.OrderStatusChanged, last.Type)
	assert.Equal(t, o.ID, last.ResourceID)
	assert.Equal(t, int64(1), last.ActorID)
}

func TestAdminInventorySaveIsAudited(t *testing.T) {
	h := newHarness(t, nil)
	b := h.browser(t)
	b.login("admin@example.com")

	var resp *http.Response
	logs := captureLogs(t, func() {
		resp = b.post("/admin/inventory", url.Values{
			"material_dimension_id": {"7"},
			"stock_quantity":        {"12"},
			"minimum_threshold":     {"2"},
			"price_per_unit":        {"4500"},
		})
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/inventory", resp.Header.Get("Location"))
	entry, ok := findLog(logs, "admin.inventory.saved")
	require.True(t, ok)
	assert.Equal(t, float64(12), entry.Fields["stock"])
	assert.Equal(t, int64(1), entry.UserID)

	// a negative stock is rejected and flashed, not logged as saved
	logs = captureLogs(t, func() {
		resp = b.post("/admin/inventory", url.Values{"material_dimension_id": {"7"}, "stock_quantity": {"-4"}})
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	_, ok = findLog(logs, "admin.inventory.saved")
	assert.False(t, ok)
	assert.Equal(t, 1, h.backend.Hits("POST /admin/inventory"), "only the valid save reached the backend")
}
