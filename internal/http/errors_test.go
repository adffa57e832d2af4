package handlers_test

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silver1953366/gravure-frontend/internal/domain"
	"github.com/silver1953366/gravure-frontend/internal/http/handlers"
)

func TestErrorHandlerHidesInternals(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
		Views:        handlers.NewViews("../../web/templates", false),
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("pq: relation \"secrets\" does not exist")
	})
	app.Get("/api/v1/boom", func(c *fiber.Ctx) error {
		return errors.New("dial tcp 10.0.0.5:5432: connection refused")
	})

	var resp *http.Response
	logs := captureLogs(t, func() {
		var err error
		resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
		require.NoError(t, err)
	})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "Une erreur est survenue")
	assert.NotContains(t, body, "secrets")

	entry, ok := findLog(logs, "server.error")
	require.True(t, ok, "5xx must be logged")
	assert.Equal(t, "error", entry.Level)
	assert.Contains(t, entry.Err, "secrets", "the log keeps the cause")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/boom", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	m := decode(t, resp)
	assert.Equal(t, "Une erreur est survenue. Veuillez réessayer.", m["error"])
}

func TestUnknownRouteIsFriendly404(t *testing.T) {
	h := newHarness(t, nil)
	b := h.browser(t)

	resp := b.get("/nowhere")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "introuvable")

	resp = b.get("/api/v1/nowhere")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_, ok := decode(t, resp)["error"]
	assert.True(t, ok)
}

func TestBackendFailureBecomes502WithoutLeak(t *testing.T) {
	h := newHarness(t, nil)
	owner := int64(3)
	q := h.backend.PutQuote(domain.Quote{UserID: &owner, Status: domain.QuoteSent, Quantity: 1})
	id := strconv.FormatInt(q.ID, 10)

	b := h.browser(t)
	b.login("awa@example.com")
	h.backend.Fail("GET /quotes/"+id, http.StatusInternalServerError)

	var resp *http.Response
	logs := captureLogs(t, func() { resp = b.get("/client/quotes/" + id) })
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "Une erreur est survenue")
	assert.NotContains(t, body, "forced failure")
	_, ok := findLog(logs, "backend.error")
	assert.True(t, ok)
}

func TestDegradedListStillRenders(t *testing.T) {
	h := newHarness(t, nil)
	b := h.browser(t)
	b.login("awa@example.com")
	h.backend.Fail("GET /quotes", http.StatusServiceUnavailable)

	resp := b.get("/client/quotes")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "banner error")
}

func TestRejectedTokenLogsOut(t *testing.T) {
	h := newHarness(t, nil)
	b := h.browser(t)
	b.login("awa@example.com")
	h.backend.Fail("GET /orders", http.StatusUnauthorized)

	var resp *http.Response
	logs := captureLogs(t, func() { resp = b.get("/client/orders") })
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login", resp.Header.Get("Location"))
	entry, ok := findLog(logs, "auth.token_rejected")
	require.True(t, ok)
	assert.Equal(t, int64(3), entry.UserID)
	assert.Equal(t, 1, strings.Count(entry.Raw, `"user_id"`), entry.Raw)

	h.backend.Fail("GET /orders", 0)
	resp = b.get("/client/orders")
	assert.Equal(t, "/auth/login", resp.Header.Get("Location"), "the local session is cleared too")
}

func TestCSRFRequired(t *testing.T) {
	h := newHarness(t, nil)
	b := h.browser(t)
	b.csrf()

	form := url.Values{"email": {"awa@example.com"}, "password": {"secret123"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	var resp *http.Response
	logs := captureLogs(t, func() { resp = b.do(req) })
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 0, h.backend.Hits("POST /login"))
	_, ok := findLog(logs, "csrf.fail")
	assert.True(t, ok)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/cart", strings.NewReader(`{"material_dimension_id":7,"quantity":1}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-CSRF-Token", "forged")
	resp = b.do(req)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "invalid csrf token", decode(t, resp)["error"])
}

func TestBodySizeLimit(t *testing.T) {
	h := newHarness(t, func(o *handlers.Options) { o.BodyLimit = 1 << 20 })
	b := h.browser(t)
	tok := b.csrf()

	oversize := bytes.Repeat([]byte("A"), (1<<20)+10)
	req := httptest.NewRequest(http.MethodPost, "/cart", bytes.NewReader(oversize))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "csrf_", Value: tok})
	resp, err := h.app.Test(req)
	// fasthttp may refuse the body before fiber sees it; both count as rejected
	if err != nil {
		if strings.Contains(err.Error(), "body size exceeds") || strings.Contains(err.Error(), "too large") {
			return
		}
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 413 for oversize, got %d body=%s", resp.StatusCode, raw)
	}
	assert.Equal(t, 0, h.backend.Hits("POST /cart"))
}

func TestSiteRateLimit(t *testing.T) {
	h := newHarness(t, func(o *handlers.Options) { o.RateLimit = 3 })
	b := h.browser(t)

	for i := 0; i < 3; i++ {
		if resp := b.get("/catalog"); resp.StatusCode != http.StatusOK {
			t.Fatalf("hit %d: got %d", i, resp.StatusCode)
		}
	}
	var resp *http.Response
	logs := captureLogs(t, func() { resp = b.get("/catalog") })
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	_, ok := findLog(logs, "rate.site.hit")
	assert.True(t, ok)

	// /healthz is mounted after the site limiter
	resp = b.get("/healthz")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestHealthAndSecurityHeaders(t *testing.T) {
	h := newHarness(t, nil)
	b := h.browser(t)

	resp := b.get("/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decode(t, resp)["ok"])

	resp = b.get("/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
	assert.NotEmpty(t, b.cookies["sid"], "every visitor gets a session cookie")
}
