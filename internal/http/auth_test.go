package handlers_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silver1953366/gravure-frontend/internal/http/handlers"
)

func TestLoginFailureThenSuccess(t *testing.T) {
	h := newHarness(t, nil)
	b := h.browser(t)

	var resp *http.Response
	logs := captureLogs(t, func() {
		resp = b.post("/auth/login", url.Values{"email": {"awa@example.com"}, "password": {"wrong-password"}})
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad credentials: want 401, got %d", resp.StatusCode)
	}
	body := readBody(t, resp)
	assert.Contains(t, body, "awa@example.com", "email is kept in the form")
	assert.NotContains(t, body, "wrong-password")

	fail, ok := findLog(logs, "auth.login.fail")
	require.True(t, ok, "failed login must be logged")
	assert.Equal(t, "warn", fail.Level)
	assert.Equal(t, "awa@example.com", fail.Fields["email"])

	resp = b.post("/auth/login", url.Values{"email": {"awa@example.com"}, "password": {"secret123"}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/client/dashboard", resp.Header.Get("Location"))

	// signed-in users are sent away from the guest pages
	resp = b.get("/auth/login")
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/client/dashboard", resp.Header.Get("Location"))
}

func TestLoginLandsOnRoleDashboard(t *testing.T) {
	h := newHarness(t, nil)
	cases := map[string]string{
		"admin@example.com": "/admin/dashboard",
		"ctrl@example.com":  "/controller/dashboard",
		"awa@example.com":   "/client/dashboard",
	}
	for email, want := range cases {
		b := h.browser(t)
		resp := b.post("/auth/login", url.Values{"email": {email}, "password": {"secret123"}})
		if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != want {
			t.Fatalf("%s: want redirect to %s, got %d %q", email, want, resp.StatusCode, resp.Header.Get("Location"))
		}
		resp = b.get(want)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: dashboard status %d", email, resp.StatusCode)
		}
	}
}

func TestLoginThrottled(t *testing.T) {
	h := newHarness(t, func(o *handlers.Options) { o.LoginLimit = 2 })
	b := h.browser(t)

	for i := 0; i < 2; i++ {
		resp := b.post("/auth/login", url.Values{"email": {"awa@example.com"}, "password": {"nope-nope"}})
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("attempt %d: want 401, got %d", i, resp.StatusCode)
		}
	}
	var resp *http.Response
	logs := captureLogs(t, func() {
		resp = b.post("/auth/login", url.Values{"email": {"awa@example.com"}, "password": {"secret123"}})
	})
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Trop de tentatives")
	_, ok := findLog(logs, "rate.login.hit")
	assert.True(t, ok)
	assert.Equal(t, 2, h.backend.Hits("POST /login"), "throttled attempt never reaches the backend")
}

func TestRegisterValidation(t *testing.T) {
	h := newHarness(t, nil)
	b := h.browser(t)

	resp := b.post("/auth/register", url.Values{
		"name":                  {"Koffi"},
		"email":                 {"koffi@example.com"},
		"password":              {"longenough"},
		"password_confirmation": {"different1"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "La confirmation ne correspond pas.")
	assert.Contains(t, body, "koffi@example.com")
	assert.Equal(t, 0, h.backend.Hits("POST /register"))

	resp = b.post("/auth/register", url.Values{
		"name":                  {"Koffi"},
		"email":                 {"koffi@example.com"},
		"password":              {"longenough"},
		"password_confirmation": {"longenough"},
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/client/dashboard", resp.Header.Get("Location"))
}

func TestLogoutClearsSession(t *testing.T) {
	h := newHarness(t, nil)
	b := h.browser(t)
	b.login("awa@example.com")

	resp := b.post("/auth/logout", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Equal(t, 1, h.backend.Hits("POST /logout"))

	resp = b.get("/client/dashboard")
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login", resp.Header.Get("Location"))
}

func TestLogoutSurvivesBackendFailure(t *testing.T) {
	h := newHarness(t, nil)
	b := h.browser(t)
	b.login("ctrl@example.com")

	h.backend.Lock()
	h.backend.LogoutFails = true
	h.backend.Unlock()

	var resp *http.Response
	logs := captureLogs(t, func() { resp = b.post("/auth/logout", nil) })
	require.Equal(t, http.StatusFound, resp.StatusCode)
	_, ok := findLog(logs, "auth.logout_backend_failed")
	assert.True(t, ok)

	resp = b.get("/controller/dashboard")
	assert.Equal(t, http.StatusFound, resp.StatusCode, "local session is gone even when the backend refused")
	assert.True(t, strings.HasSuffix(resp.Header.Get("Location"), "/auth/login"))
}
