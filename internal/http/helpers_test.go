package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/silver1953366/gravure-frontend/internal/apiclient"
	"github.com/silver1953366/gravure-frontend/internal/apiclient/apitest"
	"github.com/silver1953366/gravure-frontend/internal/events"
	"github.com/silver1953366/gravure-frontend/internal/http/handlers"
	applog "github.com/silver1953366/gravure-frontend/internal/log"
	"github.com/silver1953366/gravure-frontend/internal/repos"
	"github.com/silver1953366/gravure-frontend/internal/secure"
	"github.com/silver1953366/gravure-frontend/internal/services"
)

type harness struct {
	app     *fiber.App
	backend *apitest.Backend
	events  *events.Recorder
	deps    *handlers.Deps
}

// newHarness wires the real app against the in-memory backend. Limits are off unless
// the caller sets them.
func newHarness(t *testing.T, tune func(*handlers.Options)) *harness {
	t.Helper()
	b := apitest.New()
	t.Cleanup(b.Close)

	db, err := repos.OpenDB(filepath.Join(t.TempDir(), "bff.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	sealer, err := secure.NewSealer("0123456789abcdef0123456789abcdef")
	if err != nil {
		t.Fatalf("sealer: %v", err)
	}

	rec := &events.Recorder{}
	d := handlers.NewDeps(handlers.Infra{
		API:        apiclient.New(b.URL, 2*time.Second),
		Sessions:   repos.NewSessionRepo(db),
		Sealer:     sealer,
		Cache:      repos.NewCacheRepo(db),
		Journal:    repos.NewJournalRepo(db),
		Events:     rec,
		CatalogTTL: time.Minute,
	}, false)

	o := handlers.Options{
		Views:     handlers.NewViews("../../web/templates", false),
		BodyLimit: 1 << 20,
	}
	if tune != nil {
		tune(&o)
	}
	return &harness{app: handlers.NewApp(d, o), backend: b, events: rec, deps: d}
}

// browser keeps cookies between requests the way a real one would.
type browser struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]string
}

func (h *harness) browser(t *testing.T) *browser {
	return &browser{t: t, app: h.app, cookies: map[string]string{}}
}

func (b *browser) do(req *http.Request) *http.Response {
	b.t.Helper()
	for name, value := range b.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	resp, err := b.app.Test(req, 5000)
	if err != nil {
		b.t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	for _, c := range resp.Cookies() {
		if c.Value == "" || c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(time.Now())) {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c.Value
	}
	return resp
}

func (b *browser) get(path string) *http.Response {
	b.t.Helper()
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

// csrf makes sure a token cookie exists and returns it.
func (b *browser) csrf() string {
	b.t.Helper()
	if tok := b.cookies["csrf_"]; tok != "" {
		return tok
	}
	b.get("/")
	tok := b.cookies["csrf_"]
	if tok == "" {
		b.t.Fatal("csrf cookie missing")
	}
	return tok
}

func (b *browser) post(path string, form url.Values) *http.Response {
	b.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrf", b.csrf())
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

// api sends a JSON request with the token in the header, as app.js does.
func (b *browser) api(method, path string, body any) *http.Response {
	b.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			b.t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if method != http.MethodGet {
		req.Header.Set("X-CSRF-Token", b.csrf())
	}
	return b.do(req)
}

func (b *browser) login(email string) {
	b.t.Helper()
	resp := b.post("/auth/login", url.Values{"email": {email}, "password": {"secret123"}})
	if resp.StatusCode != http.StatusFound {
		b.t.Fatalf("login %s: status %d", email, resp.StatusCode)
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(raw)
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return m
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	Path   string         `json:"path"`
	UserID int64          `json:"user_id"`
	Err    string         `json:"err"`
	Fields map[string]any `json:"fields"`
	Raw    string         `json:"-"`
}

type lockedWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

// captureLogs swaps the process logger for the duration of fn and parses what it wrote.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	w := &lockedWriter{}
	applog.Setup("debug", w)
	defer applog.Setup("info", os.Stdout)

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(w.buf.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			e.Raw = line
			entries = append(entries, e)
		}
	}
	return entries
}

// findLog returns the last entry for action. Handlers log after the services they call.
func findLog(entries []logEntry, action string) (logEntry, bool) {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Action == action {
			return entries[i], true
		}
	}
	return logEntry{}, false
}

// loggedIn reads the browser's stored session the way the middleware does.
func loggedIn(t *testing.T, h *harness, b *browser) *services.Session {
	t.Helper()
	sess, err := h.deps.Sessions.Load(t.Context(), b.cookies["sid"])
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if !sess.LoggedIn() {
		t.Fatal("browser is not signed in")
	}
	return sess
}
