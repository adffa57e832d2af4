package services_test

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/silver1953366/gravure-frontend/internal/apiclient"
	"github.com/silver1953366/gravure-frontend/internal/apiclient/apitest"
	"github.com/silver1953366/gravure-frontend/internal/events"
	"github.com/silver1953366/gravure-frontend/internal/repos"
	"github.com/silver1953366/gravure-frontend/internal/secure"
	"github.com/silver1953366/gravure-frontend/internal/services"
)

type env struct {
	b        *apitest.Backend
	api      *apiclient.Client
	store    *repos.SessionRepo
	journal  *repos.JournalRepo
	cache    *repos.CacheRepo
	events   *events.Recorder
	sessions *services.Sessions
	carts    *services.CartService
	auth     *services.AuthService
	quotes   *services.QuoteService
	orders   *services.OrderService
	catalog  *services.CatalogService
	admin    *services.AdminService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	b := apitest.New()
	t.Cleanup(b.Close)

	db, err := repos.OpenDB(filepath.Join(t.TempDir(), "bff.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sealer, err := secure.NewSealer("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	e := &env{
		b:       b,
		api:     apiclient.New(b.URL, 2*time.Second),
		store:   repos.NewSessionRepo(db),
		journal: repos.NewJournalRepo(db),
		cache:   repos.NewCacheRepo(db),
		events:  &events.Recorder{},
	}
	e.sessions = services.NewSessions(e.store, sealer)
	e.carts = services.NewCartService(e.api, e.sessions)
	e.auth = services.NewAuthService(e.api, e.sessions, e.carts)
	audit := services.NewAuditor(e.journal, e.events)
	e.quotes = services.NewQuoteService(e.api, e.carts, audit)
	e.orders = services.NewOrderService(e.api, audit)
	e.catalog = services.NewCatalogService(e.api, e.cache, time.Minute)
	e.admin = services.NewAdminService(e.api, e.catalog)
	return e
}

func (e *env) session(t *testing.T, sid string) *services.Session {
	t.Helper()
	s, err := e.sessions.Load(context.Background(), sid)
	require.NoError(t, err)
	return s
}

func (e *env) login(t *testing.T, sid, email string) *services.Session {
	t.Helper()
	s := e.session(t, sid)
	require.NoError(t, e.auth.Login(context.Background(), s, email, "secret123"))
	return s
}

func route(method, pattern string, id int64) string {
	return method + " " + pattern + strconv.FormatInt(id, 10)
}
