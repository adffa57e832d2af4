// Package apitest runs an in-memory storefront backend for tests. It speaks the same
// JSON shapes as the real service, including the anonymous-cart merge on the first
// authenticated cart fetch.
package apitest

import (
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/silver1953366/gravure-frontend/internal/domain"
)

// Backend is the fake. Exported fields may be changed between requests under Lock.
type Backend struct {
	mu sync.Mutex

	URL    string
	server *httptest.Server

	// LogoutFails makes POST /logout answer 500.
	LogoutFails bool
	// Delay is added before every catalog answer.
	Delay time.Duration

	Now func() time.Time

	nextID    int64
	users     map[int64]*account
	tokens    map[string]int64
	anonCarts map[string]*domain.Cart
	userCarts map[int64]*domain.Cart

	Categories []domain.Category
	Materials  []domain.Material
	Shapes     []domain.Shape
	Dimensions []domain.MaterialDimension
	Slides     []domain.CarouselSlide

	quotes        map[int64]*domain.Quote
	orders        map[int64]*domain.Order
	inventory     map[int64]*domain.InventoryItem
	notifications map[int64]*domain.Notification
	discounts     map[int64]*domain.Discount
	favorites     map[int64]*domain.Favorite
	attachments   map[int64]*domain.Attachment
	activities    []domain.Activity

	failures map[string]int
	hits     map[string]int
	headers  map[string][]SeenHeaders
}

type account struct {
	user     domain.User
	password string
}

// SeenHeaders are the identity headers of one recorded request.
type SeenHeaders struct {
	Authorization string
	SessionToken  string
}

// New starts the fake with a small seeded catalog. Call Close when done.
func New() *Backend {
	b := &Backend{
		Now:           time.Now,
		nextID:        100,
		users:         map[int64]*account{},
		tokens:        map[string]int64{},
		anonCarts:     map[string]*domain.Cart{},
		userCarts:     map[int64]*domain.Cart{},
		quotes:        map[int64]*domain.Quote{},
		orders:        map[int64]*domain.Order{},
		inventory:     map[int64]*domain.InventoryItem{},
		notifications: map[int64]*domain.Notification{},
		discounts:     map[int64]*domain.Discount{},
		favorites:     map[int64]*domain.Favorite{},
		attachments:   map[int64]*domain.Attachment{},
		failures:      map[string]int{},
		hits:          map[string]int{},
		headers:       map[string][]SeenHeaders{},
	}
	b.seed()
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	b.routes(app)
	b.server = httptest.NewServer(adaptor.FiberApp(app))
	b.URL = b.server.URL
	return b
}

func (b *Backend) Close() { b.server.Close() }

func (b *Backend) Lock()   { b.mu.Lock() }
func (b *Backend) Unlock() { b.mu.Unlock() }

func (b *Backend) seed() {
	pierre := int64(1)
	b.Categories = []domain.Category{
		{ID: 1, Name: "Pierre", Slug: "pierre", Description: "Pierres naturelles"},
		{ID: 2, Name: "Bois", Slug: "bois", Description: "Essences nobles"},
	}
	b.Materials = []domain.Material{
		{ID: 1, Name: "Granit", Slug: "granit", IsActive: true, CategoryID: &pierre},
		{ID: 2, Name: "Plexiglas", Slug: "plexiglas", IsActive: true},
	}
	b.Shapes = []domain.Shape{{ID: 1, Name: "Rectangle", Slug: "rectangle", IsActive: true}}
	b.Dimensions = []domain.MaterialDimension{
		{ID: 7, MaterialID: 1, ShapeID: 1, CategoryID: 1, DimensionLabel: "30x20 cm", UnitPriceFCFA: decimal.NewFromInt(5000), IsActive: true},
		{ID: 8, MaterialID: 2, ShapeID: 1, DimensionLabel: "20x10 cm", UnitPriceFCFA: decimal.NewFromInt(3000), IsActive: true},
		{ID: 9, MaterialID: 2, ShapeID: 1, DimensionLabel: "40x30 cm", UnitPriceFCFA: decimal.NewFromInt(9000), IsActive: false},
	}
	b.Slides = []domain.CarouselSlide{{ID: 1, Title: "Gravure laser", Order: 1, IsActive: true}}
	b.AddUser(domain.User{ID: 1, Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin}, "secret123")
	b.AddUser(domain.User{ID: 2, Name: "Contrôleur", Email: "ctrl@example.com", Role: domain.RoleController}, "secret123")
	b.AddUser(domain.User{ID: 3, Name: "Awa", Email: "awa@example.com", Role: domain.RoleClient, Phone: "+225 0700000000"}, "secret123")
}

func (b *Backend) id() int64 {
	b.nextID++
	return b.nextID
}

// AddUser registers an account. The role string is stored as given.
func (b *Backend) AddUser(u domain.User, password string) domain.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	if u.ID == 0 {
		u.ID = b.id()
	}
	b.users[u.ID] = &account{user: u, password: password}
	return u
}

// IssueToken returns a valid bearer token for the user.
func (b *Backend) IssueToken(userID int64) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.issue(userID)
}

func (b *Backend) issue(userID int64) string {
	tok := "tok-" + uuid.NewString()
	b.tokens[tok] = userID
	return tok
}

// Fail makes the route answer status until cleared with status 0.
// Route keys look like "GET /cart".
func (b *Backend) Fail(route string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if status == 0 {
		delete(b.failures, route)
		return
	}
	b.failures[route] = status
}

// Hits is the number of requests received for the route key.
func (b *Backend) Hits(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[route]
}

// Headers returns the identity headers seen on each request for the route key.
func (b *Backend) Headers(route string) []SeenHeaders {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]SeenHeaders(nil), b.headers[route]...)
}

// PutQuote stores q, assigning an id when missing.
func (b *Backend) PutQuote(q domain.Quote) domain.Quote {
	b.mu.Lock()
	defer b.mu.Unlock()
	if q.ID == 0 {
		q.ID = b.id()
	}
	if q.Reference == "" {
		q.Reference = "DEV-" + strconv.FormatInt(q.ID, 10)
	}
	b.quotes[q.ID] = &q
	return q
}

func (b *Backend) Quote(id int64) (domain.Quote, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	q, ok := b.quotes[id]
	if !ok {
		return domain.Quote{}, false
	}
	return *q, true
}

func (b *Backend) PutOrder(o domain.Order) domain.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	if o.ID == 0 {
		o.ID = b.id()
	}
	if o.Reference == "" {
		o.Reference = "CMD-" + strconv.FormatInt(o.ID, 10)
	}
	b.orders[o.ID] = &o
	return o
}

func (b *Backend) Order(id int64) (domain.Order, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.orders[id]
	if !ok {
		return domain.Order{}, false
	}
	return *o, true
}

func (b *Backend) PutDiscount(d domain.Discount) domain.Discount {
	b.mu.Lock()
	defer b.mu.Unlock()
	if d.ID == 0 {
		d.ID = b.id()
	}
	b.discounts[d.ID] = &d
	return d
}

func (b *Backend) PutInventory(it domain.InventoryItem) domain.InventoryItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	if it.ID == 0 {
		it.ID = b.id()
	}
	b.inventory[it.ID] = &it
	return it
}

func (b *Backend) PutNotification(n domain.Notification) domain.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n.ID == 0 {
		n.ID = b.id()
	}
	b.notifications[n.ID] = &n
	return n
}

// AnonCart returns a copy of the anonymous cart stored under token.
func (b *Backend) AnonCart(token string) (domain.Cart, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.anonCarts[token]
	if !ok {
		return domain.Cart{}, false
	}
	return *c, true
}

// UserCart returns a copy of the user's cart.
func (b *Backend) UserCart(userID int64) (domain.Cart, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.userCarts[userID]
	if !ok {
		return domain.Cart{}, false
	}
	return *c, true
}

// SeedAnonCart creates an anonymous cart with one line for dimension dimID and returns its token.
func (b *Backend) SeedAnonCart(dimID int64, qty int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	tok := "sess-" + uuid.NewString()
	c := b.newCart(nil, &tok)
	b.anonCarts[tok] = c
	dim, _ := b.dimension(dimID)
	b.addLine(c, dim, domain.CartItemInput{MaterialDimensionID: dimID, Quantity: qty})
	return tok
}

// caller resolves the bearer token. ok is false when missing or unknown.
func (b *Backend) caller(c *fiber.Ctx) (domain.User, bool) {
	h := c.Get(fiber.HeaderAuthorization)
	tok, found := strings.CutPrefix(h, "Bearer ")
	if !found {
		return domain.User{}, false
	}
	uid, ok := b.tokens[tok]
	if !ok {
		return domain.User{}, false
	}
	acc, ok := b.users[uid]
	if !ok {
		return domain.User{}, false
	}
	return acc.user, true
}

func (b *Backend) dimension(id int64) (domain.MaterialDimension, bool) {
	for _, d := range b.Dimensions {
		if d.ID == id {
			return d, true
		}
	}
	return domain.MaterialDimension{}, false
}

func (b *Backend) newCart(userID *int64, token *string) *domain.Cart {
	c := domain.EmptyCart()
	c.ID = b.id()
	c.UserID = userID
	c.SessionToken = token
	return &c
}

func (b *Backend) addLine(c *domain.Cart, dim domain.MaterialDimension, in domain.CartItemInput) {
	engraving := ""
	if in.EngravingText != nil {
		engraving = *in.EngravingText
	}
	d := dim
	c.Items = append(c.Items, domain.CartItem{
		ID:                  b.id(),
		CartID:              c.ID,
		MaterialDimensionID: dim.ID,
		Quantity:            in.Quantity,
		EngravingText:       in.EngravingText,
		MountingOption:      in.MountingOption,
		CustomOptions:       in.CustomOptions,
		FixedUnitPriceFCFA:  domain.FixedUnitPrice(dim.UnitPriceFCFA, engraving),
		MaterialDimension:   &d,
	})
	b.recompute(c)
}

func (b *Backend) recompute(c *domain.Cart) {
	c.SubtotalHT = decimal.Zero
	for _, it := range c.Items {
		c.SubtotalHT = c.SubtotalHT.Add(it.LineTotal())
	}
}

func (b *Backend) log(user domain.User, action, model string, id int64) {
	b.activities = append(b.activities, domain.Activity{
		ID:        int64(len(b.activities) + 1),
		UserID:    user.ID,
		Action:    action,
		ModelType: model,
		ModelID:   id,
		CreatedAt: domain.Timestamp{Time: b.Now()},
	})
}
