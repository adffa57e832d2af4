package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type Attachment struct {
	ID             int64        `json:"id"`
	AttachableType ResourceKind `json:"attachable_type"`
	AttachableID   int64        `json:"attachable_id"`
	StoredPath     string       `json:"stored_path"`
	OriginalName   string       `json:"original_name"`
	Size           int64        `json:"size"`
	MimeType       string       `json:"mime_type"`
	CreatedAt      Timestamp    `json:"created_at"`
}

// Activity is one audit-log entry. ModelType keeps the backend spelling because the log
// covers every model, not only quotes and orders.
type Activity struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"user_id"`
	Action       string          `json:"action"`
	ModelType    string          `json:"model_type"`
	ModelID      int64           `json:"model_id"`
	DataSnapshot json.RawMessage `json:"data_snapshot"`
	IPAddress    string          `json:"ip_address"`
	CreatedAt    Timestamp       `json:"created_at"`
	User         *User           `json:"user,omitempty"`
}

type CarouselSlide struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	ImageURL     string `json:"image_url"`
	FullImageURL string `json:"full_image_url"`
	Link         string `json:"link"`
	Order        int    `json:"order"`
	Height       int    `json:"height"`
	CategoryName string `json:"category_name"`
	IsActive     bool   `json:"is_active"`
}

type Favorite struct {
	ID      int64         `json:"id"`
	UserID  int64         `json:"user_id"`
	QuoteID int64         `json:"quote_id"`
	Quote   FavoriteQuote `json:"quote"`
	Image   string        `json:"image,omitempty"`
}

type FavoriteQuote struct {
	ID        int64  `json:"id"`
	Reference string `json:"reference"`
	Name      string `json:"name"`
	Material  string `json:"material"`
	ImageURL  string `json:"image_url,omitempty"`
}

type RevenueReport struct {
	Message string `json:"message,omitempty"`
	Summary struct {
		TotalRevenueFCFA      decimal.Decimal `json:"total_revenue_fcfa"`
		TotalCompletedOrders  int             `json:"total_completed_orders"`
		AverageOrderValueFCFA decimal.Decimal `json:"average_order_value_fcfa"`
	} `json:"summary"`
	MonthlyBreakdown []MonthlyRevenue `json:"monthly_breakdown"`
}

type MonthlyRevenue struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

type DashboardStats struct {
	ActiveQuotes    int             `json:"activeQuotes"`
	PendingOrders   int             `json:"pendingOrders"`
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
	InventoryAlerts int             `json:"inventoryAlerts"`
}

// Page is the backend's paginated envelope.
type Page[T any] struct {
	CurrentPage int `json:"current_page"`
	Data        []T `json:"data"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	From        int `json:"from"`
	To          int `json:"to"`
}

func EmptyPage[T any]() Page[T] {
	return Page[T]{CurrentPage: 1, LastPage: 1, Data: []T{}}
}

func (p Page[T]) HasPrev() bool { return p.CurrentPage > 1 }
func (p Page[T]) HasNext() bool { return p.CurrentPage < p.LastPage }
