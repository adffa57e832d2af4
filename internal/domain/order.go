package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPendingPayment OrderStatus = "pending_payment"
	OrderPaid           OrderStatus = "paid"
	OrderProcessing     OrderStatus = "processing"
	OrderShipped        OrderStatus = "shipped"
	OrderCompleted      OrderStatus = "completed"
	OrderCanceled       OrderStatus = "canceled"
)

// OrderStatuses lists the statuses in pipeline order, for select boxes.
var OrderStatuses = []OrderStatus{
	OrderPendingPayment, OrderPaid, OrderProcessing, OrderShipped, OrderCompleted, OrderCanceled,
}

var orderNext = map[OrderStatus]OrderStatus{
	OrderPendingPayment: OrderPaid,
	OrderPaid:           OrderProcessing,
	OrderProcessing:     OrderShipped,
	OrderShipped:        OrderCompleted,
}

var ErrInvalidAddress = errors.New("street, city and postal code are required")

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPendingPayment, OrderPaid, OrderProcessing, OrderShipped, OrderCompleted, OrderCanceled:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCanceled
}

// CanTransition allows one step forward along the pipeline, or cancellation from any
// non-terminal state.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == OrderCanceled {
		return true
	}
	return orderNext[s] == next
}

// NextStatuses lists what staff may move the order to from s.
func (s OrderStatus) NextStatuses() []OrderStatus {
	if s.Terminal() {
		return nil
	}
	out := make([]OrderStatus, 0, 2)
	if n, ok := orderNext[s]; ok {
		out = append(out, n)
	}
	return append(out, OrderCanceled)
}

func CheckOrderTransition(from, to OrderStatus) error {
	if !from.CanTransition(to) {
		return fmt.Errorf("order %s -> %s: %w", from, to, ErrInvalidTransition)
	}
	return nil
}

type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country,omitempty"`
}

func (a Address) Validate() error {
	if strings.TrimSpace(a.Street) == "" || strings.TrimSpace(a.City) == "" || strings.TrimSpace(a.PostalCode) == "" {
		return ErrInvalidAddress
	}
	return nil
}

type DetailsSnapshot struct {
	Description string         `json:"description,omitempty"`
	Width       float64        `json:"width,omitempty"`
	Height      float64        `json:"height,omitempty"`
	Depth       float64        `json:"depth,omitempty"`
	Weight      float64        `json:"weight,omitempty"`
	Options     map[string]any `json:"options,omitempty"`
}

type Order struct {
	ID                  int64              `json:"id"`
	Reference           string             `json:"reference"`
	UserID              int64              `json:"user_id"`
	QuoteID             int64              `json:"quote_id"`
	PaymentID           *string            `json:"payment_id"`
	FinalPriceFCFA      decimal.Decimal    `json:"final_price_fcfa"`
	Quantity            int                `json:"quantity"`
	MaterialID          int64              `json:"material_id"`
	ShapeID             int64              `json:"shape_id"`
	MaterialDimensionID *int64             `json:"material_dimension_id"`
	ClientDetails       *ClientDetails     `json:"client_details"`
	DetailsSnapshot     *DetailsSnapshot   `json:"details_snapshot"`
	ShippingAddress     Address            `json:"shipping_address"`
	Status              OrderStatus        `json:"status"`
	CompletedAt         *Timestamp         `json:"completed_at"`
	CreatedAt           Timestamp          `json:"created_at"`
	UpdatedAt           Timestamp          `json:"updated_at"`
	User                *User              `json:"user,omitempty"`
	Quote               *Quote             `json:"quote,omitempty"`
	Material            *Material          `json:"material,omitempty"`
	Shape               *Shape             `json:"shape,omitempty"`
	MaterialDimension   *MaterialDimension `json:"material_dimension,omitempty"`
	Attachments         []Attachment       `json:"attachments,omitempty"`
}

// ConvertInput is the quote-to-order request body.
type ConvertInput struct {
	ShippingAddress Address `json:"shipping_address"`
}

// StatusChange is the before/after record kept for every applied order transition.
type StatusChange struct {
	OrderID   int64       `json:"order_id"`
	Reference string      `json:"reference,omitempty"`
	Before    OrderStatus `json:"before"`
	After     OrderStatus `json:"after"`
}
