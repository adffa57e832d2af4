package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

type CartStatus string

const (
	CartPending   CartStatus = "pending"
	CartOrdered   CartStatus = "ordered"
	CartConverted CartStatus = "converted"
)

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

type Cart struct {
	ID           int64           `json:"id"`
	UserID       *int64          `json:"user_id"`
	SessionToken *string         `json:"session_token"`
	Status       CartStatus      `json:"status"`
	Items        []CartItem      `json:"items"`
	Discount     *CartDiscount   `json:"discount"`
	SubtotalHT   decimal.Decimal `json:"subtotal_ht"`
}

type CartDiscount struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
}

// CartItem is one cart line. FixedUnitPriceFCFA (base price plus engraving) is captured
// when the line is added and never follows later catalog price changes.
type CartItem struct {
	ID                  int64              `json:"id"`
	CartID              int64              `json:"cart_id"`
	MaterialDimensionID int64              `json:"material_dimension_id"`
	Quantity            int                `json:"quantity"`
	EngravingText       *string            `json:"engraving_text"`
	MountingOption      *string            `json:"mounting_option"`
	CustomOptions       *string            `json:"custom_options"`
	FixedUnitPriceFCFA  decimal.Decimal    `json:"fixed_unit_price_fcfa"`
	MaterialDimension   *MaterialDimension `json:"materialDimension,omitempty"`
}

// CartItemInput is the add-to-cart payload.
type CartItemInput struct {
	MaterialDimensionID int64   `json:"material_dimension_id"`
	Quantity            int     `json:"quantity"`
	EngravingText       *string `json:"engraving_text,omitempty"`
	MountingOption      *string `json:"mounting_option,omitempty"`
	CustomOptions       *string `json:"custom_options,omitempty"`
}

// EmptyCart is the state shown when no cart could be loaded or after logout.
func EmptyCart() Cart {
	return Cart{Status: CartPending, Items: []CartItem{}, SubtotalHT: decimal.Zero}
}

// WithQuantity returns a copy of the line with a new quantity; the fixed price is carried over unchanged.
func (it CartItem) WithQuantity(qty int) (CartItem, error) {
	if qty < 1 {
		return it, ErrInvalidQuantity
	}
	it.Quantity = qty
	return it, nil
}

func (it CartItem) LineTotal() decimal.Decimal {
	return it.FixedUnitPriceFCFA.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

func (it CartItem) Engraving() string {
	if it.EngravingText == nil {
		return ""
	}
	return *it.EngravingText
}

func (c Cart) Empty() bool { return len(c.Items) == 0 }

func (c Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Total sums the fixed line totals. The backend's subtotal_ht wins when present.
func (c Cart) Total() decimal.Decimal {
	if !c.SubtotalHT.IsZero() {
		return c.SubtotalHT
	}
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// Token returns the anonymous session token carried by the cart, if any.
func (c Cart) Token() (string, bool) {
	if c.SessionToken == nil || *c.SessionToken == "" {
		return "", false
	}
	return *c.SessionToken, true
}

// Item finds a line by id.
func (c Cart) Item(id int64) (CartItem, bool) {
	for _, it := range c.Items {
		if it.ID == id {
			return it, true
		}
	}
	return CartItem{}, false
}
