package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type Discount struct {
	ID             int64            `json:"id,omitempty"`
	Name           string           `json:"name"`
	Code           string           `json:"code"`
	Type           DiscountType     `json:"type"`
	Value          decimal.Decimal  `json:"value"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount"`
	ExpiresAt      *Timestamp       `json:"expires_at"`
	IsActive       bool             `json:"is_active"`
}

var hundred = decimal.NewFromInt(100)

// Applicable reports whether the discount may be used on subtotal at now.
func (d Discount) Applicable(subtotal decimal.Decimal, now time.Time) bool {
	if !d.IsActive {
		return false
	}
	if d.MinOrderAmount != nil && subtotal.LessThan(*d.MinOrderAmount) {
		return false
	}
	if d.ExpiresAt != nil && !d.ExpiresAt.IsZero() && !d.ExpiresAt.After(now) {
		return false
	}
	return true
}

// Apply returns the discounted subtotal. Non-applicable discounts leave subtotal unchanged;
// fixed discounts never go below zero.
func (d Discount) Apply(subtotal decimal.Decimal, now time.Time) decimal.Decimal {
	if !d.Applicable(subtotal, now) {
		return subtotal
	}
	switch d.Type {
	case DiscountPercentage:
		out := subtotal.Mul(decimal.NewFromInt(1).Sub(d.Value.Div(hundred)))
		if out.IsNegative() {
			return decimal.Zero
		}
		return out
	case DiscountFixed:
		out := subtotal.Sub(d.Value)
		if out.IsNegative() {
			return decimal.Zero
		}
		return out
	}
	return subtotal
}

func (t DiscountType) Valid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}
