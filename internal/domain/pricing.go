package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EngravingFee is the flat surcharge applied per unit when engraving text is present.
var EngravingFee = decimal.NewFromInt(2000)

// EngravingCost is EngravingFee for non-blank text, zero otherwise. Text length does not matter.
func EngravingCost(text string) decimal.Decimal {
	if strings.TrimSpace(text) == "" {
		return decimal.Zero
	}
	return EngravingFee
}

// FixedUnitPrice is the per-unit price a cart line captures at add time.
func FixedUnitPrice(unit decimal.Decimal, engraving string) decimal.Decimal {
	return unit.Add(EngravingCost(engraving))
}

// LineTotal computes (unit + engraving) * qty.
func LineTotal(unit decimal.Decimal, qty int, engraving string) decimal.Decimal {
	return FixedUnitPrice(unit, engraving).Mul(decimal.NewFromInt(int64(qty)))
}

// Estimate mirrors the backend estimate so the price shown while editing matches the
// snapshot the backend persists. A discount, when given and applicable, is applied once
// to the line total, engraving included.
func Estimate(dim MaterialDimension, qty int, engraving string, d *Discount, now time.Time) QuoteEstimate {
	if qty < 1 {
		qty = 1
	}
	base := LineTotal(dim.UnitPriceFCFA, qty, engraving)
	final := base

	snap := EstimateSnapshot{OriginalUnitPrice: dim.UnitPriceFCFA}
	if d != nil && d.Applicable(base, now) {
		final = d.Apply(base, now)
		id := d.ID
		snap.DiscountID = &id
		snap.DiscountName = d.Name
	}

	est := QuoteEstimate{
		UnitPriceFCFA:  dim.UnitPriceFCFA,
		Quantity:       qty,
		PriceSource:    "catalog",
		DimensionLabel: dim.DimensionLabel,
		CostDetails: CostDetails{
			BasePriceFCFA:      base,
			DiscountAmountFCFA: base.Sub(final),
			FinalPriceFCFA:     final,
			DetailsSnapshot:    snap,
		},
	}
	if dim.Material != nil {
		est.MaterialName = dim.Material.Name
	}
	if dim.Shape != nil {
		est.ShapeName = dim.Shape.Name
	}
	return est
}
