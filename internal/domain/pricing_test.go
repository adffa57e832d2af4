package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silver1953366/gravure-frontend/internal/domain"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestLineTotal_FlatEngravingFee(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		unit int64
		qty  int
		text string
		want int64
	}{
		{"no engraving", 5000, 3, "", 15000},
		{"engraving", 5000, 3, "Hello", 21000},
		{"blank engraving is free", 5000, 2, "   \t", 10000},
		{"long text same fee", 1000, 1, "Cabinet du Docteur Kouassi, 2e étage", 3000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.LineTotal(dec(tc.unit), tc.qty, tc.text)
			assert.True(t, dec(tc.want).Equal(got), "want %d got %s", tc.want, got)
		})
	}
}

func TestLineTotal_Idempotent(t *testing.T) {
	t.Parallel()

	a := domain.LineTotal(dec(7250), 4, "Bureau 12")
	b := domain.LineTotal(dec(7250), 4, "Bureau 12")
	require.True(t, a.Equal(b))
}

func TestEstimate_MatchesLineTotalAndDiscount(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	dim := domain.MaterialDimension{
		ID:             9,
		DimensionLabel: "30 x 10 cm",
		UnitPriceFCFA:  dec(5000),
		Material:       &domain.Material{Name: "Plexiglas"},
		Shape:          &domain.Shape{Name: "Rectangle"},
	}
	d := &domain.Discount{ID: 3, Name: "Promo", Type: domain.DiscountPercentage, Value: dec(10), IsActive: true}

	est := domain.Estimate(dim, 3, "Hello", d, now)

	assert.True(t, dec(21000).Equal(est.CostDetails.BasePriceFCFA))
	assert.True(t, dec(18900).Equal(est.CostDetails.FinalPriceFCFA))
	assert.True(t, dec(2100).Equal(est.CostDetails.DiscountAmountFCFA))
	assert.True(t, dec(5000).Equal(est.UnitPriceFCFA))
	assert.Equal(t, "Plexiglas", est.MaterialName)
	assert.Equal(t, "Rectangle", est.ShapeName)
	require.NotNil(t, est.CostDetails.DetailsSnapshot.DiscountID)
	assert.EqualValues(t, 3, *est.CostDetails.DetailsSnapshot.DiscountID)

	plain := domain.Estimate(dim, 3, "", nil, now)
	assert.True(t, dec(15000).Equal(plain.CostDetails.FinalPriceFCFA))
	assert.True(t, plain.CostDetails.DiscountAmountFCFA.IsZero())
	assert.Nil(t, plain.CostDetails.DetailsSnapshot.DiscountID)
}

func TestFormatFCFA(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "21 000 FCFA", domain.FormatFCFA(dec(21000)))
	assert.Equal(t, "1 234 567 FCFA", domain.FormatFCFA(dec(1234567)))
	assert.Equal(t, "500 FCFA", domain.FormatFCFA(dec(500)))
	assert.Equal(t, "0 FCFA", domain.FormatFCFA(decimal.Zero))
}
